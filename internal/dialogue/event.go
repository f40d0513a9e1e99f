// Package dialogue runs the per-chat conversations of the bot: provider
// registration, search, broadcast, batch import and deletion. It talks to the
// outside world only through the Transport and Store interfaces.
package dialogue

// Kind is the shape of an inbound event.
type Kind string

const (
	KindCommand  Kind = "command"
	KindText     Kind = "text"
	KindCallback Kind = "callback"
	KindPhoto    Kind = "photo"
	KindDocument Kind = "document"
)

// Document is a file attachment.
type Document struct {
	FileID   string
	FileName string
	// Size is the size reported by Telegram, 0 when unknown.
	Size int64
}

// Event is one inbound update reduced to what the engine routes on.
type Event struct {
	ChatID   int64
	UserID   int64
	Username string

	Kind Kind
	// Text is the message text, or the caption of a photo or document.
	Text string
	// Command is the slash command without arguments or bot suffix, e.g. "/start".
	Command string

	// Key and Payload decode the callback data of a button press.
	Key        string
	Payload    string
	CallbackID string
	// MessageID identifies the message that carried the pressed button.
	MessageID       int
	MessageHasPhoto bool

	// PhotoID is the file id of the largest size of a photo.
	PhotoID  string
	Document *Document
}

// Message returns a reference to the message that carried a pressed button.
func (ev Event) Message() MessageRef {
	return MessageRef{ChatID: ev.ChatID, MessageID: ev.MessageID}
}
