package state

// State names a step in a multi-step conversation.
type State string

// StateIdle means no conversation is in progress.
const StateIdle State = "idle"

// Session is the conversation of one chat.
type Session struct {
	State    State
	TempData map[string]any
}

// Manager stores sessions keyed by chat id.
type Manager interface {
	SetState(chatID int64, st State)
	GetState(chatID int64) State
	SetTemp(chatID int64, key string, value any)
	GetTemp(chatID int64, key string) (any, bool)
	GetTempString(chatID int64, key string) (string, bool)
	GetTempStrings(chatID int64, key string) ([]string, bool)
	// Clear drops the state and every temp value.
	Clear(chatID int64)
}
