package transport

import (
	"strings"

	"github.com/citygreen/mastersbot/core/telegram/callbacks"
	tghelpers "github.com/citygreen/mastersbot/core/telegram/helpers"
	"github.com/citygreen/mastersbot/internal/dialogue"

	tele "gopkg.in/telebot.v4"
)

// EventFrom reduces a telebot update to an engine event. ok is false for
// updates the engine has no shape for.
func EventFrom(c tele.Context) (ev dialogue.Event, ok bool) {
	ev.ChatID, ev.UserID = tghelpers.IDs(c)
	if u := c.Sender(); u != nil {
		ev.Username = u.Username
	}

	if cb := c.Callback(); cb != nil {
		ev.Kind = dialogue.KindCallback
		ev.Key, ev.Payload = callbacks.Split(cb)
		ev.CallbackID = cb.ID
		if m := cb.Message; m != nil {
			ev.MessageID = m.ID
			ev.MessageHasPhoto = m.Photo != nil
			if m.Chat != nil {
				ev.ChatID = m.Chat.ID
			}
		}
		if ev.ChatID == 0 {
			ev.ChatID = ev.UserID
		}
		return ev, true
	}

	m := c.Message()
	if m == nil {
		return ev, false
	}
	switch {
	case m.Document != nil:
		ev.Kind = dialogue.KindDocument
		ev.Text = m.Caption
		ev.Document = &dialogue.Document{
			FileID:   m.Document.FileID,
			FileName: m.Document.FileName,
			Size:     m.Document.FileSize,
		}
	case m.Photo != nil:
		ev.Kind = dialogue.KindPhoto
		ev.Text = m.Caption
		ev.PhotoID = m.Photo.FileID
	case strings.HasPrefix(m.Text, "/"):
		ev.Kind = dialogue.KindCommand
		ev.Text = m.Text
		ev.Command = commandName(m.Text)
	case m.Text != "":
		ev.Kind = dialogue.KindText
		ev.Text = m.Text
	default:
		return ev, false
	}
	return ev, true
}

// commandName strips arguments and the @bot suffix: "/start@bot x" -> "/start".
func commandName(text string) string {
	name, _, _ := strings.Cut(text, " ")
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name)
}
