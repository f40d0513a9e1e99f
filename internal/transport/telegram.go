// Package transport connects the dialogue engine to telebot: it turns updates
// into engine events and carries engine output back to the Bot API.
package transport

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/citygreen/mastersbot/internal/dialogue"

	tele "gopkg.in/telebot.v4"
)

// BotAPI is the subset of the Bot API the transport calls. *tele.Bot satisfies it.
type BotAPI interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
	Edit(msg tele.Editable, what interface{}, opts ...interface{}) (*tele.Message, error)
	EditCaption(msg tele.Editable, caption string, opts ...interface{}) (*tele.Message, error)
	Delete(msg tele.Editable) error
	Respond(c *tele.Callback, resp ...*tele.CallbackResponse) error
	File(file *tele.File) (io.ReadCloser, error)
}

// Telegram implements dialogue.Transport on a BotAPI.
type Telegram struct {
	api BotAPI
}

var _ dialogue.Transport = (*Telegram)(nil)

func New(api BotAPI) *Telegram {
	return &Telegram{api: api}
}

func options(msg dialogue.Message) *tele.SendOptions {
	opts := &tele.SendOptions{ReplyMarkup: msg.Markup}
	if msg.Markdown {
		opts.ParseMode = tele.ModeMarkdown
	}
	return opts
}

func stored(ref dialogue.MessageRef) tele.StoredMessage {
	return tele.StoredMessage{MessageID: strconv.Itoa(ref.MessageID), ChatID: ref.ChatID}
}

func refOf(chatID int64, m *tele.Message) dialogue.MessageRef {
	ref := dialogue.MessageRef{ChatID: chatID}
	if m != nil {
		ref.MessageID = m.ID
	}
	return ref
}

func (t *Telegram) Send(_ context.Context, chatID int64, msg dialogue.Message) (dialogue.MessageRef, error) {
	m, err := t.api.Send(tele.ChatID(chatID), msg.Text, options(msg))
	if err != nil {
		return dialogue.MessageRef{}, fmt.Errorf("send to %d: %w", chatID, err)
	}
	return refOf(chatID, m), nil
}

func (t *Telegram) SendPhoto(_ context.Context, chatID int64, photo string, msg dialogue.Message) (dialogue.MessageRef, error) {
	p := &tele.Photo{File: tele.File{FileID: photo}, Caption: msg.Text}
	m, err := t.api.Send(tele.ChatID(chatID), p, options(msg))
	if err != nil {
		return dialogue.MessageRef{}, fmt.Errorf("send photo to %d: %w", chatID, err)
	}
	return refOf(chatID, m), nil
}

func (t *Telegram) Edit(_ context.Context, ref dialogue.MessageRef, msg dialogue.Message) error {
	if _, err := t.api.Edit(stored(ref), msg.Text, options(msg)); err != nil {
		return fmt.Errorf("edit %d/%d: %w", ref.ChatID, ref.MessageID, err)
	}
	return nil
}

func (t *Telegram) EditCaption(_ context.Context, ref dialogue.MessageRef, msg dialogue.Message) error {
	if _, err := t.api.EditCaption(stored(ref), msg.Text, options(msg)); err != nil {
		return fmt.Errorf("edit caption %d/%d: %w", ref.ChatID, ref.MessageID, err)
	}
	return nil
}

func (t *Telegram) Delete(_ context.Context, ref dialogue.MessageRef) error {
	if err := t.api.Delete(stored(ref)); err != nil {
		return fmt.Errorf("delete %d/%d: %w", ref.ChatID, ref.MessageID, err)
	}
	return nil
}

func (t *Telegram) Ack(_ context.Context, callbackID string, ack dialogue.Ack) error {
	resp := &tele.CallbackResponse{Text: ack.Text, ShowAlert: ack.Alert}
	if err := t.api.Respond(&tele.Callback{ID: callbackID}, resp); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

// Download reads at most limit bytes; a longer file fails with
// dialogue.ErrFileTooLarge.
func (t *Telegram) Download(_ context.Context, fileID string, limit int64) ([]byte, error) {
	rc, err := t.api.File(&tele.File{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, dialogue.ErrFileTooLarge
	}
	return data, nil
}
