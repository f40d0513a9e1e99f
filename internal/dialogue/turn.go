package dialogue

import (
	"context"
	"log/slog"

	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/core/telegram/netutil"
	"github.com/citygreen/mastersbot/core/telegram/state"
	"github.com/citygreen/mastersbot/internal/presentation"

	tele "gopkg.in/telebot.v4"
)

// turn carries one event through its handler and counts what was sent.
type turn struct {
	ctx   context.Context
	e     *Engine
	tr    Transport
	ev    Event
	res   Result
	acked bool
}

func plain(text string, markup *tele.ReplyMarkup) Message {
	return Message{Text: text, Markup: markup}
}

func markdown(text string, markup *tele.ReplyMarkup) Message {
	return Message{Text: text, Markup: markup, Markdown: true}
}

func (t *turn) count(msg Message) {
	t.res.Messages++
	if msg.Markup != nil {
		t.res.Keyboard = true
	}
}

func (t *turn) send(chatID int64, msg Message) (MessageRef, error) {
	ref, err := t.tr.Send(t.ctx, chatID, msg)
	if err == nil {
		t.count(msg)
	}
	return ref, err
}

// reply answers in the chat the event came from.
func (t *turn) reply(msg Message) error {
	_, err := t.send(t.ev.ChatID, msg)
	return err
}

// enter sends the prompt of st and only then moves the chat there. A prompt
// that was not delivered leaves the chat where it was.
func (t *turn) enter(st state.State, msg Message) error {
	if err := t.reply(msg); err != nil {
		return err
	}
	t.e.sessions.SetState(t.ev.ChatID, st)
	return nil
}

// notify is reply for messages whose loss must not fail the handler, such as
// the final report after the store was already written.
func (t *turn) notify(msg Message) {
	if err := t.reply(msg); err != nil {
		t.warn("reply.failed", err)
	}
}

// editOrSend rewrites the message that carried the pressed button, or sends
// msg as a new message when the edit fails.
func (t *turn) editOrSend(msg Message) error {
	if t.ev.MessageID != 0 {
		err := t.tr.Edit(t.ctx, t.ev.Message(), msg)
		if err == nil {
			t.count(msg)
			return nil
		}
		t.warn("edit.failed", err)
	}
	return t.reply(msg)
}

// editCard is editOrSend for a card, which may be a photo with a caption.
func (t *turn) editCard(msg Message) error {
	if !t.ev.MessageHasPhoto {
		return t.editOrSend(msg)
	}
	if err := t.tr.EditCaption(t.ctx, t.ev.Message(), msg); err != nil {
		t.warn("edit.failed", err)
		return t.reply(msg)
	}
	t.count(msg)
	return nil
}

// deleteSource removes the message that carried the pressed button.
func (t *turn) deleteSource() {
	if t.ev.MessageID == 0 {
		return
	}
	if err := t.tr.Delete(t.ctx, t.ev.Message()); err != nil {
		t.warn("delete.failed", err)
	}
}

func (t *turn) ack(a Ack) {
	if t.ev.Kind != KindCallback || t.acked {
		return
	}
	t.acked = true
	if err := t.tr.Ack(t.ctx, t.ev.CallbackID, a); err != nil {
		t.warn("ack.failed", err)
	}
}

// sendCard delivers one provider card. A failed card is replaced by a short
// notice; only a failure of the notice itself is returned.
func (t *turn) sendCard(card presentation.Card, fallback string, markup *tele.ReplyMarkup) error {
	msg := markdown(card.Text, markup)
	var err error
	if card.HasPhoto() {
		_, err = t.tr.SendPhoto(t.ctx, t.ev.ChatID, card.Photo, msg)
	} else {
		_, err = t.tr.Send(t.ctx, t.ev.ChatID, msg)
	}
	if err == nil {
		t.count(msg)
		return nil
	}
	t.warn("card.failed", err)
	return t.reply(plain(fallback, markup))
}

func (t *turn) warn(event string, err error) {
	logger.LogEvent(t.ctx, logger.Transport, slog.LevelWarn, event,
		slog.String("status", "fail"),
		slog.String("err", netutil.Redact(err)),
		slog.String("err_code", netutil.Kind(err)),
	)
}
