package dialogue

import (
	"fmt"
	"log/slog"

	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/core/metrics"
	"github.com/citygreen/mastersbot/core/telegram/netutil"
	"github.com/citygreen/mastersbot/internal/presentation"
)

// Delivery is the result of sending a broadcast to one recipient.
type Delivery struct {
	ChatID int64
	Err    error
}

// BroadcastReport aggregates the deliveries of one broadcast.
type BroadcastReport struct {
	Total     int
	Delivered int
	Failed    []Delivery
}

// Summarize folds deliveries into a report.
func Summarize(deliveries []Delivery) BroadcastReport {
	r := BroadcastReport{Total: len(deliveries)}
	for _, d := range deliveries {
		if d.Err != nil {
			r.Failed = append(r.Failed, d)
			continue
		}
		r.Delivered++
	}
	return r
}

func (e *Engine) startBroadcast(t *turn) error {
	e.sessions.Clear(t.ev.ChatID)
	return t.enter(StateBroadcastText, markdown(presentation.PromptBroadcast, presentation.BackToMenu()))
}

func (e *Engine) broadcast(t *turn) error {
	ids, err := e.store.ListClientIDs(t.ctx)
	if err != nil {
		return fmt.Errorf("list clients: %w", err)
	}
	e.sessions.Clear(t.ev.ChatID)
	t.notify(plain(presentation.BroadcastStarting(len(ids)), nil))

	report := Summarize(e.deliver(t, ids, t.ev.Text))
	metrics.ObserveBroadcast(report.Delivered, len(report.Failed))
	logger.LogEvent(t.ctx, logger.SVCBroadcast, slog.LevelInfo, "broadcast.done",
		slog.Int("recipients", report.Total),
		slog.Int("delivered", report.Delivered),
		slog.Int("failed", len(report.Failed)),
	)
	return t.reply(markdown(presentation.BroadcastDone(report.Delivered, report.Total), nil))
}

// deliver sends text to every recipient in order. A failure is recorded and
// the loop moves on.
func (e *Engine) deliver(t *turn, ids []int64, text string) []Delivery {
	msg := plain(text, presentation.ContactManager(e.manager))
	out := make([]Delivery, 0, len(ids))
	for _, id := range ids {
		_, err := t.send(id, msg)
		if err != nil {
			logger.LogEvent(t.ctx, logger.SVCBroadcast, slog.LevelWarn, "broadcast.delivery_failed",
				slog.Int64("recipient", id),
				slog.String("err", netutil.Redact(err)),
				slog.String("err_code", netutil.Kind(err)),
			)
		}
		out = append(out, Delivery{ChatID: id, Err: err})
	}
	return out
}
