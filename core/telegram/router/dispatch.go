// Package router binds telebot endpoints to a Dispatcher and writes one
// summary log line per handled update.
package router

import (
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/core/metrics"
	tghelpers "github.com/citygreen/mastersbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Summary describes what a dispatcher did with one update.
type Summary struct {
	// Handler names the route that served the update.
	Handler string
	// Outcome is handled, ignored or rejected.
	Outcome  string
	Messages int
	Keyboard bool
}

// Dispatcher serves updates that reached a route.
type Dispatcher interface {
	Dispatch(c tele.Context) (Summary, error)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(c tele.Context) (Summary, error)

func (f DispatcherFunc) Dispatch(c tele.Context) (Summary, error) { return f(c) }

func dispatch(c tele.Context, endpoint string, d Dispatcher, extras ...slog.Attr) error {
	start := time.Now()
	tghelpers.WithHandler(c, endpoint)
	sum, err := d.Dispatch(c)
	if sum.Handler == "" {
		sum.Handler = endpoint
	}
	logSummary(c, sum, start, err, extras...)
	return err
}

func logSummary(c tele.Context, sum Summary, start time.Time, err error, extras ...slog.Attr) {
	ctx := tghelpers.WithHandler(c, sum.Handler)
	took := time.Since(start)

	status, outcome, level := "ok", sum.Outcome, slog.LevelInfo
	if outcome == "" {
		outcome = "handled"
	}
	if err != nil {
		status, outcome, level = "fail", "fail", slog.LevelError
	}
	metrics.ObserveHandler(sum.Handler, outcome, took)

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("outcome", outcome),
		slog.Int("messages", sum.Messages),
		slog.Bool("kb", sum.Keyboard),
		slog.Duration("duration", logger.RoundMS(took)),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", errorCode(err)),
		)
	}
	attrs = append(attrs, extras...)
	logger.LogEvent(ctx, logger.Component(logger.CompTG), level, "handler.done", attrs...)
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	if name == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// errorCode prefers an explicit Code() and falls back to the error type name.
func errorCode(err error) string {
	type coder interface{ Code() string }
	if c, ok := err.(coder); ok {
		if code := strings.TrimSpace(c.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(t.Name())
}
