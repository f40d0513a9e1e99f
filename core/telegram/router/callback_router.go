package router

import (
	"log/slog"
	"time"

	tg "github.com/citygreen/mastersbot/core/telegram"
	"github.com/citygreen/mastersbot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises handling of unknown callback keys.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute sends callbacks with a registered key to d. Unknown keys go
// to the registry fallback, then opts.NotFound. Acknowledging the callback is
// left to whoever handles it.
func CallbackRoute(reg *tg.Registry, d Dispatcher, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		cb := c.Callback()
		if cb == nil {
			return nil
		}
		key, _ := callbacks.Split(cb)
		endpoint := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		if reg != nil && reg.HasCallback(key) {
			return dispatch(c, endpoint, d, extras...)
		}

		start := time.Now()
		fallback := opts.NotFound
		if reg != nil && reg.CallbackNotFound() != nil {
			fallback = reg.CallbackNotFound()
		}
		var err error
		if fallback != nil {
			err = fallback(c)
		}
		logSummary(c, Summary{Handler: endpoint, Outcome: "ignored"}, start, err,
			append(extras, slog.String("cause", "not_found"))...)
		return err
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}
