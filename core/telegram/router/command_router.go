package router

import (
	"log/slog"

	"github.com/citygreen/mastersbot/core/logger"
	tg "github.com/citygreen/mastersbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes binds every registered command to d.
func CommandRoutes(reg *tg.Registry, d Dispatcher) []tg.Route {
	if reg == nil || d == nil {
		return nil
	}
	names := reg.CommandNames()
	routes := make([]tg.Route, 0, len(names))
	for _, name := range names {
		endpoint := "command." + normalizeHandlerName(name)
		routes = append(routes, tg.Route{
			Endpoint: name,
			Handler: func(c tele.Context) error {
				return dispatch(c, endpoint, d)
			},
		})
	}
	if logger.TWire != nil {
		logger.TWire.Info("routes wired",
			slog.String("event", "wire.commands"),
			slog.Int("count", len(routes)),
		)
	}
	return routes
}
