package router

import (
	tg "github.com/citygreen/mastersbot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// MessageRoutes binds plain text, photo and document messages to d. Text that
// looks like an unregistered command also arrives here.
func MessageRoutes(d Dispatcher) []tg.Route {
	if d == nil {
		return nil
	}
	bind := func(endpoint string) tele.HandlerFunc {
		return func(c tele.Context) error { return dispatch(c, endpoint, d) }
	}
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: bind("text")},
		{Endpoint: tele.OnPhoto, Handler: bind("photo")},
		{Endpoint: tele.OnDocument, Handler: bind("document")},
	}
}
