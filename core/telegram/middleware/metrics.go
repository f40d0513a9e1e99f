package middleware

import (
	"strings"

	"github.com/citygreen/mastersbot/core/metrics"

	tele "gopkg.in/telebot.v4"
)

// Update kinds used for metrics labels and rate-limit exclusions.
const (
	KindCallback = "callback"
	KindCommand  = "command"
	KindText     = "text"
	KindPhoto    = "photo"
	KindDocument = "document"
	KindOther    = "other"
)

// UpdateKind classifies the update carried by c.
func UpdateKind(c tele.Context) string {
	upd := c.Update()
	switch {
	case upd.Callback != nil:
		return KindCallback
	case upd.Message == nil:
		return KindOther
	case upd.Message.Photo != nil:
		return KindPhoto
	case upd.Message.Document != nil:
		return KindDocument
	case strings.HasPrefix(upd.Message.Text, "/"):
		return KindCommand
	case upd.Message.Text != "":
		return KindText
	}
	return KindOther
}

// UpdateMetricsMiddleware counts incoming updates by kind.
func UpdateMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		metrics.IncUpdate(UpdateKind(c))
		return next(c)
	}
}
