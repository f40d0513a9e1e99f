// Package callbacks decodes inline button callback data.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Parse splits raw callback data of the form "\f<unique>|<payload>" as produced
// by telebot inline buttons. Data without the leading form feed is treated as
// "<unique>|<payload>" as well.
func Parse(data string) (unique, payload string) {
	data = strings.TrimPrefix(data, "\f")
	unique, payload, _ = strings.Cut(data, "|")
	return strings.TrimSpace(unique), payload
}

// Split returns the unique and payload of cb, preferring fields telebot already
// decoded when the callback matched a registered button.
func Split(cb *tele.Callback) (unique, payload string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	return Parse(cb.Data)
}
