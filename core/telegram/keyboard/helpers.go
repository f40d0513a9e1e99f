// Package keyboard builds reply and inline keyboards.
package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn describes one inline button. A non-empty URL makes it a link
// button; otherwise Unique and Data form the callback.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
	URL    string
}

// ReplyButtons builds a resized reply keyboard from rows of labels.
func ReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	keyboard := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tele.Btn, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, markup.Text(label))
		}
		keyboard = append(keyboard, markup.Row(buttons...))
	}
	markup.Reply(keyboard...)
	return markup
}

// RemoveKeyboard hides any reply keyboard shown to the user.
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// InlineRows builds an inline keyboard from rows of buttons.
func InlineRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			var btn tele.Btn
			if b.URL != "" {
				btn = markup.URL(b.Text, b.URL)
			} else {
				btn = markup.Data(b.Text, b.Unique, b.Data)
			}
			r = append(r, *btn.Inline())
		}
		inline = append(inline, r)
	}
	markup.InlineKeyboard = inline
	return markup
}

// InlineColumn places each button on its own row.
func InlineColumn(buttons ...InlineBtn) *tele.ReplyMarkup {
	return InlineRows(Chunk(buttons, 1)...)
}

// Chunk splits buttons into rows of at most n. n <= 1 yields one per row.
func Chunk(buttons []InlineBtn, n int) [][]InlineBtn {
	if n < 1 {
		n = 1
	}
	rows := make([][]InlineBtn, 0, (len(buttons)+n-1)/n)
	for i := 0; i < len(buttons); i += n {
		end := min(i+n, len(buttons))
		rows = append(rows, buttons[i:end])
	}
	return rows
}
