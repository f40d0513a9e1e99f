// Package format escapes user text for Telegram parse modes.
package format

import (
	"fmt"
	"regexp"
)

const (
	MarkdownV1 = 1
	MarkdownV2 = 2
)

var (
	mdV1Specials = regexp.MustCompile("([_*`\\[])")
	mdV2Specials = regexp.MustCompile(`([_*\[\]()~` + "`" + `>#+\-=|{}.!\\])`)
)

// EscapeMarkdown backslash-escapes the characters that carry meaning in the
// given Telegram Markdown version.
func EscapeMarkdown(text string, version int) (string, error) {
	switch version {
	case MarkdownV1:
		return mdV1Specials.ReplaceAllString(text, `\$1`), nil
	case MarkdownV2:
		return mdV2Specials.ReplaceAllString(text, `\$1`), nil
	}
	return "", fmt.Errorf("unsupported markdown version: %d", version)
}

// Markdown escapes text for the legacy Markdown parse mode used by captions.
func Markdown(text string) string {
	return mdV1Specials.ReplaceAllString(text, `\$1`)
}
