package presentation

import (
	"strconv"
	"strings"

	"github.com/citygreen/mastersbot/core/telegram/keyboard"
	"github.com/citygreen/mastersbot/internal/domain"

	tele "gopkg.in/telebot.v4"
)

func AdminMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{LabelAddProvider, LabelDeleteProvider},
		[]string{LabelBroadcast, LabelImport},
		[]string{LabelListProviders},
		[]string{"/help", "/menu"},
	)
}

func ClientMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{LabelListProviders},
		[]string{LabelMaterials, LabelContactManager},
	)
}

// RootMenu picks the reply keyboard for role.
func RootMenu(role domain.Role) *tele.ReplyMarkup {
	if role == domain.RoleAdmin {
		return AdminMenu()
	}
	return ClientMenu()
}

var (
	cancelAddBtn  = keyboard.InlineBtn{Text: "❌ Cancel", Unique: CBAddCancel}
	backToMenuBtn = keyboard.InlineBtn{Text: "⬅️ Back to menu", Unique: CBBackToMenu}
)

// CategoryPicker offers one button per category, the category name being the
// payload, followed by a cancel button.
func CategoryPicker(categories []string) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(categories)+1)
	for _, c := range categories {
		buttons = append(buttons, keyboard.InlineBtn{Text: c, Unique: CBPickCategory, Data: c})
	}
	buttons = append(buttons, cancelAddBtn)
	return keyboard.InlineColumn(buttons...)
}

// CancelAdd is the single cancel button shown under AddProvider text prompts.
func CancelAdd() *tele.ReplyMarkup {
	return keyboard.InlineColumn(cancelAddBtn)
}

// PhotosDone shows Done and Cancel while photos are collected.
func PhotosDone() *tele.ReplyMarkup {
	return keyboard.InlineColumn(
		keyboard.InlineBtn{Text: "➡️ Done", Unique: CBPhotosDone},
		cancelAddBtn,
	)
}

// SearchCategories lists the categories found in storage. The payload is the
// index into categories, so long names never hit the callback size limit.
func SearchCategories(categories []string) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(categories)+1)
	for i, c := range categories {
		buttons = append(buttons, keyboard.InlineBtn{Text: c, Unique: CBSearchCategory, Data: strconv.Itoa(i)})
	}
	buttons = append(buttons, backToMenuBtn)
	return keyboard.InlineColumn(buttons...)
}

func BackToMenu() *tele.ReplyMarkup {
	return keyboard.InlineColumn(backToMenuBtn)
}

// DeleteButton is attached to each card of the deletion list.
func DeleteButton(id int64) *tele.ReplyMarkup {
	return keyboard.InlineColumn(keyboard.InlineBtn{
		Text:   "🗑️ Delete permanently",
		Unique: CBDeleteConfirm,
		Data:   strconv.FormatInt(id, 10),
	})
}

func BackToAdmin() *tele.ReplyMarkup {
	return keyboard.InlineColumn(keyboard.InlineBtn{Text: "⬅️ Back to admin menu", Unique: CBBackToAdmin})
}

// ManagerURL is the t.me link for username; a leading @ is dropped.
func ManagerURL(username string) string {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return ""
	}
	return "https://t.me/" + username
}

// ContactManager is a single link button to the manager chat, nil when no
// manager is configured.
func ContactManager(username string) *tele.ReplyMarkup {
	url := ManagerURL(username)
	if url == "" {
		return nil
	}
	return keyboard.InlineColumn(keyboard.InlineBtn{Text: "💬 Write to manager", URL: url})
}
