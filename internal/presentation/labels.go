// Package presentation builds the menus, pickers and cards the bot shows.
// Everything here is a pure function of its arguments.
package presentation

// Reply keyboard labels. Plain text equal to one of these starts a flow.
const (
	LabelAddProvider    = "➕ Add master"
	LabelDeleteProvider = "🗑️ Delete master"
	LabelBroadcast      = "📢 Broadcast"
	LabelImport         = "📄 Bulk import (CSV)"
	LabelListProviders  = "📋 Masters list"
	LabelMaterials      = "🧱 Building materials"
	LabelContactManager = "💬 Contact manager"
)

// Inline button uniques. Callback data is "\f<unique>|<payload>".
const (
	CBPickCategory   = "pick_category"
	CBAddCancel      = "add_cancel"
	CBPhotosDone     = "photos_done"
	CBSearchCategory = "search_category"
	CBBackToMenu     = "back_to_menu"
	CBDeleteConfirm  = "del_confirm"
	CBBackToAdmin    = "back_to_admin"
)

// CallbackKeys lists every unique the engine answers to.
func CallbackKeys() []string {
	return []string{
		CBPickCategory,
		CBAddCancel,
		CBPhotosDone,
		CBSearchCategory,
		CBBackToMenu,
		CBDeleteConfirm,
		CBBackToAdmin,
	}
}

// MaxCallbackData is the Bot API limit on callback data, in bytes.
const MaxCallbackData = 64

// FitsCallback reports whether payload can ride on a button with the given unique.
func FitsCallback(unique, payload string) bool {
	return len(unique)+len(payload)+2 <= MaxCallbackData
}
