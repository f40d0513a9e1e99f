package dialogue

import (
	"github.com/citygreen/mastersbot/core/telegram/state"
	"github.com/citygreen/mastersbot/internal/presentation"
)

// Conversation states. state.StateIdle means no flow is running.
const (
	StateAddCategory state.State = "add.category"
	StateAddName     state.State = "add.name"
	StateAddCity     state.State = "add.city"
	StateAddPrice    state.State = "add.price"
	StateAddContact  state.State = "add.contact"
	StateAddPhotos   state.State = "add.photos"

	StateSearchCity     state.State = "search.city"
	StateSearchCategory state.State = "search.category"

	StateBroadcastText state.State = "broadcast.text"
	StateImportFile    state.State = "import.file"
)

var addStates = []state.State{
	StateAddCategory, StateAddName, StateAddCity,
	StateAddPrice, StateAddContact, StateAddPhotos,
}

// Session data keys.
const (
	keyCategory   = "category"
	keyName       = "name"
	keyCity       = "city"
	keyPrice      = "price"
	keyContact    = "contact"
	keyPhotos     = "photos"
	keySearchCity = "search_city"
	keySearchCats = "search_categories"
)

// route is one row of the dispatch table. An empty states list matches every
// state. The first row whose state and predicate match wins.
type route struct {
	name      string
	states    []state.State
	adminOnly bool
	match     func(Event) bool
	handle    func(*turn) error
}

func (r route) validIn(st state.State) bool {
	if len(r.states) == 0 {
		return true
	}
	for _, s := range r.states {
		if s == st {
			return true
		}
	}
	return false
}

func (e *Engine) match(st state.State, ev Event) (route, bool) {
	for _, r := range e.routes {
		if r.validIn(st) && r.match(ev) {
			return r, true
		}
	}
	return route{}, false
}

func command(name string) func(Event) bool {
	return func(ev Event) bool { return ev.Kind == KindCommand && ev.Command == name }
}

func button(key string) func(Event) bool {
	return func(ev Event) bool { return ev.Kind == KindCallback && ev.Key == key }
}

func label(text string) func(Event) bool {
	return func(ev Event) bool { return ev.Kind == KindText && ev.Text == text }
}

func kind(kinds ...Kind) func(Event) bool {
	return func(ev Event) bool {
		for _, k := range kinds {
			if ev.Kind == k {
				return true
			}
		}
		return false
	}
}

var (
	anyText  = kind(KindText)
	idleOnly = []state.State{state.StateIdle}
)

// buildRoutes lays out the table: commands and global buttons first, then the
// per-state input routes, then the menu labels that start a flow from idle.
func (e *Engine) buildRoutes() []route {
	return []route{
		{name: "start", match: command("/start"), handle: e.start},
		{name: "menu", match: command("/menu"), handle: e.menu},
		{name: "help", match: command("/help"), handle: e.help},
		{name: "back_to_menu", match: button(presentation.CBBackToMenu), handle: e.backToMenu},
		{name: "add.cancel", states: addStates, adminOnly: true, match: button(presentation.CBAddCancel), handle: e.cancelAdd},
		{name: "delete.confirm", adminOnly: true, match: button(presentation.CBDeleteConfirm), handle: e.deleteConfirm},
		{name: "back_to_admin", adminOnly: true, match: button(presentation.CBBackToAdmin), handle: e.backToAdmin},

		{name: "add.category", states: []state.State{StateAddCategory}, adminOnly: true, match: button(presentation.CBPickCategory), handle: e.pickCategory},
		{name: "add.category.reprompt", states: []state.State{StateAddCategory}, adminOnly: true, match: anyText, handle: e.categoryReprompt},
		{name: "add.name", states: []state.State{StateAddName}, adminOnly: true, match: anyText, handle: e.collectName},
		{name: "add.city", states: []state.State{StateAddCity}, adminOnly: true, match: anyText, handle: e.collectCity},
		{name: "add.price", states: []state.State{StateAddPrice}, adminOnly: true, match: anyText, handle: e.collectPrice},
		{name: "add.contact", states: []state.State{StateAddContact}, adminOnly: true, match: anyText, handle: e.collectContact},
		{name: "add.photo", states: []state.State{StateAddPhotos}, adminOnly: true, match: kind(KindPhoto), handle: e.collectPhoto},
		{name: "add.done", states: []state.State{StateAddPhotos}, adminOnly: true, match: button(presentation.CBPhotosDone), handle: e.finishAdd},

		{name: "search.city", states: []state.State{StateSearchCity}, match: anyText, handle: e.searchCity},
		{name: "search.category", states: []state.State{StateSearchCategory}, match: button(presentation.CBSearchCategory), handle: e.searchCategory},

		{name: "broadcast.send", states: []state.State{StateBroadcastText}, adminOnly: true, match: anyText, handle: e.broadcast},

		{name: "import.file", states: []state.State{StateImportFile}, adminOnly: true, match: kind(KindDocument), handle: e.importFile},
		{name: "import.reprompt", states: []state.State{StateImportFile}, adminOnly: true, match: kind(KindText, KindPhoto), handle: e.importReprompt},

		{name: "add.start", states: idleOnly, adminOnly: true, match: label(presentation.LabelAddProvider), handle: e.startAdd},
		{name: "delete.list", states: idleOnly, adminOnly: true, match: label(presentation.LabelDeleteProvider), handle: e.listForDeletion},
		{name: "broadcast.start", states: idleOnly, adminOnly: true, match: label(presentation.LabelBroadcast), handle: e.startBroadcast},
		{name: "import.start", states: idleOnly, adminOnly: true, match: label(presentation.LabelImport), handle: e.startImport},
		{name: "search.start", states: idleOnly, match: label(presentation.LabelListProviders), handle: e.startSearch},
		{name: "materials", states: idleOnly, match: label(presentation.LabelMaterials), handle: e.materials},
		{name: "contact_manager", states: idleOnly, match: label(presentation.LabelContactManager), handle: e.contactManager},
	}
}
