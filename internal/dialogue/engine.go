package dialogue

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/core/telegram/state"
	"github.com/citygreen/mastersbot/internal/domain"
)

// Outcome classifies how the engine treated an event.
type Outcome string

const (
	OutcomeHandled  Outcome = "handled"
	OutcomeIgnored  Outcome = "ignored"
	OutcomeRejected Outcome = "rejected"
)

// Result describes one handled event for the caller's summary log.
type Result struct {
	// Route names the matched route; empty when nothing matched.
	Route    string
	Outcome  Outcome
	Messages int
	Keyboard bool
}

// Options configures an Engine.
type Options struct {
	Store Store
	// Sessions defaults to an in-memory manager.
	Sessions state.Manager
	// Admins is the static allow-list of administrator user ids.
	Admins []int64
	// Categories offered when registering a provider.
	Categories      []string
	ManagerUsername string
	// ImportMaxBytes bounds the size of an imported file.
	ImportMaxBytes int64
}

const defaultImportMaxBytes = 1 << 20

// Engine dispatches events to the conversation flows. Events of one chat are
// handled one at a time; different chats run in parallel.
type Engine struct {
	store      Store
	sessions   state.Manager
	admins     map[int64]struct{}
	categories []string
	manager    string
	importMax  int64

	locks  *keyedMutex
	routes []route
}

// New builds an Engine. A Store is required.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("dialogue: nil store")
	}
	categories := opts.Categories
	if len(categories) == 0 {
		categories = domain.DefaultCategories
	}
	e := &Engine{
		store:      opts.Store,
		sessions:   opts.Sessions,
		admins:     make(map[int64]struct{}, len(opts.Admins)),
		categories: append([]string(nil), categories...),
		manager:    opts.ManagerUsername,
		importMax:  opts.ImportMaxBytes,
		locks:      newKeyedMutex(),
	}
	if e.sessions == nil {
		e.sessions = state.NewMemoryManager()
	}
	if e.importMax <= 0 {
		e.importMax = defaultImportMaxBytes
	}
	for _, id := range opts.Admins {
		e.admins[id] = struct{}{}
	}
	e.routes = e.buildRoutes()
	return e, nil
}

// IsAdmin checks id against the static allow-list.
func (e *Engine) IsAdmin(id int64) bool {
	_, ok := e.admins[id]
	return ok
}

// State reports the current conversation state of a chat.
func (e *Engine) State(chatID int64) state.State {
	return e.sessions.GetState(chatID)
}

// Handle routes ev through the table and runs the matched handler. Admin-only
// routes are refused for other senders before any handler code runs. Button
// presses are always acknowledged exactly once.
func (e *Engine) Handle(ctx context.Context, tr Transport, ev Event) (Result, error) {
	unlock := e.locks.Lock(ev.ChatID)
	defer unlock()

	t := &turn{ctx: ctx, e: e, tr: tr, ev: ev}
	st := e.sessions.GetState(ev.ChatID)

	var err error
	r, ok := e.match(st, ev)
	switch {
	case !ok:
		t.res.Outcome = OutcomeIgnored
		logger.LogEvent(ctx, logger.Dialogue, slog.LevelDebug, "dialogue.unmatched",
			slog.String("state", string(st)),
			slog.String("kind", string(ev.Kind)),
		)
	case r.adminOnly && !e.IsAdmin(ev.UserID):
		t.res.Route = r.name
		t.res.Outcome = OutcomeRejected
		logger.LogEvent(ctx, logger.Dialogue, slog.LevelWarn, "access.rejected",
			slog.String("route", r.name),
			slog.String("state", string(st)),
			slog.Bool("allowlisted", e.IsAdmin(ev.UserID)),
		)
	default:
		t.res.Route = r.name
		t.res.Outcome = OutcomeHandled
		err = r.handle(t)
	}

	if ev.Kind == KindCallback && !t.acked {
		t.ack(Ack{})
	}
	return t.res, err
}

// keyedMutex serialises work per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int64]*refLock)}
}

func (k *keyedMutex) Lock(key int64) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
