package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

// Registry records the slash commands and callback keys the bot answers to.
type Registry struct {
	mu               sync.RWMutex
	commands         map[string]commands.Command
	callbacks        map[string]struct{}
	callbackNotFound tele.HandlerFunc
}

// NewRegistry returns an empty Registry whose unknown-callback fallback
// answers with a short notice.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		callbacks: make(map[string]struct{}),
		callbackNotFound: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "This button is no longer active."})
		},
	}
}

func wireWarn(event string, attrs ...slog.Attr) {
	if logger.TWire == nil {
		return
	}
	logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, event, attrs...)
}

// RegisterCommand adds a slash command. Names must start with '/'.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	switch {
	case name == "" || cmd.Description == "":
		wireWarn("register.command.skip", slog.String("name", name), slog.String("cause", "invalid"))
		return fmt.Errorf("invalid command registration %q", name)
	case name[0] != '/':
		wireWarn("register.command.skip", slog.String("name", name), slog.String("cause", "no_slash_prefix"))
		return fmt.Errorf("command %q must start with '/'", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		wireWarn("register.command.duplicate", slog.String("name", name))
		return fmt.Errorf("command already registered: %s", name)
	}
	r.commands[name] = cmd
	return nil
}

// ListCommands returns commands sorted by name, optionally without hidden ones.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]tele.Command, 0, len(r.commands))
	for name, meta := range r.commands {
		if visibleOnly && meta.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: name, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// CommandNames returns every registered command, hidden ones included.
func (r *Registry) CommandNames() []string {
	all := r.ListCommands(false)
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Text
	}
	return names
}

// RegisterCallback declares a callback unique the bot handles.
func (r *Registry) RegisterCallback(key string) error {
	if key == "" {
		wireWarn("register.callback.skip", slog.String("cause", "empty_key"))
		return fmt.Errorf("empty callback key")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		wireWarn("register.callback.duplicate", slog.String("cb_key", key))
		return fmt.Errorf("callback already registered: %s", key)
	}
	r.callbacks[key] = struct{}{}
	return nil
}

func (r *Registry) HasCallback(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.callbacks[key]
	return ok
}

// ListCallbacks returns sorted callback keys.
func (r *Registry) ListCallbacks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.callbacks))
	for k := range r.callbacks {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SetCallbackNotFound replaces the handler for unknown callback keys.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h != nil {
		r.callbackNotFound = h
	}
}

func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	return r.callbackNotFound
}

// CommandSetter is the part of the Bot API used to publish the command menu.
type CommandSetter interface {
	SetCommands(opts ...interface{}) error
}

// InitBotCommands publishes the visible commands to the Telegram command menu.
func InitBotCommands(bot CommandSetter, reg *Registry) error {
	cmds := reg.ListCommands(true)
	if err := bot.SetCommands(cmds); err != nil {
		wireWarn("register.commands.set_failed", slog.String("err", err.Error()))
		return err
	}
	if logger.TWire != nil {
		logger.TWire.Info("commands published",
			slog.String("event", "register.commands"),
			slog.Int("count", len(cmds)),
		)
	}
	return nil
}
