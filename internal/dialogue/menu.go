package dialogue

import (
	"fmt"
	"log/slog"

	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/internal/domain"
	"github.com/citygreen/mastersbot/internal/presentation"
)

// roleOf reads the stored role of the sender.
func (e *Engine) roleOf(t *turn) (domain.Role, error) {
	role, err := e.store.GetUserRole(t.ctx, t.ev.UserID)
	if err != nil {
		return "", fmt.Errorf("get role of user %d: %w", t.ev.UserID, err)
	}
	return role, nil
}

// start registers the sender with the role given by the allow-list.
func (e *Engine) start(t *turn) error {
	role := domain.RoleClient
	if e.IsAdmin(t.ev.UserID) {
		role = domain.RoleAdmin
	}
	u := domain.User{
		ID:          t.ev.UserID,
		DisplayName: domain.DisplayNameFor(t.ev.UserID, t.ev.Username),
		Role:        role,
	}
	if err := e.store.UpsertUser(t.ctx, u); err != nil {
		return fmt.Errorf("upsert user %d: %w", u.ID, err)
	}
	logger.LogEvent(t.ctx, logger.Dialogue, slog.LevelInfo, "user.registered",
		slog.String("role", string(role)),
	)
	return t.reply(plain(presentation.Greeting(role), presentation.RootMenu(role)))
}

func (e *Engine) menu(t *turn) error {
	role, err := e.roleOf(t)
	if err != nil {
		return err
	}
	return t.reply(plain(presentation.MenuText(role), presentation.RootMenu(role)))
}

func (e *Engine) help(t *turn) error {
	role, err := e.roleOf(t)
	if err != nil {
		return err
	}
	return t.reply(markdown(presentation.Help(role), nil))
}

// backToMenu abandons whatever flow is running.
func (e *Engine) backToMenu(t *turn) error {
	role, err := e.roleOf(t)
	if err != nil {
		return err
	}
	e.sessions.Clear(t.ev.ChatID)
	t.ack(Ack{})
	t.deleteSource()
	return t.reply(plain(presentation.MenuText(role), presentation.RootMenu(role)))
}

func (e *Engine) backToAdmin(t *turn) error {
	t.ack(Ack{})
	t.deleteSource()
	return t.reply(plain(presentation.MenuAdmin, presentation.AdminMenu()))
}

func (e *Engine) materials(t *turn) error {
	return t.reply(markdown(presentation.Materials, nil))
}

func (e *Engine) contactManager(t *turn) error {
	markup := presentation.ContactManager(e.manager)
	if markup == nil {
		return t.reply(plain(presentation.ManagerMissing, nil))
	}
	return t.reply(plain(presentation.ContactManagerText(e.manager), markup))
}
