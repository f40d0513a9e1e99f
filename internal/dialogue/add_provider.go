package dialogue

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/core/metrics"
	"github.com/citygreen/mastersbot/internal/domain"
	"github.com/citygreen/mastersbot/internal/presentation"
)

// The provider is only written at Done; every earlier step edits the session.

func (e *Engine) startAdd(t *turn) error {
	e.sessions.Clear(t.ev.ChatID)
	return t.enter(StateAddCategory, markdown(presentation.PromptCategory, presentation.CategoryPicker(e.categories)))
}

func (e *Engine) categoryReprompt(t *turn) error {
	return t.reply(markdown(presentation.UseCategoryBtns, presentation.CategoryPicker(e.categories)))
}

func (e *Engine) pickCategory(t *turn) error {
	t.ack(Ack{})
	category := t.ev.Payload
	if !slices.Contains(e.categories, category) {
		return e.categoryReprompt(t)
	}
	e.sessions.SetTemp(t.ev.ChatID, keyCategory, category)
	if err := t.editOrSend(markdown(presentation.CategorySelected(category), presentation.CancelAdd())); err != nil {
		return err
	}
	e.sessions.SetState(t.ev.ChatID, StateAddName)
	return nil
}

func (e *Engine) collectName(t *turn) error {
	name := strings.TrimSpace(t.ev.Text)
	if name == "" {
		return t.reply(markdown(presentation.NameRequired, presentation.CancelAdd()))
	}
	e.sessions.SetTemp(t.ev.ChatID, keyName, name)
	return t.enter(StateAddCity, markdown(presentation.PromptCity, presentation.CancelAdd()))
}

func (e *Engine) collectCity(t *turn) error {
	e.sessions.SetTemp(t.ev.ChatID, keyCity, strings.TrimSpace(t.ev.Text))
	return t.enter(StateAddPrice, markdown(presentation.PromptPrice, presentation.CancelAdd()))
}

func (e *Engine) collectPrice(t *turn) error {
	e.sessions.SetTemp(t.ev.ChatID, keyPrice, strings.TrimSpace(t.ev.Text))
	return t.enter(StateAddContact, markdown(presentation.PromptContact, presentation.CancelAdd()))
}

func (e *Engine) collectContact(t *turn) error {
	contact := strings.TrimSpace(t.ev.Text)
	if contact == "" {
		return t.reply(markdown(presentation.ContactRequired, presentation.CancelAdd()))
	}
	e.sessions.SetTemp(t.ev.ChatID, keyContact, contact)
	e.sessions.SetTemp(t.ev.ChatID, keyPhotos, []string{})
	return t.enter(StateAddPhotos, markdown(presentation.PromptPhotos, presentation.PhotosDone()))
}

func (e *Engine) collectPhoto(t *turn) error {
	if t.ev.PhotoID == "" {
		t.res.Outcome = OutcomeIgnored
		return nil
	}
	photos, _ := e.sessions.GetTempStrings(t.ev.ChatID, keyPhotos)
	e.sessions.SetTemp(t.ev.ChatID, keyPhotos, append(photos, t.ev.PhotoID))
	return t.reply(plain(presentation.PhotoAccepted, presentation.PhotosDone()))
}

// draft assembles the provider collected so far.
func (e *Engine) draft(chatID int64) domain.Provider {
	str := func(key string) string {
		v, _ := e.sessions.GetTempString(chatID, key)
		return v
	}
	photos, _ := e.sessions.GetTempStrings(chatID, keyPhotos)
	return domain.Provider{
		Category: str(keyCategory),
		Name:     str(keyName),
		City:     str(keyCity),
		Price:    str(keyPrice),
		Contact:  str(keyContact),
		Photos:   photos,
	}
}

// finishAdd stores the provider. Without photos it re-prompts and the flow
// stays in the photo step.
func (e *Engine) finishAdd(t *turn) error {
	t.ack(Ack{})
	p := e.draft(t.ev.ChatID)
	if len(p.Photos) == 0 {
		return t.editOrSend(plain(presentation.NoPhotosYet, presentation.PhotosDone()))
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("add provider: %w", err)
	}
	id, err := e.store.InsertProvider(t.ctx, p)
	if err != nil {
		t.notify(plain(presentation.ProviderSaveFail, nil))
		return fmt.Errorf("insert provider: %w", err)
	}
	p.ID = id
	e.sessions.Clear(t.ev.ChatID)
	metrics.AddProvidersCreated("dialogue", 1)
	logger.LogEvent(t.ctx, logger.SVCProviders, slog.LevelInfo, "provider.created",
		slog.Int64("provider_id", id),
		slog.String("category", p.Category),
		slog.Int("photos", len(p.Photos)),
	)
	return t.editOrSend(markdown(presentation.ProviderSummary(p), nil))
}

func (e *Engine) cancelAdd(t *turn) error {
	e.sessions.Clear(t.ev.ChatID)
	t.ack(Ack{Text: presentation.AddCancelledAck})
	if err := t.editOrSend(markdown(presentation.AddCancelled, nil)); err != nil {
		return err
	}
	return t.reply(plain(presentation.MenuAdmin, presentation.AdminMenu()))
}
