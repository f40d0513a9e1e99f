package dialogue

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/core/telegram/callbacks"
	"github.com/citygreen/mastersbot/internal/presentation"
)

func (e *Engine) startSearch(t *turn) error {
	e.sessions.Clear(t.ev.ChatID)
	return t.enter(StateSearchCity, markdown(presentation.PromptSearchCity, presentation.BackToMenu()))
}

// searchCity captures the city filter and offers the categories that exist.
// The category list is kept in the session so buttons can carry an index.
func (e *Engine) searchCity(t *turn) error {
	city := strings.TrimSpace(t.ev.Text)
	categories, err := e.store.ListDistinctCategories(t.ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(categories) == 0 {
		e.sessions.Clear(t.ev.ChatID)
		return t.reply(plain(presentation.NoProvidersYet, nil))
	}
	e.sessions.SetTemp(t.ev.ChatID, keySearchCity, city)
	e.sessions.SetTemp(t.ev.ChatID, keySearchCats, categories)
	return t.enter(StateSearchCategory, markdown(presentation.PickSearchCategory(city), presentation.SearchCategories(categories)))
}

func (e *Engine) searchCategory(t *turn) error {
	categories, _ := e.sessions.GetTempStrings(t.ev.ChatID, keySearchCats)
	idx, err := callbacks.Int(t.ev.Payload)
	if err != nil || idx < 0 || idx >= len(categories) {
		t.res.Outcome = OutcomeIgnored
		return nil
	}
	category := categories[idx]
	city, _ := e.sessions.GetTempString(t.ev.ChatID, keySearchCity)

	t.ack(Ack{Text: presentation.SearchAck})
	found, err := e.store.FindProviders(t.ctx, category, city)
	if err != nil {
		return fmt.Errorf("find providers: %w", err)
	}
	e.sessions.Clear(t.ev.ChatID)

	logger.LogEvent(t.ctx, logger.SVCProviders, slog.LevelInfo, "provider.search",
		slog.String("category", category),
		slog.String("city", logger.SanitizeLimit(city, 64)),
		slog.Int("results", len(found)),
	)
	if len(found) == 0 {
		return t.editOrSend(markdown(presentation.NoMatches(city, category), nil))
	}
	if err := t.editOrSend(markdown(presentation.MatchesHeader(city, category, len(found)), nil)); err != nil {
		return err
	}
	for _, p := range found {
		if err := t.sendCard(presentation.ProviderCard(p), presentation.CardFailed(p), nil); err != nil {
			t.warn("card.fallback_failed", err)
		}
	}
	return nil
}
