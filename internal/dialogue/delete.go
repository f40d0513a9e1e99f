package dialogue

import (
	"fmt"
	"log/slog"

	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/core/telegram/callbacks"
	"github.com/citygreen/mastersbot/internal/presentation"
)

// listForDeletion sends every provider as a card with a delete button.
func (e *Engine) listForDeletion(t *turn) error {
	all, err := e.store.ListProviders(t.ctx)
	if err != nil {
		return fmt.Errorf("list providers: %w", err)
	}
	if len(all) == 0 {
		return t.reply(plain(presentation.NothingToDelete, nil))
	}
	if err := t.reply(markdown(presentation.DeleteListHeader(len(all)), nil)); err != nil {
		return err
	}
	for _, p := range all {
		if err := t.sendCard(presentation.DeletionCard(p), presentation.CardFailed(p), presentation.DeleteButton(p.ID)); err != nil {
			t.warn("card.fallback_failed", err)
		}
	}
	return nil
}

func (e *Engine) deleteConfirm(t *turn) error {
	id, err := callbacks.Int64(t.ev.Payload)
	if err != nil || id <= 0 {
		t.res.Outcome = OutcomeIgnored
		return nil
	}
	t.ack(Ack{Text: presentation.DeleteAck, Alert: true})

	found, err := e.store.DeleteProvider(t.ctx, id)
	if err != nil {
		return fmt.Errorf("delete provider %d: %w", id, err)
	}
	logger.LogEvent(t.ctx, logger.SVCProviders, slog.LevelInfo, "provider.deleted",
		slog.Int64("provider_id", id),
		slog.Bool("found", found),
	)
	text := presentation.Deleted(id)
	if !found {
		text = presentation.DeleteNotFound(id)
	}
	return t.editCard(markdown(text, presentation.BackToAdmin()))
}
