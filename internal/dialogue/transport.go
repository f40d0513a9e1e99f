package dialogue

import (
	"context"
	"errors"

	"github.com/citygreen/mastersbot/internal/domain"

	tele "gopkg.in/telebot.v4"
)

// ErrFileTooLarge is returned by Transport.Download when a file exceeds the limit.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// Message is outbound text with optional buttons.
type Message struct {
	Text   string
	Markup *tele.ReplyMarkup
	// Markdown selects the legacy Markdown parse mode.
	Markdown bool
}

// MessageRef points at a sent message.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Ack answers a button press. Empty Text just stops the client spinner.
type Ack struct {
	Text  string
	Alert bool
}

// Transport delivers the engine's output. Every call reports its own error.
type Transport interface {
	Send(ctx context.Context, chatID int64, msg Message) (MessageRef, error)
	SendPhoto(ctx context.Context, chatID int64, photo string, msg Message) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, msg Message) error
	EditCaption(ctx context.Context, ref MessageRef, msg Message) error
	Delete(ctx context.Context, ref MessageRef) error
	Ack(ctx context.Context, callbackID string, ack Ack) error
	// Download fetches a file, failing with ErrFileTooLarge past limit bytes.
	Download(ctx context.Context, fileID string, limit int64) ([]byte, error)
}

// Store is the persistence the engine needs.
type Store interface {
	// UpsertUser creates the user or refreshes its display name and role.
	UpsertUser(ctx context.Context, u domain.User) error
	// GetUserRole returns the stored role, RoleClient for unknown users.
	GetUserRole(ctx context.Context, id int64) (domain.Role, error)
	InsertProvider(ctx context.Context, p domain.Provider) (int64, error)
	// ListProviders returns every provider ordered by category, then name.
	ListProviders(ctx context.Context) ([]domain.Provider, error)
	DeleteProvider(ctx context.Context, id int64) (bool, error)
	// BatchInsertProviders stores all rows in one transaction.
	BatchInsertProviders(ctx context.Context, ps []domain.Provider) (int, error)
	ListClientIDs(ctx context.Context) ([]int64, error)
	// ListDistinctCategories returns the sorted set of provider categories.
	ListDistinctCategories(ctx context.Context) ([]string, error)
	// FindProviders matches category exactly and city as a case-sensitive substring.
	FindProviders(ctx context.Context, category, city string) ([]domain.Provider, error)
}
