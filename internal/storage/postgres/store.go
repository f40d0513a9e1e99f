// Package postgres implements the dialogue store on PostgreSQL through sqlx.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/citygreen/mastersbot/core/logger"
	"github.com/citygreen/mastersbot/internal/dialogue"
	"github.com/citygreen/mastersbot/internal/domain"
)

var _ dialogue.Store = (*Store)(nil)

// batchSize keeps one multi-row INSERT well under the 65535 bind parameter limit.
const batchSize = 1000

// Store persists users and providers.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type providerRow struct {
	ID       int64          `db:"id"`
	Category string         `db:"category"`
	Name     string         `db:"name"`
	City     string         `db:"city"`
	Price    string         `db:"price"`
	Contact  string         `db:"contact"`
	Photos   pq.StringArray `db:"photos"`
}

func toRow(p domain.Provider) providerRow {
	return providerRow{
		ID:       p.ID,
		Category: p.Category,
		Name:     p.Name,
		City:     p.City,
		Price:    p.Price,
		Contact:  p.Contact,
		// A nil array would be written as NULL.
		Photos: append(pq.StringArray{}, p.Photos...),
	}
}

func (r providerRow) provider() domain.Provider {
	return domain.Provider{
		ID:       r.ID,
		Category: r.Category,
		Name:     r.Name,
		City:     r.City,
		Price:    r.Price,
		Contact:  r.Contact,
		Photos:   []string(r.Photos),
	}
}

func toProviders(rows []providerRow) []domain.Provider {
	out := make([]domain.Provider, len(rows))
	for i, r := range rows {
		out[i] = r.provider()
	}
	return out
}

const providerColumns = `id, category, name, city, price, contact, photos`

// observe logs failed queries, and a sample of successful ones at debug.
func observe(ctx context.Context, op string, start time.Time, err error, attrs ...slog.Attr) {
	level := slog.LevelDebug
	attrs = append(attrs,
		slog.String("op", op),
		slog.String("status", logger.Status(err)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
	} else if !logger.ShouldSampleDebug() {
		return
	}
	logger.LogEvent(ctx, logger.DB, level, "db.query", attrs...)
}

func (s *Store) UpsertUser(ctx context.Context, u domain.User) (err error) {
	defer func(start time.Time) { observe(ctx, "upsert_user", start, err) }(time.Now())
	const q = `
INSERT INTO users (id, display_name, role)
VALUES (:id, :display_name, :role)
ON CONFLICT (id) DO UPDATE
   SET display_name = EXCLUDED.display_name,
       role = EXCLUDED.role,
       updated_at = now()`
	if _, err = s.db.NamedExecContext(ctx, q, u); err != nil {
		return fmt.Errorf("upsert user %d: %w", u.ID, err)
	}
	return nil
}

// GetUserRole returns RoleClient for users that never sent /start.
func (s *Store) GetUserRole(ctx context.Context, id int64) (role domain.Role, err error) {
	defer func(start time.Time) { observe(ctx, "get_user_role", start, err) }(time.Now())
	var raw string
	err = s.db.GetContext(ctx, &raw, `SELECT role FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoleClient, nil
	}
	if err != nil {
		return "", fmt.Errorf("get role of user %d: %w", id, err)
	}
	return domain.ParseRole(raw), nil
}

func (s *Store) InsertProvider(ctx context.Context, p domain.Provider) (id int64, err error) {
	defer func(start time.Time) { observe(ctx, "insert_provider", start, err) }(time.Now())
	const q = `
INSERT INTO providers (category, name, city, price, contact, photos)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	row := toRow(p)
	err = s.db.QueryRowxContext(ctx, q, row.Category, row.Name, row.City, row.Price, row.Contact, row.Photos).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert provider: %w", err)
	}
	return id, nil
}

func (s *Store) ListProviders(ctx context.Context) (_ []domain.Provider, err error) {
	defer func(start time.Time) { observe(ctx, "list_providers", start, err) }(time.Now())
	var rows []providerRow
	err = s.db.SelectContext(ctx, &rows, `SELECT `+providerColumns+` FROM providers ORDER BY category, name, id`)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return toProviders(rows), nil
}

func (s *Store) DeleteProvider(ctx context.Context, id int64) (found bool, err error) {
	defer func(start time.Time) { observe(ctx, "delete_provider", start, err) }(time.Now())
	res, err := s.db.ExecContext(ctx, `DELETE FROM providers WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete provider %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete provider %d: rows affected: %w", id, err)
	}
	return n > 0, nil
}

// BatchInsertProviders writes every row in one transaction; either all rows
// are stored or none.
func (s *Store) BatchInsertProviders(ctx context.Context, ps []domain.Provider) (n int, err error) {
	defer func(start time.Time) { observe(ctx, "batch_insert_providers", start, err, slog.Int("rows", len(ps))) }(time.Now())
	if len(ps) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch insert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `
INSERT INTO providers (category, name, city, price, contact, photos)
VALUES (:category, :name, :city, :price, :contact, :photos)`
	for start := 0; start < len(ps); start += batchSize {
		end := min(start+batchSize, len(ps))
		chunk := make([]providerRow, 0, end-start)
		for _, p := range ps[start:end] {
			chunk = append(chunk, toRow(p))
		}
		res, execErr := tx.NamedExecContext(ctx, q, chunk)
		if execErr != nil {
			err = fmt.Errorf("batch insert rows %d-%d: %w", start+1, end, execErr)
			return 0, err
		}
		affected, _ := res.RowsAffected()
		n += int(affected)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch insert: %w", err)
	}
	return n, nil
}

func (s *Store) ListClientIDs(ctx context.Context) (ids []int64, err error) {
	defer func(start time.Time) { observe(ctx, "list_client_ids", start, err) }(time.Now())
	err = s.db.SelectContext(ctx, &ids, `SELECT id FROM users WHERE role = $1 ORDER BY id`, string(domain.RoleClient))
	if err != nil {
		return nil, fmt.Errorf("list client ids: %w", err)
	}
	return ids, nil
}

func (s *Store) ListDistinctCategories(ctx context.Context) (cats []string, err error) {
	defer func(start time.Time) { observe(ctx, "list_categories", start, err) }(time.Now())
	err = s.db.SelectContext(ctx, &cats, `SELECT DISTINCT category FROM providers ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// FindProviders matches city with strpos, so the substring test is
// case-sensitive and needs no LIKE escaping. An empty city matches all.
func (s *Store) FindProviders(ctx context.Context, category, city string) (_ []domain.Provider, err error) {
	defer func(start time.Time) {
		observe(ctx, "find_providers", start, err, slog.String("category", category))
	}(time.Now())
	var rows []providerRow
	err = s.db.SelectContext(ctx, &rows,
		`SELECT `+providerColumns+` FROM providers
		  WHERE category = $1 AND strpos(city, $2) > 0
		  ORDER BY name, id`, category, city)
	if err != nil {
		return nil, fmt.Errorf("find providers: %w", err)
	}
	return toProviders(rows), nil
}
