// Package flashcard implements the read-only flashcard catalog repository.
// The engine never writes here; content management owns these rows.
// List queries are built with squirrel since the filter set (category,
// difficulty, tags) is combinatorial.
package flashcard

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nursewise/nursewise-backend/internal/adapter/postgres"
	"github.com/nursewise/nursewise-backend/internal/domain"
)

// Filter narrows catalog listings. Zero values mean "no constraint".
type Filter struct {
	CategoryID *uuid.UUID
	Difficulty int      // 1..5, 0 = any
	Tags       []string // match any of
	Limit      int      // 0 = no limit
}

// Repo provides read-only flashcard catalog access backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new flashcard repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const cardColumns = "id, category_id, front, back, difficulty, tags, created_at"

// GetByID returns a single catalog card.
func (r *Repo) GetByID(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Select(cardColumns).
		From("flashcards").
		Where(sq.Eq{"id": cardID}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "flashcard", cardID)
	}

	card, err := scanCard(querier.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "flashcard", cardID)
	}

	return card, nil
}

// List returns catalog cards matching the filter, in catalog order
// (created_at ascending). Used by learning/practice session queues, which
// intentionally ignore the review schedule.
func (r *Repo) List(ctx context.Context, f Filter) ([]*domain.Flashcard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	b := psql.Select(cardColumns).
		From("flashcards").
		OrderBy("created_at ASC, id ASC")

	if f.CategoryID != nil {
		b = b.Where(sq.Eq{"category_id": *f.CategoryID})
	}
	if f.Difficulty > 0 {
		b = b.Where(sq.Eq{"difficulty": f.Difficulty})
	}
	if len(f.Tags) > 0 {
		b = b.Where("tags && ?", f.Tags)
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "flashcard", uuid.Nil)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "flashcard", uuid.Nil)
	}
	defer rows.Close()

	return scanCards(rows)
}

// ListByCategory returns one category's cards in catalog order.
func (r *Repo) ListByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]*domain.Flashcard, error) {
	return r.List(ctx, Filter{CategoryID: &categoryID, Limit: limit})
}

// ListAll returns the whole catalog in catalog order.
func (r *Repo) ListAll(ctx context.Context, limit int) ([]*domain.Flashcard, error) {
	return r.List(ctx, Filter{Limit: limit})
}

// Count returns the number of catalog cards matching the filter.
func (r *Repo) Count(ctx context.Context, f Filter) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	b := psql.Select("count(*)").From("flashcards")
	if f.CategoryID != nil {
		b = b.Where(sq.Eq{"category_id": *f.CategoryID})
	}
	if f.Difficulty > 0 {
		b = b.Where(sq.Eq{"difficulty": f.Difficulty})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, postgres.MapError(err, "flashcard", uuid.Nil)
	}

	var count int
	if err := querier.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "flashcard", uuid.Nil)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanCard(row pgx.Row) (*domain.Flashcard, error) {
	var c domain.Flashcard
	if err := row.Scan(&c.ID, &c.CategoryID, &c.Front, &c.Back, &c.Difficulty, &c.Tags, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCards(rows pgx.Rows) ([]*domain.Flashcard, error) {
	var cards []*domain.Flashcard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if cards == nil {
		cards = []*domain.Flashcard{}
	}

	return cards, nil
}
