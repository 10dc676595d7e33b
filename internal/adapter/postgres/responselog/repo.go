// Package responselog implements the append-only response event log using
// PostgreSQL. Events are telemetry: they power the dashboard counts but are
// never read back into scheduling decisions.
package responselog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nursewise/nursewise-backend/internal/adapter/postgres"
	"github.com/nursewise/nursewise-backend/internal/domain"
)

// Repo provides response event persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new response log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const eventColumns = `id, user_id, card_id, session_id, quality, correct, time_spent_ms, review_type, answered_at`

const createSQL = `
INSERT INTO response_events (` + eventColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + eventColumns

const countSinceSQL = `
SELECT count(*) FROM response_events
WHERE user_id = $1 AND answered_at >= $2`

const getBySessionSQL = `
SELECT ` + eventColumns + `
FROM response_events
WHERE session_id = $1
ORDER BY answered_at ASC`

// Create appends a response event and returns the persisted row.
func (r *Repo) Create(ctx context.Context, event *domain.ResponseEvent) (*domain.ResponseEvent, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		event.ID,
		event.UserID,
		event.CardID,
		event.SessionID,
		event.Quality,
		event.Correct,
		event.TimeSpentMs,
		string(event.ReviewType),
		event.AnsweredAt.UTC().Truncate(time.Microsecond),
	)

	created, err := scanEvent(row)
	if err != nil {
		return nil, postgres.MapError(err, "response_event", event.ID)
	}

	return created, nil
}

// CountSince returns events recorded at or after the given instant
// (typically the user's local day start).
func (r *Repo) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countSinceSQL, userID, since).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "response_event", uuid.Nil)
	}

	return count, nil
}

// GetBySession returns all events of one session in submission order.
func (r *Repo) GetBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.ResponseEvent, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getBySessionSQL, sessionID)
	if err != nil {
		return nil, postgres.MapError(err, "response_event", uuid.Nil)
	}
	defer rows.Close()

	var events []*domain.ResponseEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if events == nil {
		events = []*domain.ResponseEvent{}
	}

	return events, nil
}

func scanEvent(row pgx.Row) (*domain.ResponseEvent, error) {
	var (
		e          domain.ResponseEvent
		reviewType string
	)

	if err := row.Scan(
		&e.ID, &e.UserID, &e.CardID, &e.SessionID,
		&e.Quality, &e.Correct, &e.TimeSpentMs, &reviewType, &e.AnsweredAt,
	); err != nil {
		return nil, err
	}

	e.ReviewType = domain.ReviewType(reviewType)
	return &e, nil
}
