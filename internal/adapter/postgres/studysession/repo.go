// Package studysession implements the StudySession repository using PostgreSQL.
// Counters live in plain integer columns; the aggregator re-reads them via
// GetCounters immediately before every UpdateCounters, so this repo never
// computes increments itself.
package studysession

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nursewise/nursewise-backend/internal/adapter/postgres"
	"github.com/nursewise/nursewise-backend/internal/domain"
)

// Repo provides study session persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new study session repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const sessionColumns = `id, user_id, session_type, category_id, cards_studied, cards_correct,
	cards_incorrect, total_time_seconds, started_at, ended_at, created_at`

const createSQL = `
INSERT INTO study_sessions (id, user_id, session_type, category_id, started_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + sessionColumns

const getByIDSQL = `
SELECT ` + sessionColumns + `
FROM study_sessions
WHERE id = $1 AND user_id = $2`

const getCountersSQL = `
SELECT cards_studied, cards_correct, cards_incorrect, total_time_seconds
FROM study_sessions
WHERE id = $1 AND ended_at IS NULL`

const updateCountersSQL = `
UPDATE study_sessions
SET cards_studied = $2, cards_correct = $3, cards_incorrect = $4, total_time_seconds = $5
WHERE id = $1 AND ended_at IS NULL`

const closeSQL = `
UPDATE study_sessions
SET ended_at = $2
WHERE id = $1 AND ended_at IS NULL`

const getLatestOpenSQL = `
SELECT ` + sessionColumns + `
FROM study_sessions
WHERE user_id = $1 AND ended_at IS NULL
ORDER BY started_at DESC
LIMIT 1`

const countEndedTodaySQL = `
SELECT count(*) FROM study_sessions
WHERE user_id = $1 AND ended_at >= $2`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a session by primary key filtered by user_id.
func (r *Repo) GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	session, err := scanSession(querier.QueryRow(ctx, getByIDSQL, sessionID, userID))
	if err != nil {
		return nil, postgres.MapError(err, "session", sessionID)
	}

	return session, nil
}

// GetCounters returns the current counters of an open session.
// Returns domain.ErrNotFound if the session does not exist or is closed —
// closed sessions must not accept further increments.
func (r *Repo) GetCounters(ctx context.Context, sessionID uuid.UUID) (domain.SessionCounters, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var c domain.SessionCounters
	err := querier.QueryRow(ctx, getCountersSQL, sessionID).
		Scan(&c.CardsStudied, &c.CardsCorrect, &c.CardsIncorrect, &c.TotalTimeSeconds)
	if err != nil {
		return domain.SessionCounters{}, postgres.MapError(err, "session", sessionID)
	}

	return c, nil
}

// GetLatestOpen returns the most recently started open session for the user.
// Returns domain.ErrNotFound if the user has no open session.
func (r *Repo) GetLatestOpen(ctx context.Context, userID uuid.UUID) (*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	session, err := scanSession(querier.QueryRow(ctx, getLatestOpenSQL, userID))
	if err != nil {
		return nil, postgres.MapError(err, "session", uuid.Nil)
	}

	return session, nil
}

// CountEndedSince returns sessions closed at or after the given instant.
func (r *Repo) CountEndedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countEndedTodaySQL, userID, since).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "session", uuid.Nil)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new open study session and returns the persisted row.
// Multiple open sessions per user are permitted (e.g. two browser tabs).
func (r *Repo) Create(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	startedAt := session.StartedAt.UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL,
		session.ID,
		session.UserID,
		string(session.Type),
		session.CategoryID,
		startedAt,
		now,
	)

	created, err := scanSession(row)
	if err != nil {
		return nil, postgres.MapError(err, "session", session.ID)
	}

	return created, nil
}

// UpdateCounters replaces the counters of an open session with the given
// values. Returns domain.ErrNotFound if the session is missing or closed.
func (r *Repo) UpdateCounters(ctx context.Context, sessionID uuid.UUID, c domain.SessionCounters) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, updateCountersSQL, sessionID,
		c.CardsStudied, c.CardsCorrect, c.CardsIncorrect, c.TotalTimeSeconds)
	if err != nil {
		return postgres.MapError(err, "session", sessionID)
	}

	if ct.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "session", sessionID)
	}

	return nil
}

// Close sets ended_at on an open session.
// Returns domain.ErrNotFound if the session is missing or already closed.
func (r *Repo) Close(ctx context.Context, sessionID uuid.UUID, endedAt time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, closeSQL, sessionID, endedAt.UTC().Truncate(time.Microsecond))
	if err != nil {
		return postgres.MapError(err, "session", sessionID)
	}

	if ct.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "session", sessionID)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanSession(row pgx.Row) (*domain.StudySession, error) {
	var (
		s           domain.StudySession
		sessionType string
	)

	if err := row.Scan(
		&s.ID, &s.UserID, &sessionType, &s.CategoryID,
		&s.Counters.CardsStudied, &s.Counters.CardsCorrect,
		&s.Counters.CardsIncorrect, &s.Counters.TotalTimeSeconds,
		&s.StartedAt, &s.EndedAt, &s.CreatedAt,
	); err != nil {
		return nil, err
	}

	s.Type = domain.SessionType(sessionType)
	return &s, nil
}
