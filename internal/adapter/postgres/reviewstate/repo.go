// Package reviewstate implements the ReviewState repository using PostgreSQL.
// One row per (user, flashcard) pair; writes go through a single upsert so the
// engine's read-modify-write cycle maps onto one statement.
package reviewstate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nursewise/nursewise-backend/internal/adapter/postgres"
	"github.com/nursewise/nursewise-backend/internal/domain"
)

// Repo provides review state persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new review state repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const stateColumns = `user_id, card_id, ease_factor, interval_days, repetition_count,
	quality_responses, times_seen, times_correct, times_incorrect, consecutive_correct,
	last_reviewed_at, next_review_at, mastery_level, is_favorite, created_at, updated_at`

const getSQL = `
SELECT ` + stateColumns + `
FROM review_states
WHERE user_id = $1 AND card_id = $2`

const upsertSQL = `
INSERT INTO review_states (` + stateColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (user_id, card_id) DO UPDATE SET
	ease_factor         = EXCLUDED.ease_factor,
	interval_days       = EXCLUDED.interval_days,
	repetition_count    = EXCLUDED.repetition_count,
	quality_responses   = EXCLUDED.quality_responses,
	times_seen          = EXCLUDED.times_seen,
	times_correct       = EXCLUDED.times_correct,
	times_incorrect     = EXCLUDED.times_incorrect,
	consecutive_correct = EXCLUDED.consecutive_correct,
	last_reviewed_at    = EXCLUDED.last_reviewed_at,
	next_review_at      = EXCLUDED.next_review_at,
	mastery_level       = EXCLUDED.mastery_level,
	is_favorite         = EXCLUDED.is_favorite,
	updated_at          = EXCLUDED.updated_at
RETURNING ` + stateColumns

// Due timestamps are midnight-aligned, so exact ties are the common case;
// card_id breaks them to keep the due order stable between calls.
const queryDueSQL = `
SELECT ` + stateColumns + `
FROM review_states
WHERE user_id = $1 AND next_review_at IS NOT NULL AND next_review_at <= $2
ORDER BY next_review_at ASC, card_id ASC
LIMIT $3`

const countDueSQL = `
SELECT count(*) FROM review_states
WHERE user_id = $1 AND next_review_at IS NOT NULL AND next_review_at <= $2`

const countByMasterySQL = `
SELECT mastery_level, count(*)
FROM review_states
WHERE user_id = $1
GROUP BY mastery_level`

const countFavoritesSQL = `
SELECT count(*) FROM review_states
WHERE user_id = $1 AND is_favorite`

const setFavoriteSQL = `
UPDATE review_states
SET is_favorite = $3, updated_at = now()
WHERE user_id = $1 AND card_id = $2`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the review state for a (user, card) pair.
// Returns domain.ErrNotFound if the card was never seen by this user.
func (r *Repo) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getSQL, userID, cardID)

	state, err := scanState(row)
	if err != nil {
		return nil, postgres.MapError(err, "review_state", cardID)
	}

	return state, nil
}

// QueryDue returns review states due at or before now, most overdue first.
// An empty result is a valid terminal state, not an error.
func (r *Repo) QueryDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.ReviewState, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, queryDueSQL, userID, now, limit)
	if err != nil {
		return nil, postgres.MapError(err, "review_state", uuid.Nil)
	}
	defer rows.Close()

	return scanStates(rows)
}

// CountDue returns the number of due cards for the user.
func (r *Repo) CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countDueSQL, userID, now).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "review_state", uuid.Nil)
	}

	return count, nil
}

// CountByMastery returns card counts per mastery level (0..5).
// Levels with no cards are absent from the map.
func (r *Repo) CountByMastery(ctx context.Context, userID uuid.UUID) (map[int]int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, countByMasterySQL, userID)
	if err != nil {
		return nil, postgres.MapError(err, "review_state", uuid.Nil)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var level, count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, postgres.MapError(err, "review_state", uuid.Nil)
		}
		counts[level] = count
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "review_state", uuid.Nil)
	}

	return counts, nil
}

// CountFavorites returns the number of favorited cards for the user.
func (r *Repo) CountFavorites(ctx context.Context, userID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countFavoritesSQL, userID).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "review_state", uuid.Nil)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert inserts or fully replaces the review state for a (user, card) pair
// and returns the persisted row. created_at is preserved on conflict.
func (r *Repo) Upsert(ctx context.Context, state *domain.ReviewState) (*domain.ReviewState, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	createdAt := state.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	row := querier.QueryRow(ctx, upsertSQL,
		state.UserID,
		state.CardID,
		state.EaseFactor,
		state.IntervalDays,
		state.RepetitionCount,
		qualitiesToDB(state.QualityResponses),
		state.TimesSeen,
		state.TimesCorrect,
		state.TimesIncorrect,
		state.ConsecutiveCorrect,
		state.LastReviewedAt,
		state.NextReviewAt,
		state.MasteryLevel,
		state.IsFavorite,
		createdAt,
		now,
	)

	saved, err := scanState(row)
	if err != nil {
		return nil, postgres.MapError(err, "review_state", state.CardID)
	}

	return saved, nil
}

// SetFavorite toggles the favorite flag without touching scheduling fields.
// Returns domain.ErrNotFound if no review state exists for the pair.
func (r *Repo) SetFavorite(ctx context.Context, userID, cardID uuid.UUID, favorite bool) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, setFavoriteSQL, userID, cardID, favorite)
	if err != nil {
		return postgres.MapError(err, "review_state", cardID)
	}

	if ct.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "review_state", cardID)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanState(row pgx.Row) (*domain.ReviewState, error) {
	var (
		s         domain.ReviewState
		qualities []int32
	)

	if err := row.Scan(
		&s.UserID, &s.CardID, &s.EaseFactor, &s.IntervalDays, &s.RepetitionCount,
		&qualities, &s.TimesSeen, &s.TimesCorrect, &s.TimesIncorrect, &s.ConsecutiveCorrect,
		&s.LastReviewedAt, &s.NextReviewAt, &s.MasteryLevel, &s.IsFavorite,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s.QualityResponses = qualitiesFromDB(qualities)
	return &s, nil
}

func scanStates(rows pgx.Rows) ([]*domain.ReviewState, error) {
	var states []*domain.ReviewState
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if states == nil {
		states = []*domain.ReviewState{}
	}

	return states, nil
}

// qualitiesToDB converts the domain []int into the int4[] column type.
func qualitiesToDB(qs []int) []int32 {
	out := make([]int32, len(qs))
	for i, q := range qs {
		out[i] = int32(q)
	}
	return out
}

func qualitiesFromDB(qs []int32) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		out[i] = int(q)
	}
	return out
}
