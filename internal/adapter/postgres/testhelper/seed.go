package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nursewise/nursewise-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedCategory creates a category row and returns its ID.
func SeedCategory(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO categories (id, name) VALUES ($1, $2)`,
		id, "Category "+uniqueSuffix(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCategory: %v", err)
	}

	return id
}

// SeedFlashcard creates a catalog card in the given category.
// created_at is staggered by the given offset so catalog order is deterministic.
func SeedFlashcard(t *testing.T, pool *pgxpool.Pool, categoryID uuid.UUID, offset time.Duration) domain.Flashcard {
	t.Helper()

	suffix := uniqueSuffix()
	card := domain.Flashcard{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Front:      "front " + suffix,
		Back:       "back " + suffix,
		Difficulty: 2,
		Tags:       []string{"seed"},
		CreatedAt:  time.Now().UTC().Add(offset).Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO flashcards (id, category_id, front, back, difficulty, tags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		card.ID, card.CategoryID, card.Front, card.Back, card.Difficulty, card.Tags, card.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedFlashcard: %v", err)
	}

	return card
}

// SeedReviewState creates a review state row for (userID, cardID) with the
// given next-review time (nil = never scheduled).
func SeedReviewState(t *testing.T, pool *pgxpool.Pool, userID, cardID uuid.UUID, nextReviewAt *time.Time) domain.ReviewState {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	state := domain.ReviewState{
		UserID:       userID,
		CardID:       cardID,
		EaseFactor:   2.5,
		NextReviewAt: nextReviewAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO review_states (user_id, card_id, ease_factor, next_review_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		state.UserID, state.CardID, state.EaseFactor, state.NextReviewAt, state.CreatedAt, state.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReviewState: %v", err)
	}

	return state
}
