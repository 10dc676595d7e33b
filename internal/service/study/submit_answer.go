package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nursewise/nursewise-backend/internal/domain"
	"github.com/nursewise/nursewise-backend/pkg/ctxutil"
)

// SubmitAnswer records one answer: it advances the card's SM-2 schedule,
// reclassifies mastery, appends a response event, and folds the answer into
// the session counters when a session is attached.
//
// Scheduling and the response log commit atomically. The session counter
// update runs after that commit and is best-effort telemetry: if it fails,
// the already-committed review state is returned together with the error,
// and the scheduling result is never rolled back.
func (s *Service) SubmitAnswer(ctx context.Context, input SubmitAnswerInput) (*domain.ReviewState, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()

	state, err := s.states.Get(ctx, userID, input.CardID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get review state: %w", err)
		}
		// First answer for this card: verify it exists in the catalog,
		// then start from a fresh state.
		if _, cardErr := s.catalog.GetByID(ctx, input.CardID); cardErr != nil {
			return nil, fmt.Errorf("get flashcard: %w", cardErr)
		}
		state = s.newReviewState(userID, input.CardID)
	}

	if !state.CountersConsistent() {
		s.log.WarnContext(ctx, "review state counters inconsistent",
			slog.String("user_id", userID.String()),
			slog.String("card_id", input.CardID.String()),
			slog.Int("times_seen", state.TimesSeen),
			slog.Int("times_correct", state.TimesCorrect),
			slog.Int("times_incorrect", state.TimesIncorrect),
		)
	}

	// Schedule first: a bad rating or corrupt state must fail before any
	// counter mutation.
	result, err := ComputeNextReview(SchedulerInput{
		EaseFactor:      state.EaseFactor,
		IntervalDays:    state.IntervalDays,
		RepetitionCount: state.RepetitionCount,
		Quality:         input.Quality,
		Now:             now,
		Config:          s.srsConfig,
	})
	if err != nil {
		return nil, err
	}

	updated := applyAnswer(state, input, result, now)

	event := &domain.ResponseEvent{
		ID:          uuid.New(),
		UserID:      userID,
		CardID:      input.CardID,
		SessionID:   input.SessionID,
		Quality:     input.Quality,
		Correct:     input.Correct,
		TimeSpentMs: input.TimeSpentMs,
		ReviewType:  input.ReviewType,
		AnsweredAt:  now,
	}

	var persisted *domain.ReviewState
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var upsertErr error
		persisted, upsertErr = s.states.Upsert(txCtx, updated)
		if upsertErr != nil {
			return fmt.Errorf("upsert review state: %w", upsertErr)
		}

		if _, logErr := s.responses.Create(txCtx, event); logErr != nil {
			return fmt.Errorf("create response event: %w", logErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "answer recorded",
		slog.String("user_id", userID.String()),
		slog.String("card_id", input.CardID.String()),
		slog.Int("quality", input.Quality),
		slog.Int("interval_days", persisted.IntervalDays),
		slog.Int("mastery_level", persisted.MasteryLevel),
		slog.Float64("ease_factor", persisted.EaseFactor),
	)

	if input.SessionID != nil {
		if sessErr := s.recordSessionAnswer(ctx, userID, *input.SessionID, input.Correct, input.TimeSpentMs); sessErr != nil {
			s.log.WarnContext(ctx, "session counters not updated",
				slog.String("session_id", input.SessionID.String()),
				slog.String("error", sessErr.Error()),
			)
			return persisted, fmt.Errorf("record session answer: %w", sessErr)
		}
	}

	return persisted, nil
}

// newReviewState builds the state a card has before it was ever answered.
func (s *Service) newReviewState(userID, cardID uuid.UUID) *domain.ReviewState {
	return &domain.ReviewState{
		UserID:     userID,
		CardID:     cardID,
		EaseFactor: s.srsConfig.DefaultEaseFactor,
	}
}

// applyAnswer folds one answer into a copy of the state: scheduler output,
// lifetime counters, the streak, the rating window, and the mastery level.
func applyAnswer(state *domain.ReviewState, input SubmitAnswerInput, result SchedulerOutput, now time.Time) *domain.ReviewState {
	next := *state

	next.EaseFactor = result.EaseFactor
	next.IntervalDays = result.IntervalDays
	next.RepetitionCount = result.RepetitionCount

	next.TimesSeen++
	if input.Correct {
		next.TimesCorrect++
		next.ConsecutiveCorrect++
	} else {
		next.TimesIncorrect++
		next.ConsecutiveCorrect = 0
	}
	// Heal a broken seen/correct/incorrect identity on write.
	if !next.CountersConsistent() {
		next.TimesSeen = next.TimesCorrect + next.TimesIncorrect
	}

	next.QualityResponses = appendQuality(state.QualityResponses, input.Quality)
	next.MasteryLevel = ClassifyMastery(next.ConsecutiveCorrect, next.QualityResponses)

	next.LastReviewedAt = &now
	reviewAt := result.NextReviewAt
	next.NextReviewAt = &reviewAt

	return &next
}

// appendQuality returns a new slice holding the last QualityWindow ratings
// with q appended. The input slice is never mutated.
func appendQuality(history []int, q int) []int {
	out := make([]int, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, q)
	if len(out) > domain.QualityWindow {
		out = out[len(out)-domain.QualityWindow:]
	}
	return out
}
