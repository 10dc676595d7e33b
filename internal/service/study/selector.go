package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nursewise/nursewise-backend/internal/domain"
	"github.com/nursewise/nursewise-backend/pkg/ctxutil"
)

// GetDueCards returns review states whose cards need studying now, most
// overdue first. Cards never answered (no stored state) do not appear here;
// they enter the system through LEARNING queues.
func (s *Service) GetDueCards(ctx context.Context, input GetDueCardsInput) ([]*domain.ReviewState, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.srsConfig.QueueLimit
	}

	states, err := s.states.QueryDue(ctx, userID, s.clock.Now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("query due states: %w", err)
	}

	s.log.InfoContext(ctx, "due queue generated",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(states)),
	)

	return states, nil
}

// GetSessionQueue builds the ordered card list for one session.
//
// REVIEW queues follow the schedule: due cards only, most overdue first.
// LEARNING queues and category-scoped PRACTICE queues walk the category in
// catalog order, ignoring due status. PRACTICE with no category is random
// exploration: the whole catalog through the shuffler.
func (s *Service) GetSessionQueue(ctx context.Context, input GetSessionQueueInput) ([]uuid.UUID, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.srsConfig.QueueLimit
	}

	var (
		queue []uuid.UUID
		err   error
	)

	switch input.Type {
	case domain.SessionTypeReview:
		queue, err = s.dueCardIDs(ctx, userID, limit)
	case domain.SessionTypeLearning:
		queue, err = s.catalogCardIDs(ctx, input.CategoryID, limit)
	case domain.SessionTypePractice:
		if input.CategoryID == nil {
			// Random exploration: the whole catalog goes through the
			// shuffler, and only the shuffled result is truncated.
			// Truncating first would pin the queue to the oldest cards.
			queue, err = s.catalogCardIDs(ctx, nil, 0)
			if err == nil {
				queue = Shuffle(queue, s.newRand())
				if len(queue) > limit {
					queue = queue[:limit]
				}
			}
		} else {
			queue, err = s.catalogCardIDs(ctx, input.CategoryID, limit)
		}
	default:
		return nil, domain.NewValidationError("type", "must be REVIEW, LEARNING, or PRACTICE")
	}
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "session queue generated",
		slog.String("user_id", userID.String()),
		slog.String("type", input.Type.String()),
		slog.Int("count", len(queue)),
	)

	return queue, nil
}

func (s *Service) dueCardIDs(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	states, err := s.states.QueryDue(ctx, userID, s.clock.Now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("query due states: %w", err)
	}

	ids := make([]uuid.UUID, len(states))
	for i, st := range states {
		ids[i] = st.CardID
	}
	return ids, nil
}

func (s *Service) catalogCardIDs(ctx context.Context, categoryID *uuid.UUID, limit int) ([]uuid.UUID, error) {
	var (
		cards []*domain.Flashcard
		err   error
	)
	if categoryID != nil {
		cards, err = s.catalog.ListByCategory(ctx, *categoryID, limit)
	} else {
		cards, err = s.catalog.ListAll(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list flashcards: %w", err)
	}

	ids := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids, nil
}
