package study

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nursewise/nursewise-backend/internal/domain"
	"github.com/nursewise/nursewise-backend/pkg/ctxutil"
)

// GetCardProgress returns the user's review state for one card.
// ErrNotFound means the card was never answered or favorited.
func (s *Service) GetCardProgress(ctx context.Context, cardID uuid.UUID) (*domain.ReviewState, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if cardID == uuid.Nil {
		return nil, domain.NewValidationError("card_id", "required")
	}

	state, err := s.states.Get(ctx, userID, cardID)
	if err != nil {
		return nil, fmt.Errorf("get review state: %w", err)
	}
	return state, nil
}

// GetSessionResponses returns a session's answers in submission order.
func (s *Service) GetSessionResponses(ctx context.Context, sessionID uuid.UUID) ([]*domain.ResponseEvent, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if sessionID == uuid.Nil {
		return nil, domain.NewValidationError("session_id", "required")
	}

	// Ownership check before touching the log.
	if _, err := s.sessions.GetByID(ctx, userID, sessionID); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	events, err := s.responses.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session responses: %w", err)
	}
	return events, nil
}
