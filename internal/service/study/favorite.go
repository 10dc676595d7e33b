package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nursewise/nursewise-backend/internal/domain"
	"github.com/nursewise/nursewise-backend/pkg/ctxutil"
)

// SetFavorite flags or unflags a card for the user. A card can be
// favorited before it was ever answered; in that case a fresh review state
// is created to carry the flag.
func (s *Service) SetFavorite(ctx context.Context, input SetFavoriteInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	err := s.states.SetFavorite(ctx, userID, input.CardID, input.Favorite)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("set favorite: %w", err)
		}

		if _, cardErr := s.catalog.GetByID(ctx, input.CardID); cardErr != nil {
			return fmt.Errorf("get flashcard: %w", cardErr)
		}

		state := s.newReviewState(userID, input.CardID)
		state.IsFavorite = input.Favorite
		if _, upsertErr := s.states.Upsert(ctx, state); upsertErr != nil {
			return fmt.Errorf("create review state: %w", upsertErr)
		}
	}

	s.log.InfoContext(ctx, "favorite updated",
		slog.String("user_id", userID.String()),
		slog.String("card_id", input.CardID.String()),
		slog.Bool("favorite", input.Favorite),
	)

	return nil
}
