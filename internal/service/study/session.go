package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nursewise/nursewise-backend/internal/domain"
	"github.com/nursewise/nursewise-backend/pkg/ctxutil"
)

// StartSession opens a new study session. Users may hold several open
// sessions at once (a phone and a laptop, say); each call creates a new one.
func (s *Service) StartSession(ctx context.Context, input StartSessionInput) (*domain.StudySession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	session := &domain.StudySession{
		ID:         uuid.New(),
		UserID:     userID,
		Type:       input.Type,
		CategoryID: input.CategoryID,
		StartedAt:  s.clock.Now().UTC(),
	}

	created, err := s.sessions.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.InfoContext(ctx, "session started",
		slog.String("user_id", userID.String()),
		slog.String("session_id", created.ID.String()),
		slog.String("type", created.Type.String()),
	)

	return created, nil
}

// RecordAnswer folds one answer into a session's running counters.
// It always reads the stored counters immediately before incrementing, so
// two devices feeding the same session converge instead of overwriting each
// other with stale totals.
func (s *Service) RecordAnswer(ctx context.Context, input RecordAnswerInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	return s.recordSessionAnswer(ctx, userID, input.SessionID, input.Correct, input.TimeSpentMs)
}

func (s *Service) recordSessionAnswer(ctx context.Context, userID, sessionID uuid.UUID, correct bool, timeSpentMs int) error {
	session, err := s.sessions.GetByID(ctx, userID, sessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if !session.IsOpen() {
		return fmt.Errorf("session already ended: %w", domain.ErrConflict)
	}

	// Fresh read, not the counters fetched with the session row above.
	counters, err := s.sessions.GetCounters(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session counters: %w", err)
	}

	counters.CardsStudied++
	if correct {
		counters.CardsCorrect++
	} else {
		counters.CardsIncorrect++
	}
	counters.TotalTimeSeconds += timeSpentMs / 1000

	if err := s.sessions.UpdateCounters(ctx, sessionID, counters); err != nil {
		return fmt.Errorf("update session counters: %w", err)
	}

	return nil
}

// EndSession closes a session. Ending an already-ended session is a
// conflict; sessions abandoned without an EndSession call simply stay open.
func (s *Service) EndSession(ctx context.Context, input EndSessionInput) (*domain.StudySession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, userID, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !session.IsOpen() {
		return nil, fmt.Errorf("session already ended: %w", domain.ErrConflict)
	}

	endedAt := s.clock.Now().UTC()
	if err := s.sessions.Close(ctx, input.SessionID, endedAt); err != nil {
		return nil, fmt.Errorf("close session: %w", err)
	}

	closed, err := s.sessions.GetByID(ctx, userID, input.SessionID)
	if err != nil {
		return nil, fmt.Errorf("reload session: %w", err)
	}

	s.log.InfoContext(ctx, "session ended",
		slog.String("user_id", userID.String()),
		slog.String("session_id", closed.ID.String()),
		slog.Int("cards_studied", closed.Counters.CardsStudied),
		slog.Int("cards_correct", closed.Counters.CardsCorrect),
	)

	return closed, nil
}

// GetActiveSession returns the user's most recently started open session,
// or nil if none is open.
func (s *Service) GetActiveSession(ctx context.Context) (*domain.StudySession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	session, err := s.sessions.GetLatestOpen(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest open session: %w", err)
	}
	return session, nil
}
