// Package study implements the spaced-repetition study engine: SM-2
// scheduling, mastery classification, due-card selection, session
// aggregation and the dashboard rollup.
package study

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/nursewise/nursewise-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type reviewStateRepo interface {
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error)
	Upsert(ctx context.Context, state *domain.ReviewState) (*domain.ReviewState, error)
	QueryDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.ReviewState, error)
	CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)
	CountByMastery(ctx context.Context, userID uuid.UUID) (map[int]int, error)
	CountFavorites(ctx context.Context, userID uuid.UUID) (int, error)
	SetFavorite(ctx context.Context, userID, cardID uuid.UUID, favorite bool) error
}

type catalogRepo interface {
	GetByID(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]*domain.Flashcard, error)
	ListAll(ctx context.Context, limit int) ([]*domain.Flashcard, error)
}

type sessionRepo interface {
	Create(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error)
	GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error)
	GetCounters(ctx context.Context, sessionID uuid.UUID) (domain.SessionCounters, error)
	UpdateCounters(ctx context.Context, sessionID uuid.UUID, c domain.SessionCounters) error
	Close(ctx context.Context, sessionID uuid.UUID, endedAt time.Time) error
	GetLatestOpen(ctx context.Context, userID uuid.UUID) (*domain.StudySession, error)
	CountEndedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
}

type responseLogRepo interface {
	Create(ctx context.Context, event *domain.ResponseEvent) (*domain.ResponseEvent, error)
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	GetBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.ResponseEvent, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the study business logic.
type Service struct {
	states    reviewStateRepo
	catalog   catalogRepo
	sessions  sessionRepo
	responses responseLogRepo
	tx        txManager
	clock     clockwork.Clock
	log       *slog.Logger
	srsConfig domain.SRSConfig
}

// NewService creates a new Study service.
func NewService(
	log *slog.Logger,
	states reviewStateRepo,
	catalog catalogRepo,
	sessions sessionRepo,
	responses responseLogRepo,
	tx txManager,
	clock clockwork.Clock,
	srsConfig domain.SRSConfig,
) *Service {
	return &Service{
		states:    states,
		catalog:   catalog,
		sessions:  sessions,
		responses: responses,
		tx:        tx,
		clock:     clock,
		log:       log.With("service", "study"),
		srsConfig: srsConfig,
	}
}
