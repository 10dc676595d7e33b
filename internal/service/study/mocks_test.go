package study

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nursewise/nursewise-backend/internal/domain"
)

// Manual mocks (moq-style with func fields). A nil func field means the
// test does not expect that method to be called; calling it panics, which
// is the point.

type reviewStateRepoMock struct {
	GetFunc            func(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error)
	UpsertFunc         func(ctx context.Context, state *domain.ReviewState) (*domain.ReviewState, error)
	QueryDueFunc       func(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.ReviewState, error)
	CountDueFunc       func(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)
	CountByMasteryFunc func(ctx context.Context, userID uuid.UUID) (map[int]int, error)
	CountFavoritesFunc func(ctx context.Context, userID uuid.UUID) (int, error)
	SetFavoriteFunc    func(ctx context.Context, userID, cardID uuid.UUID, favorite bool) error

	mu          sync.Mutex
	upsertCalls []*domain.ReviewState
}

func (m *reviewStateRepoMock) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error) {
	return m.GetFunc(ctx, userID, cardID)
}

func (m *reviewStateRepoMock) Upsert(ctx context.Context, state *domain.ReviewState) (*domain.ReviewState, error) {
	m.mu.Lock()
	m.upsertCalls = append(m.upsertCalls, state)
	m.mu.Unlock()
	return m.UpsertFunc(ctx, state)
}

func (m *reviewStateRepoMock) UpsertCalls() []*domain.ReviewState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertCalls
}

func (m *reviewStateRepoMock) QueryDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.ReviewState, error) {
	return m.QueryDueFunc(ctx, userID, now, limit)
}

func (m *reviewStateRepoMock) CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	return m.CountDueFunc(ctx, userID, now)
}

func (m *reviewStateRepoMock) CountByMastery(ctx context.Context, userID uuid.UUID) (map[int]int, error) {
	return m.CountByMasteryFunc(ctx, userID)
}

func (m *reviewStateRepoMock) CountFavorites(ctx context.Context, userID uuid.UUID) (int, error) {
	return m.CountFavoritesFunc(ctx, userID)
}

func (m *reviewStateRepoMock) SetFavorite(ctx context.Context, userID, cardID uuid.UUID, favorite bool) error {
	return m.SetFavoriteFunc(ctx, userID, cardID, favorite)
}

type catalogRepoMock struct {
	GetByIDFunc        func(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error)
	ListByCategoryFunc func(ctx context.Context, categoryID uuid.UUID, limit int) ([]*domain.Flashcard, error)
	ListAllFunc        func(ctx context.Context, limit int) ([]*domain.Flashcard, error)
}

func (m *catalogRepoMock) GetByID(ctx context.Context, cardID uuid.UUID) (*domain.Flashcard, error) {
	return m.GetByIDFunc(ctx, cardID)
}

func (m *catalogRepoMock) ListByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]*domain.Flashcard, error) {
	return m.ListByCategoryFunc(ctx, categoryID, limit)
}

func (m *catalogRepoMock) ListAll(ctx context.Context, limit int) ([]*domain.Flashcard, error) {
	return m.ListAllFunc(ctx, limit)
}

type sessionRepoMock struct {
	CreateFunc          func(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error)
	GetByIDFunc         func(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error)
	GetCountersFunc     func(ctx context.Context, sessionID uuid.UUID) (domain.SessionCounters, error)
	UpdateCountersFunc  func(ctx context.Context, sessionID uuid.UUID, c domain.SessionCounters) error
	CloseFunc           func(ctx context.Context, sessionID uuid.UUID, endedAt time.Time) error
	GetLatestOpenFunc   func(ctx context.Context, userID uuid.UUID) (*domain.StudySession, error)
	CountEndedSinceFunc func(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	mu                  sync.Mutex
	updateCountersCalls []domain.SessionCounters
}

func (m *sessionRepoMock) Create(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error) {
	return m.CreateFunc(ctx, session)
}

func (m *sessionRepoMock) GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.StudySession, error) {
	return m.GetByIDFunc(ctx, userID, sessionID)
}

func (m *sessionRepoMock) GetCounters(ctx context.Context, sessionID uuid.UUID) (domain.SessionCounters, error) {
	return m.GetCountersFunc(ctx, sessionID)
}

func (m *sessionRepoMock) UpdateCounters(ctx context.Context, sessionID uuid.UUID, c domain.SessionCounters) error {
	m.mu.Lock()
	m.updateCountersCalls = append(m.updateCountersCalls, c)
	m.mu.Unlock()
	return m.UpdateCountersFunc(ctx, sessionID, c)
}

func (m *sessionRepoMock) UpdateCountersCalls() []domain.SessionCounters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCountersCalls
}

func (m *sessionRepoMock) Close(ctx context.Context, sessionID uuid.UUID, endedAt time.Time) error {
	return m.CloseFunc(ctx, sessionID, endedAt)
}

func (m *sessionRepoMock) GetLatestOpen(ctx context.Context, userID uuid.UUID) (*domain.StudySession, error) {
	return m.GetLatestOpenFunc(ctx, userID)
}

func (m *sessionRepoMock) CountEndedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	return m.CountEndedSinceFunc(ctx, userID, since)
}

type responseLogRepoMock struct {
	CreateFunc       func(ctx context.Context, event *domain.ResponseEvent) (*domain.ResponseEvent, error)
	CountSinceFunc   func(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	GetBySessionFunc func(ctx context.Context, sessionID uuid.UUID) ([]*domain.ResponseEvent, error)

	mu          sync.Mutex
	createCalls []*domain.ResponseEvent
}

func (m *responseLogRepoMock) Create(ctx context.Context, event *domain.ResponseEvent) (*domain.ResponseEvent, error) {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, event)
	m.mu.Unlock()
	return m.CreateFunc(ctx, event)
}

func (m *responseLogRepoMock) CreateCalls() []*domain.ResponseEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

func (m *responseLogRepoMock) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	return m.CountSinceFunc(ctx, userID, since)
}

func (m *responseLogRepoMock) GetBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.ResponseEvent, error) {
	return m.GetBySessionFunc(ctx, sessionID)
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}
