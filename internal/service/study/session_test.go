package study

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nursewise/nursewise-backend/internal/domain"
	"github.com/nursewise/nursewise-backend/pkg/ctxutil"
)

func TestService_StartSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	catID := uuid.New()

	sessions := &sessionRepoMock{
		CreateFunc: func(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error) {
			return session, nil
		},
	}

	svc := newTestService(nil, nil, sessions, nil)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	got, err := svc.StartSession(ctx, StartSessionInput{
		Type:       domain.SessionTypeLearning,
		CategoryID: &catID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID == uuid.Nil {
		t.Error("session id not assigned")
	}
	if got.UserID != userID || got.Type != domain.SessionTypeLearning {
		t.Errorf("session: got %+v", got)
	}
	if got.CategoryID == nil || *got.CategoryID != catID {
		t.Errorf("category: got %v, want %v", got.CategoryID, catID)
	}
	if !got.StartedAt.Equal(testNow) {
		t.Errorf("started at: got %v, want %v", got.StartedAt, testNow)
	}
	if !got.IsOpen() {
		t.Error("new session must be open")
	}
}

// Two devices can each open a session; the second call must not be folded
// into the first.
func TestService_StartSession_AlwaysCreates(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	var created []uuid.UUID
	sessions := &sessionRepoMock{
		CreateFunc: func(ctx context.Context, session *domain.StudySession) (*domain.StudySession, error) {
			created = append(created, session.ID)
			return session, nil
		},
	}

	svc := newTestService(nil, nil, sessions, nil)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	first, err := svc.StartSession(ctx, StartSessionInput{Type: domain.SessionTypeReview})
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := svc.StartSession(ctx, StartSessionInput{Type: domain.SessionTypeReview})
	if err != nil {
		t.Fatalf("second start: %v", err)
	}

	if len(created) != 2 {
		t.Fatalf("create calls: got %d, want 2", len(created))
	}
	if first.ID == second.ID {
		t.Error("second start reused the first session")
	}
}

func TestService_RecordAnswer_RereadsBeforeIncrement(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionID := uuid.New()

	reads := 0
	sessions := &sessionRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, sid uuid.UUID) (*domain.StudySession, error) {
			return &domain.StudySession{ID: sid, UserID: uid, Type: domain.SessionTypeReview}, nil
		},
		GetCountersFunc: func(ctx context.Context, sid uuid.UUID) (domain.SessionCounters, error) {
			reads++
			return domain.SessionCounters{CardsStudied: 7, CardsCorrect: 5, CardsIncorrect: 2, TotalTimeSeconds: 90}, nil
		},
		UpdateCountersFunc: func(ctx context.Context, sid uuid.UUID, c domain.SessionCounters) error {
			return nil
		},
	}

	svc := newTestService(nil, nil, sessions, nil)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := svc.RecordAnswer(ctx, RecordAnswerInput{
		SessionID:   sessionID,
		Correct:     false,
		TimeSpentMs: 12_500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reads != 1 {
		t.Errorf("counter reads: got %d, want 1", reads)
	}

	calls := sessions.UpdateCountersCalls()
	if len(calls) != 1 {
		t.Fatalf("update calls: got %d, want 1", len(calls))
	}
	want := domain.SessionCounters{CardsStudied: 8, CardsCorrect: 5, CardsIncorrect: 3, TotalTimeSeconds: 102}
	if calls[0] != want {
		t.Errorf("counters: got %+v, want %+v", calls[0], want)
	}
}

func TestService_RecordAnswer_ClosedSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionID := uuid.New()
	endedAt := testNow.Add(-time.Minute)

	sessions := &sessionRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, sid uuid.UUID) (*domain.StudySession, error) {
			return &domain.StudySession{ID: sid, UserID: uid, EndedAt: &endedAt}, nil
		},
	}

	svc := newTestService(nil, nil, sessions, nil)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	err := svc.RecordAnswer(ctx, RecordAnswerInput{SessionID: sessionID, Correct: true})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(sessions.UpdateCountersCalls()) != 0 {
		t.Error("closed session counters must not move")
	}
}

func TestService_RecordAnswer_UnknownSession(t *testing.T) {
	t.Parallel()

	sessions := &sessionRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, sid uuid.UUID) (*domain.StudySession, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestService(nil, nil, sessions, nil)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	err := svc.RecordAnswer(ctx, RecordAnswerInput{SessionID: uuid.New(), Correct: true})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_EndSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionID := uuid.New()

	closed := false
	sessions := &sessionRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, sid uuid.UUID) (*domain.StudySession, error) {
			session := &domain.StudySession{
				ID:       sid,
				UserID:   uid,
				Type:     domain.SessionTypeReview,
				Counters: domain.SessionCounters{CardsStudied: 12, CardsCorrect: 10, CardsIncorrect: 2},
			}
			if closed {
				endedAt := testNow
				session.EndedAt = &endedAt
			}
			return session, nil
		},
		CloseFunc: func(ctx context.Context, sid uuid.UUID, endedAt time.Time) error {
			if !endedAt.Equal(testNow) {
				t.Errorf("ended at: got %v, want %v", endedAt, testNow)
			}
			closed = true
			return nil
		},
	}

	svc := newTestService(nil, nil, sessions, nil)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	got, err := svc.EndSession(ctx, EndSessionInput{SessionID: sessionID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsOpen() {
		t.Error("session still open after EndSession")
	}
	if got.Counters.CardsStudied != 12 {
		t.Errorf("counters lost on close: %+v", got.Counters)
	}
}

func TestService_EndSession_AlreadyEnded(t *testing.T) {
	t.Parallel()

	endedAt := testNow.Add(-time.Hour)
	sessions := &sessionRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, sid uuid.UUID) (*domain.StudySession, error) {
			return &domain.StudySession{ID: sid, UserID: uid, EndedAt: &endedAt}, nil
		},
	}

	svc := newTestService(nil, nil, sessions, nil)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, err := svc.EndSession(ctx, EndSessionInput{SessionID: uuid.New()})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestService_GetActiveSession_NoneOpen(t *testing.T) {
	t.Parallel()

	sessions := &sessionRepoMock{
		GetLatestOpenFunc: func(ctx context.Context, uid uuid.UUID) (*domain.StudySession, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestService(nil, nil, sessions, nil)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	got, err := svc.GetActiveSession(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil session, got %+v", got)
	}
}

func TestService_GetSessionResponses_OwnershipChecked(t *testing.T) {
	t.Parallel()

	sessions := &sessionRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, sid uuid.UUID) (*domain.StudySession, error) {
			return nil, domain.ErrNotFound
		},
	}
	responses := &responseLogRepoMock{}

	svc := newTestService(nil, nil, sessions, responses)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, err := svc.GetSessionResponses(ctx, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
