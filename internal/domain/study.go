package domain

import (
	"time"

	"github.com/google/uuid"
)

// QualityWindow is the number of most recent quality responses kept on a
// ReviewState. The mastery bonus looks at this window only, never all-time.
const QualityWindow = 10

// Flashcard is a catalog entity. It is owned by content management and
// read-only from the engine's perspective.
type Flashcard struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Front      string
	Back       string
	Difficulty int // 1..5
	Tags       []string
	CreatedAt  time.Time
}

// ReviewState holds per-(user, flashcard) spaced-repetition state.
//
// Invariants at rest:
//   - EaseFactor >= 1.3
//   - IntervalDays >= 1 once a first successful review occurred (0 only for a
//     never-reviewed card)
//   - TimesSeen == TimesCorrect + TimesIncorrect
//   - NextReviewAt >= LastReviewedAt
//   - MasteryLevel is a pure function of ConsecutiveCorrect and
//     QualityResponses, recomputed on every write.
type ReviewState struct {
	UserID             uuid.UUID
	CardID             uuid.UUID
	EaseFactor         float64
	IntervalDays       int
	RepetitionCount    int
	QualityResponses   []int // last QualityWindow ratings, most recent last
	TimesSeen          int
	TimesCorrect       int
	TimesIncorrect     int
	ConsecutiveCorrect int
	LastReviewedAt     *time.Time
	NextReviewAt       *time.Time
	MasteryLevel       int
	IsFavorite         bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CountersConsistent reports whether the seen/correct/incorrect identity
// holds. A false result at read time is a ConsistencyWarning, not an error:
// the next write heals it.
func (s *ReviewState) CountersConsistent() bool {
	return s.TimesSeen == s.TimesCorrect+s.TimesIncorrect
}

// SessionCounters holds the mutable per-session aggregate. The aggregator
// always re-reads these from the store before incrementing.
type SessionCounters struct {
	CardsStudied     int
	CardsCorrect     int
	CardsIncorrect   int
	TotalTimeSeconds int
}

// StudySession tracks one bounded study run. EndedAt stays nil while the
// session is open; a session abandoned without EndSession keeps EndedAt nil
// forever, which is a valid terminal state.
type StudySession struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Type       SessionType
	CategoryID *uuid.UUID
	Counters   SessionCounters
	StartedAt  time.Time
	EndedAt    *time.Time
	CreatedAt  time.Time
}

// IsOpen returns true while the session can still accept answers.
func (s *StudySession) IsOpen() bool { return s.EndedAt == nil }

// ResponseEvent records a single submitted answer (append-only audit log).
type ResponseEvent struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CardID      uuid.UUID
	SessionID   *uuid.UUID
	Quality     int // 0..5
	Correct     bool
	TimeSpentMs int
	ReviewType  ReviewType
	AnsweredAt  time.Time
}

// SRSConfig holds the SM-2 engine parameters.
type SRSConfig struct {
	DefaultEaseFactor float64 // ease factor for a freshly initialized state
	MinEaseFactor     float64 // hard floor, 1.3 per SM-2
	MaxIntervalDays   int     // cap on computed intervals
	QueueLimit        int     // default study queue size
}

// MasteryCounts holds the per-level breakdown for the dashboard.
type MasteryCounts struct {
	Levels [6]int
	Total  int
}

// Dashboard holds aggregated study statistics for one user.
type Dashboard struct {
	DueCount      int
	ReviewedToday int
	SessionsToday int
	Mastery       MasteryCounts
	FavoriteCount int
	ActiveSession *uuid.UUID
}
