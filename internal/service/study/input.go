package study

import (
	"github.com/google/uuid"

	"github.com/nursewise/nursewise-backend/internal/domain"
)

// GetDueCardsInput holds the parameters for fetching the due queue.
type GetDueCardsInput struct {
	Limit int
}

// Validate checks all fields and collects all errors.
func (i *GetDueCardsInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GetSessionQueueInput holds the parameters for building a session queue.
type GetSessionQueueInput struct {
	Type       domain.SessionType
	CategoryID *uuid.UUID
	Limit      int
}

// Validate checks all fields and collects all errors.
func (i *GetSessionQueueInput) Validate() error {
	var errs []domain.FieldError

	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be REVIEW, LEARNING, or PRACTICE"})
	}
	if i.Type == domain.SessionTypeLearning && i.CategoryID == nil {
		errs = append(errs, domain.FieldError{Field: "category_id", Message: "required for LEARNING sessions"})
	}
	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SubmitAnswerInput holds the parameters for submitting a single answer.
type SubmitAnswerInput struct {
	CardID      uuid.UUID
	SessionID   *uuid.UUID
	Quality     int
	Correct     bool
	TimeSpentMs int
	ReviewType  domain.ReviewType
}

// Validate checks all fields and collects all errors.
func (i *SubmitAnswerInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if i.Quality < 0 || i.Quality > 5 {
		errs = append(errs, domain.FieldError{Field: "quality", Message: "must be between 0 and 5"})
	}
	if i.TimeSpentMs < 0 {
		errs = append(errs, domain.FieldError{Field: "time_spent_ms", Message: "must be non-negative"})
	}
	if i.TimeSpentMs > 600_000 {
		errs = append(errs, domain.FieldError{Field: "time_spent_ms", Message: "max 10 minutes"})
	}
	if !i.ReviewType.IsValid() {
		errs = append(errs, domain.FieldError{Field: "review_type", Message: "must be SCHEDULED, EXTRA_PRACTICE, or CRAMMING"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// StartSessionInput holds the parameters for starting a study session.
type StartSessionInput struct {
	Type       domain.SessionType
	CategoryID *uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *StartSessionInput) Validate() error {
	var errs []domain.FieldError

	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be REVIEW, LEARNING, or PRACTICE"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RecordAnswerInput holds the parameters for folding one answer into a
// session's running counters.
type RecordAnswerInput struct {
	SessionID   uuid.UUID
	Correct     bool
	TimeSpentMs int
}

// Validate checks all fields and collects all errors.
func (i *RecordAnswerInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}
	if i.TimeSpentMs < 0 {
		errs = append(errs, domain.FieldError{Field: "time_spent_ms", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// EndSessionInput holds the parameters for ending a study session.
type EndSessionInput struct {
	SessionID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *EndSessionInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SetFavoriteInput holds the parameters for flagging a card as a favorite.
type SetFavoriteInput struct {
	CardID   uuid.UUID
	Favorite bool
}

// Validate checks all fields and collects all errors.
func (i *SetFavoriteInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GetDashboardInput holds the parameters for the dashboard rollup.
// Timezone is an IANA name; empty or unknown values fall back to UTC.
type GetDashboardInput struct {
	Timezone string
}
