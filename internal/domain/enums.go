package domain

// SessionType represents the kind of study session.
type SessionType string

const (
	SessionTypeReview   SessionType = "REVIEW"
	SessionTypeLearning SessionType = "LEARNING"
	SessionTypePractice SessionType = "PRACTICE"
)

func (s SessionType) String() string { return string(s) }

func (s SessionType) IsValid() bool {
	switch s {
	case SessionTypeReview, SessionTypeLearning, SessionTypePractice:
		return true
	}
	return false
}

// ReviewType tags how a single submitted answer was produced.
type ReviewType string

const (
	ReviewTypeScheduled     ReviewType = "SCHEDULED"
	ReviewTypeExtraPractice ReviewType = "EXTRA_PRACTICE"
	ReviewTypeCramming      ReviewType = "CRAMMING"
)

func (r ReviewType) String() string { return string(r) }

func (r ReviewType) IsValid() bool {
	switch r {
	case ReviewTypeScheduled, ReviewTypeExtraPractice, ReviewTypeCramming:
		return true
	}
	return false
}
