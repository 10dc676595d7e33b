package study

import (
	"math"
	"time"

	"github.com/nursewise/nursewise-backend/internal/domain"
)

// SchedulerInput holds all data needed for an SM-2 step. Pure value, no
// side effects.
type SchedulerInput struct {
	EaseFactor      float64
	IntervalDays    int
	RepetitionCount int
	Quality         int // 0..5
	Now             time.Time
	Config          domain.SRSConfig
}

// SchedulerOutput is the result of an SM-2 step.
type SchedulerOutput struct {
	EaseFactor      float64
	IntervalDays    int
	RepetitionCount int
	NextReviewAt    time.Time
}

// ComputeNextReview is a pure function. No DB, no context, no logger.
//
// Quality below 3 is a lapse: the repetition count resets and the card
// comes back tomorrow. The ease factor is recomputed on every answer,
// lapse or not, and never drops below Config.MinEaseFactor.
//
// Ratings outside 0..5 and corrupt state (negative interval or count,
// ease below the floor) fail fast with a validation error rather than
// being silently clamped.
func ComputeNextReview(input SchedulerInput) (SchedulerOutput, error) {
	if input.Quality < 0 || input.Quality > 5 {
		return SchedulerOutput{}, domain.NewValidationError("quality", "must be between 0 and 5")
	}
	if input.IntervalDays < 0 {
		return SchedulerOutput{}, domain.NewValidationError("interval_days", "must be non-negative")
	}
	if input.RepetitionCount < 0 {
		return SchedulerOutput{}, domain.NewValidationError("repetition_count", "must be non-negative")
	}
	if input.EaseFactor < input.Config.MinEaseFactor {
		return SchedulerOutput{}, domain.NewValidationError("ease_factor", "below minimum")
	}

	ease := nextEaseFactor(input.EaseFactor, input.Quality, input.Config.MinEaseFactor)

	var interval, repetitions int
	if input.Quality < 3 {
		repetitions = 0
		interval = 1
	} else {
		repetitions = input.RepetitionCount + 1
		switch repetitions {
		case 1:
			interval = 1
		case 2:
			interval = 6
		default:
			interval = int(math.Round(float64(input.IntervalDays) * ease))
		}
	}

	if input.Config.MaxIntervalDays > 0 && interval > input.Config.MaxIntervalDays {
		interval = input.Config.MaxIntervalDays
	}

	return SchedulerOutput{
		EaseFactor:      ease,
		IntervalDays:    interval,
		RepetitionCount: repetitions,
		NextReviewAt:    nextReviewDate(input.Now, interval),
	}, nil
}

// nextEaseFactor applies the SM-2 ease adjustment:
// EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02)), floored at minEase.
func nextEaseFactor(ease float64, quality int, minEase float64) float64 {
	q := float64(quality)
	ease += 0.1 - (5-q)*(0.08+(5-q)*0.02)
	if ease < minEase {
		ease = minEase
	}
	return ease
}

// nextReviewDate schedules in whole calendar days (UTC): the due moment is
// midnight of the review day plus the interval, so a card answered late in
// the evening is still due the correct number of days later.
func nextReviewDate(now time.Time, intervalDays int) time.Time {
	return DayStart(now, time.UTC).AddDate(0, 0, intervalDays)
}
