package study

import (
	"context"
	"fmt"

	"github.com/nursewise/nursewise-backend/internal/domain"
	"github.com/nursewise/nursewise-backend/pkg/ctxutil"
)

// GetDashboard returns aggregated study statistics for the user. "Today"
// is measured in the caller's timezone, falling back to UTC.
func (s *Service) GetDashboard(ctx context.Context, input GetDashboardInput) (domain.Dashboard, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Dashboard{}, domain.ErrUnauthorized
	}

	now := s.clock.Now().UTC()
	tz := ParseTimezone(input.Timezone)
	dayStart := DayStart(now, tz)

	dueCount, err := s.states.CountDue(ctx, userID, now)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("count due: %w", err)
	}

	reviewedToday, err := s.responses.CountSince(ctx, userID, dayStart)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("count reviewed today: %w", err)
	}

	sessionsToday, err := s.sessions.CountEndedSince(ctx, userID, dayStart)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("count sessions today: %w", err)
	}

	byMastery, err := s.states.CountByMastery(ctx, userID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("count by mastery: %w", err)
	}

	favoriteCount, err := s.states.CountFavorites(ctx, userID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("count favorites: %w", err)
	}

	active, err := s.GetActiveSession(ctx)
	if err != nil {
		return domain.Dashboard{}, err
	}

	dashboard := domain.Dashboard{
		DueCount:      dueCount,
		ReviewedToday: reviewedToday,
		SessionsToday: sessionsToday,
		FavoriteCount: favoriteCount,
	}
	for level, count := range byMastery {
		if level >= 0 && level < len(dashboard.Mastery.Levels) {
			dashboard.Mastery.Levels[level] = count
			dashboard.Mastery.Total += count
		}
	}
	if active != nil {
		id := active.ID
		dashboard.ActiveSession = &id
	}

	return dashboard, nil
}
