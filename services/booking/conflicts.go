package booking

import (
	"context"
	"fmt"
	"time"

	"skillswap/models"
)

// CheckConflicts returns the participant's sessions overlapping the candidate
// interval. Best-effort pre-check for callers: the authoritative check runs
// transactionally inside CreateRequest and the reschedule path.
func (s *DefaultBookingService) CheckConflicts(ctx context.Context, userID string, start time.Time, durationMinutes int, excludeSessionID string) ([]models.Session, error) {
	if userID == "" {
		return nil, NewValidationError("userId", "a user id is required")
	}
	if durationMinutes < models.MinSessionMinutes || durationMinutes > models.MaxSessionMinutes {
		return nil, NewValidationError("durationMinutes",
			fmt.Sprintf("duration must be between %d and %d minutes", models.MinSessionMinutes, models.MaxSessionMinutes))
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	conflicts, err := s.Repo.FindOverlapping(ctx, userID, start, end, excludeSessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check conflicts for %s: %w", userID, err)
	}
	return conflicts, nil
}

// ListSessions returns the participant's sessions, optionally limited to those
// not yet finished.
func (s *DefaultBookingService) ListSessions(ctx context.Context, userID string, upcomingOnly bool) ([]models.Session, error) {
	if userID == "" {
		return nil, NewValidationError("userId", "a user id is required")
	}
	sessions, err := s.Repo.ListByParticipant(ctx, userID, upcomingOnly, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for %s: %w", userID, err)
	}
	return sessions, nil
}
