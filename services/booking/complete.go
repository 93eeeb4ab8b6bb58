package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	sessionRepo "skillswap/database/repository/session"
	"skillswap/models"
	"skillswap/utils"
)

// Complete marks an accepted session as done. Either participant may mark it,
// but only once the scheduled start has passed: completion is derived from
// wall-clock eligibility at call time, never backdated by a background job.
func (s *DefaultBookingService) Complete(ctx context.Context, sessionID, actingUserID, notes string) (*models.Session, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := requireParticipant(session, actingUserID); err != nil {
		return nil, err
	}

	if !session.Status.CanTransitionTo(models.StatusCompleted) {
		return nil, NewInvalidStateError(session.Status, "only accepted sessions can be completed")
	}
	now := s.now()
	if now.Before(session.ScheduledStart) {
		return nil, NewInvalidStateError(session.Status, "session cannot be completed before its scheduled start")
	}

	updated, err := s.Repo.Complete(ctx, sessionID, notes, now)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNoMatch) {
			return nil, s.resolveNoMatch(ctx, sessionID, "complete")
		}
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	utils.GetLogger().Info("session completed",
		zap.String("sessionID", updated.ID), zap.String("completedBy", actingUserID))

	s.emitTransition(ctx, updated.ID, models.StatusAccepted, models.StatusCompleted, actingUserID)
	return updated, nil
}
