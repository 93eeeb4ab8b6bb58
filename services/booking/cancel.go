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

// Cancel withdraws a session. Pending requests may be cancelled at any time;
// accepted sessions require the notice window since the other side has
// committed to the slot.
func (s *DefaultBookingService) Cancel(ctx context.Context, sessionID, actingUserID, reason string) (*models.Session, error) {
	if reason == "" {
		return nil, NewValidationError("reason", "a reason is required to cancel a session")
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := requireParticipant(session, actingUserID); err != nil {
		return nil, err
	}

	now := s.now()
	if !session.Status.CanTransitionTo(models.StatusCancelled) {
		return nil, NewInvalidStateError(session.Status, "session is no longer cancellable")
	}
	// Pending requests carry no commitment and are cancellable at any time;
	// accepted sessions require the notice window.
	if session.Status == models.StatusAccepted && session.TimeUntilStart(now) < models.CancellationNotice {
		return nil, NewInvalidStateError(session.Status,
			fmt.Sprintf("accepted sessions require at least %s notice to cancel", models.CancellationNotice))
	}

	updated, err := s.Repo.Cancel(ctx, sessionID, session.Status, reason, now)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNoMatch) {
			return nil, s.resolveNoMatch(ctx, sessionID, "cancel")
		}
		return nil, fmt.Errorf("failed to cancel session: %w", err)
	}

	utils.GetLogger().Info("session cancelled",
		zap.String("sessionID", updated.ID),
		zap.String("cancelledBy", actingUserID),
		zap.String("reason", reason))

	s.emitTransition(ctx, updated.ID, session.Status, models.StatusCancelled, actingUserID)
	return updated, nil
}
