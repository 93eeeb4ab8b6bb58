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

// AttachFeedback records a participant's rating of a completed session. One
// feedback per reviewer per session; the duplicate guard and the append are a
// single conditional write in the repository.
func (s *DefaultBookingService) AttachFeedback(ctx context.Context, sessionID, reviewerID string, rating int, comment string) (*models.Session, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, NewValidationError("rating",
			fmt.Sprintf("rating must be between %d and %d", models.MinRating, models.MaxRating))
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := requireParticipant(session, reviewerID); err != nil {
		return nil, err
	}
	if session.Status != models.StatusCompleted {
		return nil, NewInvalidStateError(session.Status, "feedback requires a completed session")
	}
	if session.HasFeedbackFrom(reviewerID) {
		return nil, NewInvalidStateError(session.Status, "feedback already submitted for this session")
	}

	fb := models.Feedback{
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  s.now(),
	}
	updated, err := s.Repo.AddFeedback(ctx, sessionID, fb)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNoMatch) {
			// The conditional write lost a race: the duplicate guard or the
			// completed-status filter failed between our read and the update.
			fresh, loadErr := s.loadSession(ctx, sessionID)
			if loadErr != nil {
				return nil, loadErr
			}
			if fresh.HasFeedbackFrom(reviewerID) {
				return nil, NewInvalidStateError(fresh.Status, "feedback already submitted for this session")
			}
			return nil, NewInvalidStateError(fresh.Status, "feedback requires a completed session")
		}
		return nil, fmt.Errorf("failed to attach feedback: %w", err)
	}

	utils.GetLogger().Info("feedback attached",
		zap.String("sessionID", updated.ID),
		zap.String("reviewerID", reviewerID),
		zap.Int("rating", rating))

	// Feedback does not change the session status, so no transition event is
	// emitted; the read cache still needs refreshing.
	s.invalidateCache(ctx, sessionID)
	return updated, nil
}
