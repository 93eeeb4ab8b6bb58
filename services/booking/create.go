package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skillswap/models"
	"skillswap/utils"
)

// CreateRequest validates the booking input, checks both participants'
// calendars and persists a new pending session. The conflict check and the
// insert commit as one transaction inside the repository.
func (s *DefaultBookingService) CreateRequest(ctx context.Context, req models.CreateSessionRequest) (*models.Session, error) {
	now := s.now()

	if req.RequesterID == "" || req.ProviderID == "" {
		return nil, NewValidationError("participants", "requester and provider ids are required")
	}
	if req.RequesterID == req.ProviderID {
		return nil, NewValidationError("participants", "requester and provider must be different users")
	}
	if req.DurationMinutes < models.MinSessionMinutes || req.DurationMinutes > models.MaxSessionMinutes {
		return nil, NewValidationError("durationMinutes",
			fmt.Sprintf("duration must be between %d and %d minutes", models.MinSessionMinutes, models.MaxSessionMinutes))
	}
	if !req.ScheduledStart.After(now) {
		return nil, NewValidationError("scheduledStart", "session must be scheduled in the future")
	}

	session := &models.Session{
		ID:              uuid.New().String(),
		RequesterID:     req.RequesterID,
		ProviderID:      req.ProviderID,
		Skill:           req.Skill,
		ScheduledStart:  req.ScheduledStart,
		ScheduledEnd:    req.ScheduledStart.Add(time.Duration(req.DurationMinutes) * time.Minute),
		DurationMinutes: req.DurationMinutes,
		Status:          models.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	conflicts, err := s.Repo.CreateSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if len(conflicts) > 0 {
		return nil, NewConflictError(conflicts)
	}

	utils.GetLogger().Info("session requested",
		zap.String("sessionID", session.ID),
		zap.String("requesterID", session.RequesterID),
		zap.String("providerID", session.ProviderID),
		zap.Time("scheduledStart", session.ScheduledStart))

	s.emitTransition(ctx, session.ID, "", models.StatusPending, req.RequesterID)
	return session, nil
}
