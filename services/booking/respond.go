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

// Respond applies the provider's accept or reject, or either participant's
// alternative-time proposal, per the transition table.
func (s *DefaultBookingService) Respond(ctx context.Context, sessionID, actingUserID string, req models.RespondRequest) (*models.Session, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	role, err := requireParticipant(session, actingUserID)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case models.ActionAccept:
		return s.accept(ctx, session, role, actingUserID)
	case models.ActionReject:
		return s.reject(ctx, session, role, actingUserID, req.Reason)
	case models.ActionProposeAlternative:
		return s.proposeAlternative(ctx, session, actingUserID, req)
	default:
		return nil, NewValidationError("action", fmt.Sprintf("unknown action %q", req.Action))
	}
}

func (s *DefaultBookingService) accept(ctx context.Context, session *models.Session, role models.ParticipantRole, actingUserID string) (*models.Session, error) {
	if role != models.RoleProvider {
		return nil, NewAuthorizationError(actingUserID, "only the provider may accept a session request")
	}
	if !session.Status.CanTransitionTo(models.StatusAccepted) {
		return nil, NewInvalidStateError(session.Status, "only pending sessions can be accepted")
	}

	updated, err := s.Repo.Accept(ctx, session.ID, s.now())
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNoMatch) {
			return nil, s.resolveNoMatch(ctx, session.ID, "accept")
		}
		return nil, fmt.Errorf("failed to accept session: %w", err)
	}

	utils.GetLogger().Info("session accepted",
		zap.String("sessionID", updated.ID), zap.String("providerID", actingUserID))

	s.emitTransition(ctx, updated.ID, models.StatusPending, models.StatusAccepted, actingUserID)
	if s.Notifier != nil {
		s.Notifier.ScheduleReminder(ctx, updated)
	}
	return updated, nil
}

func (s *DefaultBookingService) reject(ctx context.Context, session *models.Session, role models.ParticipantRole, actingUserID, reason string) (*models.Session, error) {
	if role != models.RoleProvider {
		return nil, NewAuthorizationError(actingUserID, "only the provider may reject a session request")
	}
	if reason == "" {
		return nil, NewValidationError("reason", "a reason is required to reject a session")
	}
	if !session.Status.CanTransitionTo(models.StatusRejected) {
		return nil, NewInvalidStateError(session.Status, "only pending sessions can be rejected")
	}

	updated, err := s.Repo.Reject(ctx, session.ID, reason, s.now())
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNoMatch) {
			return nil, s.resolveNoMatch(ctx, session.ID, "reject")
		}
		return nil, fmt.Errorf("failed to reject session: %w", err)
	}

	s.emitTransition(ctx, updated.ID, models.StatusPending, models.StatusRejected, actingUserID)
	return updated, nil
}

// proposeAlternative re-opens negotiation at a new start time. The conflict
// check against the new interval and the reschedule commit as one transaction;
// the session's own record is excluded from the check.
func (s *DefaultBookingService) proposeAlternative(ctx context.Context, session *models.Session, actingUserID string, req models.RespondRequest) (*models.Session, error) {
	now := s.now()

	if req.ProposedStart == nil {
		return nil, NewValidationError("proposedStart", "an alternative start time is required")
	}
	if !req.ProposedStart.After(now) {
		return nil, NewValidationError("proposedStart", "the proposed start must be in the future")
	}
	// The pending -> pending and accepted -> pending edges of the transition
	// graph are exactly the states open to renegotiation.
	if !session.Status.CanTransitionTo(models.StatusPending) {
		return nil, NewInvalidStateError(session.Status, "only pending or accepted sessions can be rescheduled")
	}

	newStart := *req.ProposedStart
	newEnd := newStart.Add(session.Duration())
	proposal := models.AlternativeProposal{
		ProposedStart: newStart,
		Message:       req.Message,
		ProposedBy:    actingUserID,
	}

	conflicts, updated, err := s.Repo.Reschedule(ctx, session.ID, session.Status, session.Version, newStart, newEnd, proposal)
	if err != nil {
		switch {
		case errors.Is(err, sessionRepo.ErrNotFound):
			return nil, NewNotFoundError(session.ID)
		case errors.Is(err, sessionRepo.ErrNoMatch):
			return nil, s.resolveNoMatch(ctx, session.ID, "reschedule")
		default:
			return nil, fmt.Errorf("failed to reschedule session: %w", err)
		}
	}
	if len(conflicts) > 0 {
		return nil, NewConflictError(conflicts)
	}

	utils.GetLogger().Info("alternative time proposed",
		zap.String("sessionID", updated.ID),
		zap.String("proposedBy", actingUserID),
		zap.Time("proposedStart", newStart))

	s.emitTransition(ctx, updated.ID, session.Status, models.StatusPending, actingUserID)
	return updated, nil
}
