package booking

import (
	"context"
	"errors"
	"fmt"

	sessionRepo "skillswap/database/repository/session"
	"skillswap/models"
)

// loadSession fetches a session, translating repository misses into the
// domain's NotFoundError.
func (s *DefaultBookingService) loadSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.Repo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return nil, NewNotFoundError(sessionID)
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return session, nil
}

// requireParticipant resolves the acting user's role on the session, failing
// with AuthorizationError for outsiders.
func requireParticipant(session *models.Session, actingUserID string) (models.ParticipantRole, error) {
	role := session.RoleOf(actingUserID)
	if role == models.RoleNone {
		return role, NewAuthorizationError(actingUserID, "not a participant of this session")
	}
	return role, nil
}

// emitTransition invalidates the read cache and hands the event to the
// notifier. Nothing here can fail the booking operation.
func (s *DefaultBookingService) emitTransition(ctx context.Context, sessionID string, from, to models.SessionStatus, actorID string) {
	s.invalidateCache(ctx, sessionID)
	if s.Notifier == nil {
		return
	}
	s.Notifier.PublishTransition(ctx, models.TransitionEvent{
		SessionID:  sessionID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		Timestamp:  s.now(),
	})
}

// resolveNoMatch re-reads the session after a conditional update matched
// nothing, so the caller gets NotFoundError or a precise InvalidStateError
// instead of a generic failure.
func (s *DefaultBookingService) resolveNoMatch(ctx context.Context, sessionID, action string) error {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return err
	}
	return NewInvalidStateError(session.Status, fmt.Sprintf("cannot %s a %s session", action, session.Status))
}
