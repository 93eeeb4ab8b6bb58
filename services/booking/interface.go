package booking

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	sessionRepo "skillswap/database/repository/session"
	"skillswap/models"
	"skillswap/services/notification"
)

// BookingService orchestrates the session lifecycle: creation, negotiation,
// cancellation, completion and feedback. Every operation enforces the
// transition table and emits one transition event on success.
type BookingService interface {
	CreateRequest(ctx context.Context, req models.CreateSessionRequest) (*models.Session, error)
	Respond(ctx context.Context, sessionID, actingUserID string, req models.RespondRequest) (*models.Session, error)
	Cancel(ctx context.Context, sessionID, actingUserID, reason string) (*models.Session, error)
	Complete(ctx context.Context, sessionID, actingUserID, notes string) (*models.Session, error)
	AttachFeedback(ctx context.Context, sessionID, reviewerID string, rating int, comment string) (*models.Session, error)

	// CheckConflicts is the read-only pre-check callers may run before
	// committing a booking attempt. The authoritative check is the one inside
	// CreateRequest and the reschedule path.
	CheckConflicts(ctx context.Context, userID string, start time.Time, durationMinutes int, excludeSessionID string) ([]models.Session, error)

	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	ListSessions(ctx context.Context, userID string, upcomingOnly bool) ([]models.Session, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo     sessionRepo.SessionRepository
	Notifier notification.Notifier
	Clock    Clock
	// Cache, when set, serves GetSession reads and is invalidated on every
	// successful write. Conflict checks never read from it.
	Cache *redis.Client
}

// now returns guard time from the injected clock, defaulting to wall clock.
func (s *DefaultBookingService) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now()
}
