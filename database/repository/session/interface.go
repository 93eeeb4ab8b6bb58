package sessionRepo

import (
	"context"
	"errors"
	"time"

	"skillswap/models"
)

// ErrNotFound is returned when no session matches the given id.
var ErrNotFound = errors.New("session not found")

// ErrNoMatch is returned by conditional updates when the filter did not match:
// the session is missing, its status changed underneath us, or a precondition
// (version, duplicate feedback) failed. Callers disambiguate with a re-read.
var ErrNoMatch = errors.New("session update precondition failed")

// SessionRepository is the persistence contract for the booking engine.
// Every time-altering write runs its conflict check and the write as one
// serializable unit; every status transition is conditioned on the expected
// prior status so racing transitions lose instead of clobbering each other.
type SessionRepository interface {
	// CreateSession checks both participants' calendars against the session's
	// interval and inserts the session in a single transaction. A non-empty
	// conflicts slice means nothing was written.
	CreateSession(ctx context.Context, session *models.Session) (conflicts []models.Session, err error)

	// Reschedule moves the session to newStart with status pending, recording
	// the proposal, after re-checking both participants' calendars against the
	// new interval (excluding the session itself) in the same transaction.
	// The write is conditioned on expectedStatus and expectedVersion.
	Reschedule(ctx context.Context, sessionID string, expectedStatus models.SessionStatus, expectedVersion int,
		newStart, newEnd time.Time, proposal models.AlternativeProposal) (conflicts []models.Session, updated *models.Session, err error)

	GetByID(ctx context.Context, sessionID string) (*models.Session, error)
	ListByParticipant(ctx context.Context, userID string, upcomingOnly bool, now time.Time) ([]models.Session, error)

	// FindOverlapping returns the participant's sessions, on either side, whose
	// status still occupies the calendar and whose interval intersects
	// [start, end). excludeID skips the session being rescheduled.
	FindOverlapping(ctx context.Context, userID string, start, end time.Time, excludeID string) ([]models.Session, error)

	// Status transitions. Each is a single conditional update filtered on the
	// expected prior status and returns the post-update document, or ErrNoMatch.
	Accept(ctx context.Context, sessionID string, at time.Time) (*models.Session, error)
	Reject(ctx context.Context, sessionID, reason string, at time.Time) (*models.Session, error)
	Cancel(ctx context.Context, sessionID string, expectedStatus models.SessionStatus, reason string, at time.Time) (*models.Session, error)
	Complete(ctx context.Context, sessionID, notes string, at time.Time) (*models.Session, error)

	// AddFeedback appends feedback iff the session is completed and the
	// reviewer has not already submitted one.
	AddFeedback(ctx context.Context, sessionID string, fb models.Feedback) (*models.Session, error)

	EnsureIndexes(ctx context.Context) error
}
