package models

import "time"

// SessionStatus enumerates the lifecycle states of a session.
type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusAccepted  SessionStatus = "accepted"
	StatusRejected  SessionStatus = "rejected"
	StatusCancelled SessionStatus = "cancelled"
	StatusCompleted SessionStatus = "completed"
)

// Session scheduling policy limits.
const (
	MinSessionMinutes = 15
	MaxSessionMinutes = 480

	// CancellationNotice is the minimum lead time required to cancel
	// an accepted session. Pending requests may be cancelled at any time.
	CancellationNotice = 2 * time.Hour

	MinRating = 1
	MaxRating = 5
)

// allowedTransitions is the legal transition graph. Rejected, cancelled and
// completed admit no further transitions.
var allowedTransitions = map[SessionStatus][]SessionStatus{
	StatusPending:  {StatusAccepted, StatusRejected, StatusCancelled, StatusPending},
	StatusAccepted: {StatusCancelled, StatusCompleted, StatusPending},
}

// IsTerminal reports whether no further status change is legal from s.
func (s SessionStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// CanTransitionTo reports whether the graph permits moving from s to next.
// The pending -> pending and accepted -> pending edges cover alternative-time
// proposals, which re-open negotiation.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, t := range allowedTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// ParticipantRole identifies which side of a session a user is on.
type ParticipantRole string

const (
	RoleRequester ParticipantRole = "requester"
	RoleProvider  ParticipantRole = "provider"
	RoleNone      ParticipantRole = "none"
)

// Skill is the descriptive payload of what is being exchanged. Opaque to the
// booking engine beyond being stored verbatim.
type Skill struct {
	Name     string `bson:"name" json:"name"`
	Category string `bson:"category" json:"category"`
	Level    string `bson:"level" json:"level"` // e.g. "beginner", "intermediate", "expert"
}

// Feedback is a single reviewer's rating of a completed session.
type Feedback struct {
	ReviewerID string    `bson:"reviewer_id" json:"reviewerId"`
	Rating     int       `bson:"rating" json:"rating"` // 1..5
	Comment    string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// AlternativeProposal records the latest counter-offer for a session's start time.
type AlternativeProposal struct {
	ProposedStart time.Time `bson:"proposed_start" json:"proposedStart"`
	Message       string    `bson:"message,omitempty" json:"message,omitempty"`
	ProposedBy    string    `bson:"proposed_by" json:"proposedBy"`
}

// Session is a proposed or confirmed appointment between two participants.
type Session struct {
	ID              string        `bson:"id" json:"id"`
	RequesterID     string        `bson:"requester_id" json:"requesterId"`
	ProviderID      string        `bson:"provider_id" json:"providerId"`
	Skill           Skill         `bson:"skill" json:"skill"`
	ScheduledStart  time.Time     `bson:"scheduled_start" json:"scheduledStart"`
	ScheduledEnd    time.Time     `bson:"scheduled_end" json:"scheduledEnd"` // denormalized: start + duration, kept in sync on every write
	DurationMinutes int           `bson:"duration_minutes" json:"durationMinutes"`
	Status          SessionStatus `bson:"status" json:"status"`

	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updatedAt"`
	RespondedAt *time.Time `bson:"responded_at,omitempty" json:"respondedAt,omitempty"`
	CancelledAt *time.Time `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`

	RejectionReason    string               `bson:"rejection_reason,omitempty" json:"rejectionReason,omitempty"`
	CancellationReason string               `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CompletionNotes    string               `bson:"completion_notes,omitempty" json:"completionNotes,omitempty"`
	Alternative        *AlternativeProposal `bson:"alternative,omitempty" json:"alternative,omitempty"`
	Feedback           []Feedback           `bson:"feedback,omitempty" json:"feedback,omitempty"`

	Version int `bson:"version" json:"-"` // optimistic concurrency token
}

// Duration returns the session length as a time.Duration.
func (s *Session) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// EndTime returns the exclusive end of the occupied interval.
func (s *Session) EndTime() time.Time {
	return s.ScheduledStart.Add(s.Duration())
}

// DurationHours is a derived read-only view of the session length.
func (s *Session) DurationHours() float64 {
	return float64(s.DurationMinutes) / 60.0
}

// TimeUntilStart returns how far in the future the session starts relative to
// now. Negative once the start time has passed.
func (s *Session) TimeUntilStart(now time.Time) time.Duration {
	return s.ScheduledStart.Sub(now)
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// OverlapsWith reports whether the occupied intervals of two sessions intersect.
func (s *Session) OverlapsWith(other *Session) bool {
	return Overlaps(s.ScheduledStart, s.EndTime(), other.ScheduledStart, other.EndTime())
}

// OccupiesCalendar reports whether this session still blocks its time slot.
// Rejected and cancelled sessions free the calendar.
func (s *Session) OccupiesCalendar() bool {
	return s.Status != StatusRejected && s.Status != StatusCancelled
}

// RoleOf returns which side of the session userID is on, or RoleNone.
func (s *Session) RoleOf(userID string) ParticipantRole {
	switch userID {
	case s.RequesterID:
		return RoleRequester
	case s.ProviderID:
		return RoleProvider
	default:
		return RoleNone
	}
}

// IsParticipant reports whether userID is either side of the session.
func (s *Session) IsParticipant(userID string) bool {
	return s.RoleOf(userID) != RoleNone
}

// HasFeedbackFrom reports whether reviewerID already submitted feedback.
func (s *Session) HasFeedbackFrom(reviewerID string) bool {
	for _, f := range s.Feedback {
		if f.ReviewerID == reviewerID {
			return true
		}
	}
	return false
}
