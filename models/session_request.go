package models

import "time"

// RespondAction enumerates the provider/participant responses to a pending or
// accepted session.
type RespondAction string

const (
	ActionAccept             RespondAction = "accept"
	ActionReject             RespondAction = "reject"
	ActionProposeAlternative RespondAction = "propose_alternative"
)

// CreateSessionRequest is the input for booking a new session. RequesterID is
// filled from the authenticated caller, not the request body.
type CreateSessionRequest struct {
	RequesterID     string    `json:"requesterId"`
	ProviderID      string    `json:"providerId" binding:"required"`
	Skill           Skill     `json:"skill"`
	ScheduledStart  time.Time `json:"scheduledStart" binding:"required"`
	DurationMinutes int       `json:"durationMinutes" binding:"required"`
}

// RespondRequest carries an accept, reject or propose-alternative action.
type RespondRequest struct {
	Action RespondAction `json:"action" binding:"required"`
	// Reason is required for reject.
	Reason string `json:"reason,omitempty"`
	// ProposedStart and Message are used by propose_alternative.
	ProposedStart *time.Time `json:"proposedStart,omitempty"`
	Message       string     `json:"message,omitempty"`
}

// CancelRequest carries the cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CompleteRequest carries optional notes recorded when a session is marked done.
type CompleteRequest struct {
	Notes string `json:"notes,omitempty"`
}

// FeedbackRequest is a reviewer's rating of a completed session.
type FeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment,omitempty"`
}
