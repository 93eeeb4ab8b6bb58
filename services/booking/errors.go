package booking

import (
	"fmt"
	"strings"

	"skillswap/models"
)

// ValidationError reports structurally invalid input: a duration out of range,
// a start time not in the future, a missing reason or rating.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ConflictError reports that the candidate interval overlaps existing sessions
// on a participant's calendar. It always carries the conflicting session ids.
type ConflictError struct {
	ConflictingIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time slot conflicts with existing sessions: %s", strings.Join(e.ConflictingIDs, ", "))
}

func NewConflictError(conflicts []models.Session) error {
	ids := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		ids = append(ids, c.ID)
	}
	return &ConflictError{ConflictingIDs: ids}
}

// AuthorizationError reports that the acting identity is not a legitimate
// participant for the requested action.
type AuthorizationError struct {
	UserID  string
	Message string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("user %s: %s", e.UserID, e.Message)
}

func NewAuthorizationError(userID, msg string) error {
	return &AuthorizationError{UserID: userID, Message: msg}
}

// InvalidStateError reports a transition that is not legal from the session's
// current status, including policy refusals such as cancelling an accepted
// session inside the notice window or completing before the start time.
type InvalidStateError struct {
	Status  models.SessionStatus
	Message string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("session is %s: %s", e.Status, e.Message)
}

func NewInvalidStateError(status models.SessionStatus, msg string) error {
	return &InvalidStateError{Status: status, Message: msg}
}

// NotFoundError reports a session id with no backing record.
type NotFoundError struct {
	SessionID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.SessionID)
}

func NewNotFoundError(sessionID string) error {
	return &NotFoundError{SessionID: sessionID}
}
