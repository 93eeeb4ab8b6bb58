package models

import "time"

// TransitionEvent is the fire-and-forget fact emitted on every successful
// status change, consumed by the notifier gateway.
type TransitionEvent struct {
	SessionID  string        `json:"sessionId"`
	FromStatus SessionStatus `json:"fromStatus"` // empty on creation
	ToStatus   SessionStatus `json:"toStatus"`
	ActorID    string        `json:"actorId"`
	Timestamp  time.Time     `json:"timestamp"`
}

// ReminderPayload is the task body enqueued for the reminder worker when a
// session is accepted.
type ReminderPayload struct {
	SessionID      string    `json:"sessionId"`
	ScheduledStart time.Time `json:"scheduledStart"`
}
