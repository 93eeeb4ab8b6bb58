package notification

import (
	"context"

	"skillswap/models"
)

// Notifier is the gateway through which the booking engine hands off
// transition events. Delivery is fire-and-forget: implementations log and
// swallow failures, and a failed publish never rolls back a booking decision.
// The consuming notification subsystem owns retry and multi-channel delivery.
type Notifier interface {
	PublishTransition(ctx context.Context, event models.TransitionEvent)

	// ScheduleReminder enqueues a start-time reminder for an accepted session.
	ScheduleReminder(ctx context.Context, session *models.Session)
}

// NopNotifier discards everything. Used in tests and as a safe default.
type NopNotifier struct{}

func (NopNotifier) PublishTransition(ctx context.Context, event models.TransitionEvent) {}

func (NopNotifier) ScheduleReminder(ctx context.Context, session *models.Session) {}
