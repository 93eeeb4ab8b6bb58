package notification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"skillswap/models"
	"skillswap/services/tasks"
	"skillswap/utils"
)

// RedisNotifier publishes transition events on a Redis channel and enqueues
// session reminders through asynq. All failures are logged and swallowed.
type RedisNotifier struct {
	events *redis.Client
	queue  *asynq.Client
	logger *zap.Logger
}

// NewRedisNotifier constructs the production notifier. queue may be nil when
// reminder scheduling is disabled.
func NewRedisNotifier(events *redis.Client, queue *asynq.Client, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{events: events, queue: queue, logger: logger}
}

// PublishTransition sends the event as JSON on the transition channel.
func (n *RedisNotifier) PublishTransition(ctx context.Context, event models.TransitionEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("failed to marshal transition event",
			zap.String("sessionID", event.SessionID), zap.Error(err))
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := n.events.Publish(pubCtx, utils.TransitionChannel, payload).Err(); err != nil {
		n.logger.Warn("failed to publish transition event",
			zap.String("sessionID", event.SessionID),
			zap.String("toStatus", string(event.ToStatus)),
			zap.Error(err))
	}
}

// ScheduleReminder enqueues a reminder to fire one hour before the session
// starts. Sessions starting sooner than the lead time get no reminder.
func (n *RedisNotifier) ScheduleReminder(ctx context.Context, session *models.Session) {
	if n.queue == nil {
		return
	}
	fireAt := session.ScheduledStart.Add(-tasks.ReminderLeadTime)
	if !fireAt.After(time.Now()) {
		return
	}

	payload := models.ReminderPayload{
		SessionID:      session.ID,
		ScheduledStart: session.ScheduledStart,
	}
	task, opts, err := tasks.NewSessionReminderTask(payload, fireAt)
	if err != nil {
		n.logger.Warn("failed to build session reminder task",
			zap.String("sessionID", session.ID), zap.Error(err))
		return
	}
	if _, err := n.queue.EnqueueContext(ctx, task, opts...); err != nil {
		n.logger.Warn("failed to enqueue session reminder",
			zap.String("sessionID", session.ID), zap.Error(err))
	}
}
