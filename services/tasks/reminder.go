package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"skillswap/models"
)

const TypeSessionReminder = "session:reminder"

// ReminderLeadTime is how far before the scheduled start a reminder fires.
const ReminderLeadTime = time.Hour

// NewSessionReminderTask builds the asynq task delivering a session reminder
// at fireAt.
func NewSessionReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSessionReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
