package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"skillswap/config"
	sessionRepo "skillswap/database/repository/session"
	"skillswap/models"
	"skillswap/services/tasks"
	"skillswap/utils"
)

// InitReminderWorker runs the async reminder worker in the background. It
// consumes the tasks enqueued when sessions are accepted and re-reads each
// session before firing, so cancelled or rescheduled sessions stay silent.
func InitReminderWorker(repo sessionRepo.SessionRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSessionReminder, handleReminderTask(repo))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(repo sessionRepo.SessionRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		session, err := repo.GetByID(ctx, p.SessionID)
		if err != nil {
			logger.Warn("reminder skipped: session not readable",
				zap.String("sessionID", p.SessionID), zap.Error(err))
			return nil
		}
		// Only sessions still on the calendar at the original time get a reminder.
		if session.Status != models.StatusAccepted || !session.ScheduledStart.Equal(p.ScheduledStart) {
			return nil
		}

		reminder := map[string]any{
			"type":           "session_reminder",
			"sessionId":      session.ID,
			"requesterId":    session.RequesterID,
			"providerId":     session.ProviderID,
			"scheduledStart": session.ScheduledStart,
		}
		payload, err := json.Marshal(reminder)
		if err != nil {
			return err
		}
		if err := utils.GetEventsClient().Publish(ctx, utils.TransitionChannel, payload).Err(); err != nil {
			logger.Warn("failed to publish session reminder",
				zap.String("sessionID", session.ID), zap.Error(err))
			return err
		}

		logger.Info("session reminder delivered",
			zap.String("sessionID", session.ID),
			zap.Time("scheduledStart", session.ScheduledStart))
		return nil
	}
}
