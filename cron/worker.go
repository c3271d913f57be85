package cron

import (
	"context"
	"log"
	"time"

	"arcadehub/config"
	"arcadehub/services/events"
	"arcadehub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// eventChannel is the redis pub/sub channel the realtime layer subscribes to.
const eventChannel = "arcadehub:events"

// InitEventWorker runs the async worker fanning engine events out to the
// realtime channel.
func InitEventWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
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
	mux.HandleFunc(events.TypeReservationApproved, handlePublishTask)
	mux.HandleFunc(events.TypeReservationCancelled, handlePublishTask)
	mux.HandleFunc(events.TypeScheduleEventUpserted, handlePublishTask)

	go func() {
		log.Println("[EventWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[EventWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[EventWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handlePublishTask republishes the task payload on the realtime channel,
// wrapped with its public event name.
func handlePublishTask(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()
	name := events.EventNameFor(task.Type())
	if name == "" {
		logger.Warn("unknown event task type", zap.String("type", task.Type()))
		return nil
	}

	client := utils.GetEventClient()
	msg := []byte(`{"event":"` + name + `","payload":` + string(task.Payload()) + `}`)
	if err := client.Publish(ctx, eventChannel, msg).Err(); err != nil {
		logger.Error("failed to publish event",
			zap.String("event", name),
			zap.Error(err))
		return err
	}
	logger.Debug("event published", zap.String("event", name))
	return nil
}
