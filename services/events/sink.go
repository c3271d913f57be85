package events

import (
	"context"
	"fmt"

	"arcadehub/config"
	"arcadehub/models"
	"arcadehub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqEventSink enqueues engine events on the async queue; the worker in
// cron fans them out to the realtime channel.
type AsynqEventSink struct {
	client *asynq.Client
}

func NewAsynqEventSink() *AsynqEventSink {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &AsynqEventSink{client: client}
}

func (s *AsynqEventSink) Close() error {
	return s.client.Close()
}

func (s *AsynqEventSink) EmitReservationApproved(ctx context.Context, payload models.ReservationEventPayload) error {
	return s.enqueueReservation(ctx, TypeReservationApproved, payload)
}

func (s *AsynqEventSink) EmitReservationCancelled(ctx context.Context, payload models.ReservationEventPayload) error {
	return s.enqueueReservation(ctx, TypeReservationCancelled, payload)
}

func (s *AsynqEventSink) EmitScheduleEventUpserted(ctx context.Context, payload models.ScheduleEventPayload) error {
	task, err := NewScheduleEventTask(payload)
	if err != nil {
		return fmt.Errorf("failed to build schedule event task: %w", err)
	}
	return s.enqueue(ctx, task)
}

func (s *AsynqEventSink) enqueueReservation(ctx context.Context, taskType string, payload models.ReservationEventPayload) error {
	task, err := NewReservationTask(taskType, payload)
	if err != nil {
		return fmt.Errorf("failed to build reservation event task: %w", err)
	}
	return s.enqueue(ctx, task)
}

func (s *AsynqEventSink) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := s.client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", task.Type(), err)
	}
	utils.GetLogger().Debug("event enqueued",
		zap.String("type", task.Type()),
		zap.String("taskId", info.ID),
		zap.String("queue", info.Queue))
	return nil
}
