package events

import (
	"encoding/json"

	"arcadehub/models"

	"github.com/hibiken/asynq"
)

// Task type names for the async event queue.
const (
	TypeReservationApproved   = "event:reservation_approved"
	TypeReservationCancelled  = "event:reservation_cancelled"
	TypeScheduleEventUpserted = "event:schedule_event_upserted"
)

// taskTypeToEvent maps queue task types to the public event names fanned
// out on the realtime channel.
var taskTypeToEvent = map[string]string{
	TypeReservationApproved:   models.EventReservationApproved,
	TypeReservationCancelled:  models.EventReservationCancelled,
	TypeScheduleEventUpserted: models.EventScheduleEventUpserted,
}

func NewReservationTask(taskType string, payload models.ReservationEventPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, b), nil
}

func NewScheduleEventTask(payload models.ScheduleEventPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeScheduleEventUpserted, b), nil
}

// EventNameFor returns the public event name for a queue task type.
func EventNameFor(taskType string) string {
	return taskTypeToEvent[taskType]
}
