package scheduleEventRepo

import (
	"context"
	"errors"

	"arcadehub/models"
)

// ErrManualExists is returned when an auto upsert targets a (date, type)
// already claimed by a manually created event.
var ErrManualExists = errors.New("manual schedule event exists for date and type")

// Repository stores derived and manual operating-hours events, keyed by
// (date, type).
type Repository interface {
	// UpsertAuto inserts or updates the auto-generated event for the
	// payload's (date, type). It fails with ErrManualExists when a manual
	// event occupies the key; manual events are never overwritten.
	UpsertAuto(ctx context.Context, event *models.ScheduleEvent) (*models.ScheduleEvent, error)
	GetByDateAndType(ctx context.Context, date string, eventType models.ScheduleEventType) (*models.ScheduleEvent, error)
	ListByDate(ctx context.Context, date string) ([]models.ScheduleEvent, error)
	// CreateManual inserts a staff-authored event, which permanently blocks
	// auto derivation for its (date, type) until deleted.
	CreateManual(ctx context.Context, event *models.ScheduleEvent) error
	Delete(ctx context.Context, id string) error
}
