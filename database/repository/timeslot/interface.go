package timeslotRepo

import (
	"context"
	"errors"

	"arcadehub/models"
)

// ErrDuplicateName is returned when a template name is already taken.
var ErrDuplicateName = errors.New("template name already in use")

// TemplateRepository stores reusable slot templates.
type TemplateRepository interface {
	Create(ctx context.Context, template *models.SlotTemplate) error
	GetByID(ctx context.Context, id string) (*models.SlotTemplate, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.SlotTemplate, error)
	List(ctx context.Context, filter models.TemplateFilter) ([]models.SlotTemplate, error)
	Update(ctx context.Context, template *models.SlotTemplate) error
	Delete(ctx context.Context, id string) error
}

// ScheduleRepository stores template bindings per (date, deviceType).
type ScheduleRepository interface {
	// ReplaceBinding swaps the full template set for (date, deviceTypeID)
	// atomically and returns the stored schedule.
	ReplaceBinding(ctx context.Context, date, deviceTypeID string, templateIDs []string) (*models.SlotSchedule, error)
	GetByDateAndType(ctx context.Context, date, deviceTypeID string) (*models.SlotSchedule, error)
	ListByDateRange(ctx context.Context, fromDate, toDate string) ([]models.SlotSchedule, error)
	// CountFutureReferencing counts schedules on or after fromDate that
	// reference the template. Guards template deletion.
	CountFutureReferencing(ctx context.Context, templateID, fromDate string) (int64, error)
}
