package timeslot

import (
	"context"

	"arcadehub/models"
)

// Service manages the template catalog and per-date bindings.
type Service interface {
	// CreateTemplate validates and stores a new slot template.
	CreateTemplate(ctx context.Context, template *models.SlotTemplate) (*models.SlotTemplate, error)
	ListTemplates(ctx context.Context, filter models.TemplateFilter) ([]models.SlotTemplate, error)
	UpdateTemplate(ctx context.Context, template *models.SlotTemplate) (*models.SlotTemplate, error)
	// DeleteTemplate refuses while any schedule on or after today still
	// references the template.
	DeleteTemplate(ctx context.Context, id string) error
	// ToggleTemplateActive flips the active flag, removing the template
	// from future bindings without deleting it.
	ToggleTemplateActive(ctx context.Context, id string) (*models.SlotTemplate, error)

	// BindTemplates replaces the template set for (date, deviceType)
	// after checking the set is internally conflict-free.
	BindTemplates(ctx context.Context, date, deviceTypeID string, templateIDs []string) (*models.SlotSchedule, error)
	// BindTemplatesRange applies the binding to every recurrence date in
	// [fromDate, toDate], validating the set once. An empty repeat kind
	// means daily.
	BindTemplatesRange(ctx context.Context, fromDate, toDate, deviceTypeID string, templateIDs []string, repeat models.RepeatKind) ([]models.SlotSchedule, error)
	GetSchedule(ctx context.Context, date, deviceTypeID string) (*models.SlotSchedule, error)
	ListSchedules(ctx context.Context, fromDate, toDate string) ([]models.SlotSchedule, error)
}
