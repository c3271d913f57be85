package schedule

import (
	"context"

	"arcadehub/models"
)

// Deriver maintains the auto-generated operating-hours events from approved
// reservations. Both reservation hooks are best-effort: failures are logged
// and never propagate to the caller's transaction.
type Deriver interface {
	OnReservationApproved(ctx context.Context, res *models.Reservation)
	OnReservationCancelled(ctx context.Context, res *models.Reservation)
	// ReconcileDate re-runs both derivations for a date, correcting drift.
	ReconcileDate(ctx context.Context, date string) error
}

// Service additionally exposes staff management of schedule events.
type Service interface {
	Deriver
	ListEvents(ctx context.Context, date string) ([]models.ScheduleEvent, error)
	CreateManualEvent(ctx context.Context, event *models.ScheduleEvent) (*models.ScheduleEvent, error)
	DeleteEvent(ctx context.Context, id string) error
}
