package rental

import (
	"context"

	"arcadehub/models"
)

// CreateReservationRequest carries raw caller input. StartHour and EndHour
// may use the plain 0-23 clock; the service normalizes them.
type CreateReservationRequest struct {
	UserID         string            `json:"userId" binding:"required"`
	DeviceID       string            `json:"deviceId" binding:"required"`
	Date           string            `json:"date" binding:"required"`
	StartHour      int               `json:"startHour"`
	EndHour        int               `json:"endHour"`
	CreditKind     models.CreditKind `json:"creditKind" binding:"required"`
	IsTwoPlayer    bool              `json:"isTwoPlayer"`
	IdempotencyKey string            `json:"idempotencyKey"`
}

// ScheduleDeriver is the post-transition hook maintaining derived
// operating-hours events. Implementations swallow their own failures.
type ScheduleDeriver interface {
	OnReservationApproved(ctx context.Context, res *models.Reservation)
	OnReservationCancelled(ctx context.Context, res *models.Reservation)
}

// Service is the reservation engine's entry point.
type Service interface {
	CreateReservation(ctx context.Context, req CreateReservationRequest) (*models.Reservation, error)
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	Approve(ctx context.Context, id string) (*models.Reservation, error)
	Reject(ctx context.Context, id string) (*models.Reservation, error)
	Cancel(ctx context.Context, id string) (*models.Reservation, error)
	CheckIn(ctx context.Context, id string) (*models.Reservation, error)
	Complete(ctx context.Context, id string) (*models.Reservation, error)
	MarkNoShow(ctx context.Context, id string) (*models.Reservation, error)
}
