// File: database/repository/reservation/interface.go
package reservationRepo

import (
	"context"
	"errors"

	"arcadehub/models"
)

// ErrSlotTaken signals the transactional conflict re-check lost the race.
var ErrSlotTaken = errors.New("slot already reserved")

// Repository is the reservation store consumed by the scheduling engine.
type Repository interface {
	// CreateConflictFree re-checks hour-range overlap against active
	// reservations and inserts inside one transaction, so concurrent
	// requests for the same (device, date) cannot both commit.
	CreateConflictFree(ctx context.Context, res *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Reservation, error)
	FindActiveByDeviceAndDate(ctx context.Context, deviceID, date string) ([]models.Reservation, error)
	FindApprovedByDateAndHourRange(ctx context.Context, date string, startHour, endHour int) ([]models.Reservation, error)
	FindActiveByUser(ctx context.Context, userID string) ([]models.Reservation, error)
	CountActiveByUserAndDeviceType(ctx context.Context, userID, deviceTypeID string) (int, error)
	CountActiveByDeviceTypeAndDate(ctx context.Context, deviceTypeID, date string) (int, error)
	// UpdateStatus transitions a reservation conditionally: the update only
	// applies while the stored status is one of from. Returns the updated
	// document, or mongo.ErrNoDocuments when no transition matched.
	UpdateStatus(ctx context.Context, id string, from []models.ReservationStatus, to models.ReservationStatus) (*models.Reservation, error)
}
