package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusApproved  ReservationStatus = "approved"
	StatusCheckedIn ReservationStatus = "checked_in"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusRejected  ReservationStatus = "rejected"
	StatusNoShow    ReservationStatus = "no_show"
)

// activeStatuses are the states that occupy a slot and count toward
// rental limits.
var activeStatuses = []ReservationStatus{StatusPending, StatusApproved, StatusCheckedIn}

// ActiveStatuses returns the statuses considered active for conflict and
// limit purposes.
func ActiveStatuses() []ReservationStatus {
	out := make([]ReservationStatus, len(activeStatuses))
	copy(out, activeStatuses)
	return out
}

// IsActive reports whether the status occupies a slot.
func (s ReservationStatus) IsActive() bool {
	for _, a := range activeStatuses {
		if s == a {
			return true
		}
	}
	return false
}

var statusTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusApproved, StatusRejected, StatusCancelled, StatusNoShow},
	StatusApproved:  {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether moving from s to next is a legal
// lifecycle step. Completed, cancelled, rejected and no_show are terminal.
func (s ReservationStatus) CanTransition(next ReservationStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Reservation is a rental booking record. StartHour and EndHour are stored
// in extended-hour space (6-29) relative to the business date.
type Reservation struct {
	ID             string            `bson:"id" json:"id"`
	UserID         string            `bson:"userId" json:"userId"`
	DeviceID       string            `bson:"deviceId" json:"deviceId"`
	DeviceTypeID   string            `bson:"deviceTypeId" json:"deviceTypeId"`
	Date           string            `bson:"date" json:"date"`
	StartHour      int               `bson:"startHour" json:"startHour"`
	EndHour        int               `bson:"endHour" json:"endHour"`
	Status         ReservationStatus `bson:"status" json:"status"`
	PlayerCount    int               `bson:"playerCount" json:"playerCount"`
	CreditKind     CreditKind        `bson:"creditKind" json:"creditKind"`
	CreditHours    int               `bson:"creditHours" json:"creditHours"`
	TotalPrice     decimal.Decimal   `bson:"totalPrice" json:"totalPrice"`
	IdempotencyKey string            `bson:"idempotencyKey,omitempty" json:"idempotencyKey,omitempty"`
	CreatedAt      time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// Overlaps reports whether two reservations collide in extended-hour
// space. Ranges are half-open, so boundary-adjacent slots do not overlap.
func (r *Reservation) Overlaps(other *Reservation) bool {
	return r.StartHour < other.EndHour && other.StartHour < r.EndHour
}
