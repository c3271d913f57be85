package models

import "time"

// Engine event names consumed by the realtime/notification layer.
const (
	EventReservationApproved   = "ReservationApproved"
	EventReservationCancelled  = "ReservationCancelled"
	EventScheduleEventUpserted = "ScheduleEventUpserted"
)

// ReservationEventPayload carries enough data for downstream SSE/alerting
// without a second lookup.
type ReservationEventPayload struct {
	ReservationID string    `json:"reservationId"`
	UserID        string    `json:"userId"`
	DeviceID      string    `json:"deviceId"`
	DeviceTypeID  string    `json:"deviceTypeId"`
	Date          string    `json:"date"`
	StartHour     int       `json:"startHour"`
	EndHour       int       `json:"endHour"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// ScheduleEventPayload announces a derived or updated operating-hours entry.
type ScheduleEventPayload struct {
	Date            string            `json:"date"`
	Type            ScheduleEventType `json:"type"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	SourceReference string            `json:"sourceReference,omitempty"`
	OccurredAt      time.Time         `json:"occurredAt"`
}
