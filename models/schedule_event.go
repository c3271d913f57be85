package models

import "time"

// ScheduleEventType classifies derived operating-hours entries.
type ScheduleEventType string

const (
	EventEarlyOpen ScheduleEventType = "early_open"
	EventOvernight ScheduleEventType = "overnight"
)

// ScheduleEvent is an operating-hours entry for a business date. At most
// one event exists per (date, type). Auto-generated events are recomputed
// from approved reservations; a manual event permanently blocks automatic
// overwrite until staff delete it.
type ScheduleEvent struct {
	ID                 string            `bson:"id" json:"id"`
	Date               string            `bson:"date" json:"date"`
	Title              string            `bson:"title" json:"title"`
	Type               ScheduleEventType `bson:"type" json:"type"`
	StartTime          string            `bson:"startTime" json:"startTime"` // "HH:MM"
	EndTime            string            `bson:"endTime" json:"endTime"`     // "HH:MM"
	IsAutoGenerated    bool              `bson:"isAutoGenerated" json:"isAutoGenerated"`
	SourceReference    string            `bson:"sourceReference,omitempty" json:"sourceReference,omitempty"`
	AffectsReservation bool              `bson:"affectsReservation" json:"affectsReservation"`
	CreatedAt          time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time         `bson:"updatedAt" json:"updatedAt"`
}
