package schedule

import (
	"context"
	"errors"
	"time"

	reservationRepo "arcadehub/database/repository/reservation"
	scheduleEventRepo "arcadehub/database/repository/scheduleevent"
	"arcadehub/models"
	"arcadehub/monitoring"
	"arcadehub/services/events"
	"arcadehub/services/rental"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Derivation windows in extended-hour space. A reservation starting before
// noon anchors early opening; one starting 22:00 or later (including the
// 24-29 overnight hours) anchors the overnight closing.
const (
	earlyWindowStart = 6
	earlyWindowEnd   = 12
	overnightStart   = 22
)

// Defaults used when only one boundary is derived from reservations.
const (
	defaultEarlyEnd       = "12:00"
	defaultOvernightStart = "22:00"
)

// DefaultDeriver is the production Service implementation.
type DefaultDeriver struct {
	Reservations reservationRepo.Repository
	Events       scheduleEventRepo.Repository
	Sink         events.EventSink
	Logger       *zap.Logger
}

func NewDeriver(reservations reservationRepo.Repository, eventsRepo scheduleEventRepo.Repository, sink events.EventSink, logger *zap.Logger) *DefaultDeriver {
	return &DefaultDeriver{Reservations: reservations, Events: eventsRepo, Sink: sink, Logger: logger}
}

// classify maps a reservation start hour to the event type it can anchor.
func classify(startHour int) (models.ScheduleEventType, bool) {
	switch {
	case startHour >= earlyWindowStart && startHour < earlyWindowEnd:
		return models.EventEarlyOpen, true
	case startHour >= overnightStart:
		return models.EventOvernight, true
	default:
		return "", false
	}
}

func (d *DefaultDeriver) OnReservationApproved(ctx context.Context, res *models.Reservation) {
	d.deriveFor(ctx, res)
}

// OnReservationCancelled recomputes rather than decrements: the cancelled
// reservation may have been the anchor, and the new anchor is a different
// reservation.
func (d *DefaultDeriver) OnReservationCancelled(ctx context.Context, res *models.Reservation) {
	d.deriveFor(ctx, res)
}

func (d *DefaultDeriver) deriveFor(ctx context.Context, res *models.Reservation) {
	eventType, ok := classify(res.StartHour)
	if !ok {
		return
	}
	if err := d.derive(ctx, res.Date, eventType); err != nil {
		monitoring.ScheduleDerivations.WithLabelValues(string(eventType), "error").Inc()
		d.Logger.Error("schedule derivation failed",
			zap.String("date", res.Date),
			zap.String("type", string(eventType)),
			zap.String("reservationId", res.ID),
			zap.Error(err))
		return
	}
	monitoring.ScheduleDerivations.WithLabelValues(string(eventType), "ok").Inc()
}

func (d *DefaultDeriver) ReconcileDate(ctx context.Context, date string) error {
	var errs []error
	for _, eventType := range []models.ScheduleEventType{models.EventEarlyOpen, models.EventOvernight} {
		if err := d.derive(ctx, date, eventType); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// derive is always a full recompute over the date's approved reservations.
func (d *DefaultDeriver) derive(ctx context.Context, date string, eventType models.ScheduleEventType) error {
	existing, err := d.Events.GetByDateAndType(ctx, date, eventType)
	if err != nil {
		return rental.NewDerivationError("failed to load existing event", err)
	}
	if existing != nil && !existing.IsAutoGenerated {
		d.Logger.Info("manual schedule event takes precedence, skipping derivation",
			zap.String("date", date),
			zap.String("type", string(eventType)))
		return nil
	}

	event, err := d.computeEvent(ctx, date, eventType)
	if err != nil {
		return err
	}
	if event == nil {
		// No qualifying reservations. An existing auto event is left in
		// place; reconciliation or staff remove it explicitly.
		return nil
	}

	saved, err := d.Events.UpsertAuto(ctx, event)
	if err != nil {
		if errors.Is(err, scheduleEventRepo.ErrManualExists) {
			d.Logger.Info("manual schedule event takes precedence, skipping derivation",
				zap.String("date", date),
				zap.String("type", string(eventType)))
			return nil
		}
		return rental.NewDerivationError("failed to upsert derived event", err)
	}

	d.Logger.Info("schedule event derived",
		zap.String("date", date),
		zap.String("type", string(eventType)),
		zap.String("startTime", saved.StartTime),
		zap.String("endTime", saved.EndTime))

	payload := models.ScheduleEventPayload{
		Date:            saved.Date,
		Type:            saved.Type,
		StartTime:       saved.StartTime,
		EndTime:         saved.EndTime,
		SourceReference: saved.SourceReference,
		OccurredAt:      time.Now(),
	}
	if err := d.Sink.EmitScheduleEventUpserted(ctx, payload); err != nil {
		d.Logger.Warn("failed to emit schedule event", zap.Error(err))
	}
	return nil
}

// computeEvent returns nil when no qualifying reservations exist.
func (d *DefaultDeriver) computeEvent(ctx context.Context, date string, eventType models.ScheduleEventType) (*models.ScheduleEvent, error) {
	var qualifying []models.Reservation
	var err error
	if eventType == models.EventEarlyOpen {
		qualifying, err = d.Reservations.FindApprovedByDateAndHourRange(ctx, date, earlyWindowStart, earlyWindowEnd)
	} else {
		qualifying, err = d.Reservations.FindApprovedByDateAndHourRange(ctx, date, overnightStart, rental.MaxExtendedHour)
	}
	if err != nil {
		return nil, rental.NewDerivationError("failed to load qualifying reservations", err)
	}
	if len(qualifying) == 0 {
		return nil, nil
	}

	event := &models.ScheduleEvent{
		Date:               date,
		Type:               eventType,
		IsAutoGenerated:    true,
		AffectsReservation: true,
	}
	// SourceReference names the anchor: the reservation whose boundary
	// the derived time reflects.
	if eventType == models.EventEarlyOpen {
		anchor := &qualifying[0]
		for i := range qualifying {
			if qualifying[i].StartHour < anchor.StartHour {
				anchor = &qualifying[i]
			}
		}
		event.Title = "Early opening"
		event.StartTime = rental.FormatHour(anchor.StartHour)
		event.EndTime = defaultEarlyEnd
		event.SourceReference = anchor.ID
	} else {
		anchor := &qualifying[0]
		for i := range qualifying {
			if qualifying[i].EndHour > anchor.EndHour {
				anchor = &qualifying[i]
			}
		}
		event.Title = "Overnight operation"
		event.StartTime = defaultOvernightStart
		event.EndTime = rental.FormatHour(anchor.EndHour)
		event.SourceReference = anchor.ID
	}
	return event, nil
}

func (d *DefaultDeriver) ListEvents(ctx context.Context, date string) ([]models.ScheduleEvent, error) {
	return d.Events.ListByDate(ctx, date)
}

func (d *DefaultDeriver) CreateManualEvent(ctx context.Context, event *models.ScheduleEvent) (*models.ScheduleEvent, error) {
	if event.Date == "" || event.StartTime == "" || event.EndTime == "" {
		return nil, rental.NewValidationError("date, startTime and endTime are required", nil)
	}
	if event.Type != models.EventEarlyOpen && event.Type != models.EventOvernight {
		return nil, rental.NewValidationError("unknown schedule event type",
			map[string]any{"type": event.Type})
	}
	if err := d.Events.CreateManual(ctx, event); err != nil {
		return nil, err
	}
	d.Logger.Info("manual schedule event created",
		zap.String("date", event.Date),
		zap.String("type", string(event.Type)))
	return event, nil
}

func (d *DefaultDeriver) DeleteEvent(ctx context.Context, id string) error {
	if err := d.Events.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return rental.NewNotFoundError("schedule event", id)
		}
		return err
	}
	return nil
}
