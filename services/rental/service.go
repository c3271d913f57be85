package rental

import (
	"context"
	"errors"
	"time"

	catalogRepo "arcadehub/database/repository/catalog"
	reservationRepo "arcadehub/database/repository/reservation"
	timeslotRepo "arcadehub/database/repository/timeslot"
	"arcadehub/models"
	"arcadehub/monitoring"
	"arcadehub/services/events"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultRentalService composes the checker, guard and resolver into the
// booking pipeline: availability, limits, pricing, then atomic admission.
type DefaultRentalService struct {
	Reservations reservationRepo.Repository
	Catalog      catalogRepo.Repository
	Schedules    timeslotRepo.ScheduleRepository
	Templates    timeslotRepo.TemplateRepository
	Checker      AvailabilityChecker
	Guard        LimitGuard
	Pricer       PricingResolver
	Lock         *SlotLock
	Deriver      ScheduleDeriver
	Sink         events.EventSink
	Logger       *zap.Logger
}

func (s *DefaultRentalService) CreateReservation(ctx context.Context, req CreateReservationRequest) (*models.Reservation, error) {
	startHour, endHour, err := NormalizeRange(req.StartHour, req.EndHour)
	if err != nil {
		monitoring.ReservationsCreated.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if req.IdempotencyKey != "" {
		if prior, err := s.Reservations.GetByIdempotencyKey(ctx, req.IdempotencyKey); err == nil {
			s.Logger.Info("reservation replayed from idempotency key",
				zap.String("key", req.IdempotencyKey),
				zap.String("reservationId", prior.ID))
			return prior, nil
		}
	}

	device, err := s.Catalog.GetDevice(ctx, req.DeviceID)
	if err != nil {
		monitoring.ReservationsCreated.WithLabelValues("invalid").Inc()
		return nil, NewNotFoundError("device", req.DeviceID)
	}

	template, err := s.findCoveringTemplate(ctx, req.Date, device.DeviceTypeID, startHour, endHour, req.CreditKind)
	if err != nil {
		monitoring.ReservationsCreated.WithLabelValues("invalid").Inc()
		return nil, err
	}

	report, err := s.Guard.ValidateRentalRequest(ctx, req.UserID, []string{req.DeviceID}, req.Date, req.IsTwoPlayer)
	if err != nil {
		return nil, err
	}
	if !report.IsValid {
		details := map[string]any{"errors": report.Errors, "warnings": report.Warnings}
		if report.LimitExceeded {
			if report.AvailableSlots != nil {
				details["availableSlots"] = *report.AvailableSlots
			}
			monitoring.ReservationsCreated.WithLabelValues("limit_exceeded").Inc()
			return nil, NewLimitExceededError(report.Errors[0], details)
		}
		monitoring.ReservationsCreated.WithLabelValues("invalid").Inc()
		return nil, NewValidationError("rental request rejected", details)
	}

	quote, err := s.Pricer.ResolvePrice(template, req.CreditKind, endHour-startHour, req.IsTwoPlayer)
	if err != nil {
		monitoring.ReservationsCreated.WithLabelValues("invalid").Inc()
		return nil, err
	}

	token, err := s.Lock.Acquire(ctx, req.DeviceID, req.Date)
	if err != nil {
		return nil, err
	}
	if token == "" {
		monitoring.SlotLockContention.Inc()
		return nil, NewConflictError("another booking for this device is in progress, retry shortly",
			map[string]any{"deviceId": req.DeviceID, "date": req.Date})
	}
	defer func() {
		if err := s.Lock.Release(ctx, req.DeviceID, req.Date, token); err != nil {
			s.Logger.Warn("slot lock release failed", zap.Error(err))
		}
	}()

	availability, err := s.Checker.CheckAvailability(ctx, req.DeviceID, req.Date, startHour, endHour)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		monitoring.ReservationsCreated.WithLabelValues("conflict").Inc()
		return nil, NewConflictError("requested hours overlap an existing reservation",
			map[string]any{"occupiedSlots": availability.OccupiedSlots})
	}

	playerCount := 1
	if req.IsTwoPlayer {
		playerCount = 2
	}
	now := time.Now()
	res := &models.Reservation{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		DeviceID:       req.DeviceID,
		DeviceTypeID:   device.DeviceTypeID,
		Date:           req.Date,
		StartHour:      startHour,
		EndHour:        endHour,
		Status:         models.StatusPending,
		PlayerCount:    playerCount,
		CreditKind:     req.CreditKind,
		CreditHours:    endHour - startHour,
		TotalPrice:     quote.Total,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Reservations.CreateConflictFree(ctx, res); err != nil {
		if errors.Is(err, reservationRepo.ErrSlotTaken) {
			monitoring.ReservationsCreated.WithLabelValues("conflict").Inc()
			return nil, NewConflictError("slot was taken by a concurrent booking",
				map[string]any{"deviceId": req.DeviceID, "date": req.Date})
		}
		if mongo.IsDuplicateKeyError(err) && req.IdempotencyKey != "" {
			if prior, lookupErr := s.Reservations.GetByIdempotencyKey(ctx, req.IdempotencyKey); lookupErr == nil {
				return prior, nil
			}
		}
		return nil, err
	}

	s.Checker.Invalidate(req.DeviceID, req.Date)
	monitoring.ReservationsCreated.WithLabelValues("created").Inc()
	s.Logger.Info("reservation created",
		zap.String("id", res.ID),
		zap.String("deviceId", res.DeviceID),
		zap.String("date", res.Date),
		zap.Int("startHour", res.StartHour),
		zap.Int("endHour", res.EndHour),
		zap.String("total", res.TotalPrice.String()))
	return res, nil
}

// findCoveringTemplate resolves the date's bound templates and returns the
// highest-priority one whose window covers the requested range and which
// offers the chosen credit kind.
func (s *DefaultRentalService) findCoveringTemplate(ctx context.Context, date, deviceTypeID string, startHour, endHour int, kind models.CreditKind) (*models.SlotTemplate, error) {
	schedule, err := s.Schedules.GetByDateAndType(ctx, date, deviceTypeID)
	if err != nil {
		return nil, err
	}
	if schedule == nil || len(schedule.TemplateIDs) == 0 {
		return nil, NewNotFoundError("schedule", date+"/"+deviceTypeID)
	}
	templates, err := s.Templates.GetByIDs(ctx, schedule.TemplateIDs)
	if err != nil {
		return nil, err
	}

	var best *models.SlotTemplate
	for i := range templates {
		t := &templates[i]
		if !t.IsActive || !t.Covers(startHour, endHour) || t.Option(kind) == nil {
			continue
		}
		if best == nil || t.Priority > best.Priority {
			best = t
		}
	}
	if best == nil {
		return nil, NewValidationError("no bound template covers the requested hours with this credit option",
			map[string]any{
				"date":       date,
				"startHour":  startHour,
				"endHour":    endHour,
				"creditKind": kind,
			})
	}
	return best, nil
}

func (s *DefaultRentalService) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	res, err := s.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError("reservation", id)
	}
	return res, nil
}

func (s *DefaultRentalService) Approve(ctx context.Context, id string) (*models.Reservation, error) {
	current, err := s.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError("reservation", id)
	}
	if current.Status == models.StatusApproved {
		// Re-approval is harmless; the derivation upsert is keyed by
		// (date, type) so no duplicate event can appear.
		s.Deriver.OnReservationApproved(ctx, current)
		return current, nil
	}

	res, err := s.transition(ctx, current, models.StatusApproved)
	if err != nil {
		return nil, err
	}

	payload := reservationPayload(res)
	if err := s.Sink.EmitReservationApproved(ctx, payload); err != nil {
		s.Logger.Warn("failed to emit approval event", zap.Error(err))
	}
	s.Deriver.OnReservationApproved(ctx, res)
	return res, nil
}

func (s *DefaultRentalService) Reject(ctx context.Context, id string) (*models.Reservation, error) {
	current, err := s.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError("reservation", id)
	}
	res, err := s.transition(ctx, current, models.StatusRejected)
	if err != nil {
		return nil, err
	}
	s.Checker.Invalidate(res.DeviceID, res.Date)
	return res, nil
}

func (s *DefaultRentalService) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	current, err := s.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError("reservation", id)
	}
	wasApproved := current.Status == models.StatusApproved || current.Status == models.StatusCheckedIn

	res, err := s.transition(ctx, current, models.StatusCancelled)
	if err != nil {
		return nil, err
	}

	// The freed slot must be visible to availability checks immediately.
	s.Checker.Invalidate(res.DeviceID, res.Date)

	payload := reservationPayload(res)
	if err := s.Sink.EmitReservationCancelled(ctx, payload); err != nil {
		s.Logger.Warn("failed to emit cancellation event", zap.Error(err))
	}
	if wasApproved {
		// Full recompute: the cancelled reservation may have anchored a
		// derived schedule event.
		s.Deriver.OnReservationCancelled(ctx, res)
	}
	return res, nil
}

func (s *DefaultRentalService) CheckIn(ctx context.Context, id string) (*models.Reservation, error) {
	current, err := s.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError("reservation", id)
	}
	return s.transition(ctx, current, models.StatusCheckedIn)
}

func (s *DefaultRentalService) Complete(ctx context.Context, id string) (*models.Reservation, error) {
	current, err := s.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError("reservation", id)
	}
	res, err := s.transition(ctx, current, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	s.Checker.Invalidate(res.DeviceID, res.Date)
	return res, nil
}

func (s *DefaultRentalService) MarkNoShow(ctx context.Context, id string) (*models.Reservation, error) {
	current, err := s.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, NewNotFoundError("reservation", id)
	}
	wasApproved := current.Status == models.StatusApproved

	res, err := s.transition(ctx, current, models.StatusNoShow)
	if err != nil {
		return nil, err
	}
	s.Checker.Invalidate(res.DeviceID, res.Date)
	if wasApproved {
		s.Deriver.OnReservationCancelled(ctx, res)
	}
	return res, nil
}

// transition applies a conditional status update. The store-side from
// filter makes the step race-safe: a concurrent transition loses and gets
// InvalidStatusTransitionError.
func (s *DefaultRentalService) transition(ctx context.Context, current *models.Reservation, to models.ReservationStatus) (*models.Reservation, error) {
	if !current.Status.CanTransition(to) {
		return nil, NewInvalidTransitionError(string(current.Status), string(to))
	}

	res, err := s.Reservations.UpdateStatus(ctx, current.ID, []models.ReservationStatus{current.Status}, to)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewInvalidTransitionError(string(current.Status), string(to))
		}
		return nil, err
	}

	monitoring.ReservationTransitions.WithLabelValues(string(current.Status), string(to)).Inc()
	s.Logger.Info("reservation transitioned",
		zap.String("id", res.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(to)))
	return res, nil
}

func reservationPayload(res *models.Reservation) models.ReservationEventPayload {
	return models.ReservationEventPayload{
		ReservationID: res.ID,
		UserID:        res.UserID,
		DeviceID:      res.DeviceID,
		DeviceTypeID:  res.DeviceTypeID,
		Date:          res.Date,
		StartHour:     res.StartHour,
		EndHour:       res.EndHour,
		OccurredAt:    time.Now(),
	}
}
