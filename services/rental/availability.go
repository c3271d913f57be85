package rental

import (
	"context"
	"time"

	reservationRepo "arcadehub/database/repository/reservation"
	"arcadehub/models"
	"arcadehub/monitoring"

	"go.uber.org/zap"
)

// AvailabilityChecker answers "is this device free on this date for this
// hour range?" queries against the reservation store.
type AvailabilityChecker interface {
	// CheckAvailability expects the hour range pre-normalized to
	// extended-hour space (6-29); use NormalizeRange on raw caller input.
	CheckAvailability(ctx context.Context, deviceID, date string, startHour, endHour int) (*models.AvailabilityResult, error)
	// Invalidate drops cached results for a (device, date) after any
	// reservation mutation.
	Invalidate(deviceID, date string)
}

// DefaultAvailabilityChecker is the production implementation backed by the
// reservation store plus a short-TTL memo cache.
type DefaultAvailabilityChecker struct {
	Repo   reservationRepo.Repository
	Logger *zap.Logger
	cache  *resultCache
}

// NewAvailabilityChecker wires a checker with the given cache policy. A
// nil clock defaults to time.Now.
func NewAvailabilityChecker(repo reservationRepo.Repository, logger *zap.Logger, ttl time.Duration, cacheSize int, clock func() time.Time) *DefaultAvailabilityChecker {
	return &DefaultAvailabilityChecker{
		Repo:   repo,
		Logger: logger,
		cache:  newResultCache(ttl, cacheSize, clock),
	}
}

func (c *DefaultAvailabilityChecker) CheckAvailability(ctx context.Context, deviceID, date string, startHour, endHour int) (*models.AvailabilityResult, error) {
	if startHour < MinExtendedHour || endHour > MaxExtendedHour || startHour >= endHour {
		return nil, NewValidationError("hour range must be normalized to extended-hour space",
			map[string]any{"startHour": startHour, "endHour": endHour})
	}

	key := cacheKey(deviceID, date, startHour, endHour)
	if cached, ok := c.cache.get(key); ok {
		monitoring.AvailabilityCacheHits.Inc()
		return &cached, nil
	}

	timer := monitoring.NewTimer(monitoring.AvailabilityCheckDuration)
	defer timer.ObserveDuration()

	existing, err := c.Repo.FindActiveByDeviceAndDate(ctx, deviceID, date)
	if err != nil {
		return nil, err
	}

	result := models.AvailabilityResult{Available: true, OccupiedSlots: []models.OccupiedSlot{}}
	for i := range existing {
		res := &existing[i]
		if overlaps(startHour, endHour, res.StartHour, res.EndHour) {
			result.Available = false
			_, startNext := DisplayHour(res.StartHour)
			_, endNext := DisplayHour(res.EndHour)
			result.OccupiedSlots = append(result.OccupiedSlots, models.OccupiedSlot{
				Start:        FormatHour(res.StartHour),
				End:          FormatHour(res.EndHour),
				StartNextDay: startNext,
				EndNextDay:   endNext,
			})
		}
	}

	if result.Available {
		monitoring.AvailabilityChecks.WithLabelValues("available").Inc()
	} else {
		monitoring.AvailabilityChecks.WithLabelValues("conflict").Inc()
		c.Logger.Debug("availability conflict",
			zap.String("deviceId", deviceID),
			zap.String("date", date),
			zap.Int("startHour", startHour),
			zap.Int("endHour", endHour),
			zap.Int("conflicts", len(result.OccupiedSlots)))
	}

	c.cache.set(key, result)
	return &result, nil
}

func (c *DefaultAvailabilityChecker) Invalidate(deviceID, date string) {
	c.cache.invalidate(deviceID, date)
}
