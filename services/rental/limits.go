package rental

import (
	"context"
	"fmt"

	"arcadehub/config"
	catalogRepo "arcadehub/database/repository/catalog"
	reservationRepo "arcadehub/database/repository/reservation"
	"arcadehub/models"

	"go.uber.org/zap"
)

// maimaiCategory is the catalog category the hard per-user cap applies to.
const maimaiCategory = "maimai"

// LimitGuard enforces per-user rental ceilings and two-player eligibility.
type LimitGuard interface {
	// ValidateRentalRequest checks every rule and returns the full report.
	// Errors are collected, not short-circuited; warnings never block.
	ValidateRentalRequest(ctx context.Context, userID string, deviceIDs []string, date string, isTwoPlayer bool) (*models.ValidationReport, error)
	// GetUserRentalStatus summarizes a user's active rentals per device type.
	GetUserRentalStatus(ctx context.Context, userID string) (*models.RentalStatus, error)
}

// DefaultLimitGuard is the production implementation over the reservation
// store and the device catalog.
type DefaultLimitGuard struct {
	Reservations reservationRepo.Repository
	Catalog      catalogRepo.Repository
	Logger       *zap.Logger
}

func NewLimitGuard(reservations reservationRepo.Repository, catalog catalogRepo.Repository, logger *zap.Logger) *DefaultLimitGuard {
	return &DefaultLimitGuard{Reservations: reservations, Catalog: catalog, Logger: logger}
}

// typeGroup is one device type's share of a rental request.
type typeGroup struct {
	deviceType *models.DeviceType
	units      int
}

func (g *DefaultLimitGuard) ValidateRentalRequest(ctx context.Context, userID string, deviceIDs []string, date string, isTwoPlayer bool) (*models.ValidationReport, error) {
	report := &models.ValidationReport{IsValid: true}
	if len(deviceIDs) == 0 {
		report.IsValid = false
		report.Errors = append(report.Errors, "at least one device must be requested")
		return report, nil
	}

	groups, err := g.groupByDeviceType(ctx, deviceIDs, report)
	if err != nil {
		return nil, err
	}

	var maimaiGroups []*typeGroup
	maimaiUnits := 0
	for _, grp := range groups {
		if grp.deviceType.Category == maimaiCategory {
			maimaiGroups = append(maimaiGroups, grp)
			maimaiUnits += grp.units
		}
	}

	if maimaiUnits > 0 {
		if err := g.checkMaimaiCap(ctx, userID, maimaiGroups, maimaiUnits, report); err != nil {
			return nil, err
		}
	}

	if isTwoPlayer && maimaiUnits != 1 {
		report.IsValid = false
		report.Errors = append(report.Errors, "2인 플레이는 maimai 기기 1대에서만 가능합니다")
	}

	for _, grp := range groups {
		if grp.deviceType.Category == maimaiCategory {
			continue
		}
		if err := g.checkRentalLimit(ctx, userID, grp, report); err != nil {
			return nil, err
		}
	}

	// Availability is re-verified by the checker at booking time, so unit
	// shortage on the requested date only warns.
	for _, grp := range groups {
		if err := g.warnOnUnitShortage(ctx, grp, date, report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// groupByDeviceType resolves each requested device and tallies units per
// type. Unknown or unrentable devices become report errors, not lookups
// failures, so the caller still receives the rest of the report.
func (g *DefaultLimitGuard) groupByDeviceType(ctx context.Context, deviceIDs []string, report *models.ValidationReport) (map[string]*typeGroup, error) {
	groups := make(map[string]*typeGroup)
	for _, id := range deviceIDs {
		device, err := g.Catalog.GetDevice(ctx, id)
		if err != nil {
			report.IsValid = false
			report.Errors = append(report.Errors, fmt.Sprintf("device %s not found", id))
			continue
		}
		if !device.IsRentable() {
			report.IsValid = false
			report.Errors = append(report.Errors, fmt.Sprintf("device %s is not rentable (status %s)", id, device.Status))
			continue
		}
		grp, ok := groups[device.DeviceTypeID]
		if !ok {
			dt, err := g.Catalog.GetDeviceType(ctx, device.DeviceTypeID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve device type %s: %w", device.DeviceTypeID, err)
			}
			grp = &typeGroup{deviceType: dt}
			groups[device.DeviceTypeID] = grp
		}
		grp.units++
	}
	return groups, nil
}

// checkMaimaiCap enforces the hard per-user ceiling on active maimai
// rentals, counted across all dates.
func (g *DefaultLimitGuard) checkMaimaiCap(ctx context.Context, userID string, groups []*typeGroup, requestedUnits int, report *models.ValidationReport) error {
	max := config.AppConfig.MaimaiMaxRentals
	current := 0
	for _, grp := range groups {
		n, err := g.Reservations.CountActiveByUserAndDeviceType(ctx, userID, grp.deviceType.ID)
		if err != nil {
			return err
		}
		current += n
	}
	if current+requestedUnits > max {
		available := max - current
		if available < 0 {
			available = 0
		}
		report.IsValid = false
		report.LimitExceeded = true
		report.AvailableSlots = &available
		report.Errors = append(report.Errors, fmt.Sprintf(
			"maimai rental limit exceeded: %d active, %d requested, %d of %d available",
			current, requestedUnits, available, max))
	}
	return nil
}

// checkRentalLimit applies per-category caps configured for non-maimai
// device types. Categories without a configured cap pass unconditionally.
func (g *DefaultLimitGuard) checkRentalLimit(ctx context.Context, userID string, grp *typeGroup, report *models.ValidationReport) error {
	cap, ok := config.AppConfig.RentalCaps[grp.deviceType.Category]
	if !ok {
		return nil
	}
	current, err := g.Reservations.CountActiveByUserAndDeviceType(ctx, userID, grp.deviceType.ID)
	if err != nil {
		return err
	}
	if current+grp.units > cap {
		available := cap - current
		if available < 0 {
			available = 0
		}
		report.IsValid = false
		report.LimitExceeded = true
		if report.AvailableSlots == nil {
			report.AvailableSlots = &available
		}
		report.Errors = append(report.Errors, fmt.Sprintf(
			"%s rental limit exceeded: %d active, %d requested, cap %d",
			grp.deviceType.Category, current, grp.units, cap))
	}
	return nil
}

func (g *DefaultLimitGuard) warnOnUnitShortage(ctx context.Context, grp *typeGroup, date string, report *models.ValidationReport) error {
	total, err := g.Catalog.CountActiveUnits(ctx, grp.deviceType.ID)
	if err != nil {
		return err
	}
	reserved, err := g.Reservations.CountActiveByDeviceTypeAndDate(ctx, grp.deviceType.ID, date)
	if err != nil {
		return err
	}
	free := total - int64(reserved)
	if free < 0 {
		free = 0
	}
	if int64(grp.units) > free {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"only %d %s unit(s) may remain free on %s for %d requested",
			free, grp.deviceType.Name, date, grp.units))
	}
	return nil
}

func (g *DefaultLimitGuard) GetUserRentalStatus(ctx context.Context, userID string) (*models.RentalStatus, error) {
	active, err := g.Reservations.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	names := make(map[string]string)
	for i := range active {
		dt, err := g.Catalog.GetDeviceType(ctx, active[i].DeviceTypeID)
		if err != nil {
			continue
		}
		counts[dt.Category]++
		names[dt.Category] = dt.Name
	}

	status := &models.RentalStatus{CanRentMore: true, Rentals: []models.RentalStatusEntry{}}
	for category, count := range counts {
		entry := models.RentalStatusEntry{DeviceType: names[category], CurrentCount: count}
		max, capped := g.categoryCap(category)
		if capped {
			entry.MaxAllowed = &max
			if count >= max {
				status.CanRentMore = false
			}
		}
		status.Rentals = append(status.Rentals, entry)
	}
	return status, nil
}

func (g *DefaultLimitGuard) categoryCap(category string) (int, bool) {
	if category == maimaiCategory {
		return config.AppConfig.MaimaiMaxRentals, true
	}
	cap, ok := config.AppConfig.RentalCaps[category]
	return cap, ok
}
