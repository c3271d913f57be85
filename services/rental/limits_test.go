package rental

import (
	"context"
	"testing"

	"arcadehub/config"
	"arcadehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGuard(repo *fakeReservationRepo, catalog *fakeCatalog) *DefaultLimitGuard {
	config.AppConfig.MaimaiMaxRentals = 3
	config.AppConfig.RentalCaps = map[string]int{"rhythm": 2}
	return NewLimitGuard(repo, catalog, zap.NewNop())
}

func maimaiSetup() (*fakeReservationRepo, *fakeCatalog) {
	repo := newFakeReservationRepo()
	catalog := newFakeCatalog()
	catalog.addType("type-maimai", "maimai", 4)
	for _, id := range []string{"m1", "m2", "m3", "m4"} {
		catalog.addDevice(id, "type-maimai")
	}
	return repo, catalog
}

func maimaiReservation(id, userID, deviceID string) models.Reservation {
	return models.Reservation{
		ID:           id,
		UserID:       userID,
		DeviceID:     deviceID,
		DeviceTypeID: "type-maimai",
		Date:         "2026-09-01",
		StartHour:    14,
		EndHour:      16,
		Status:       models.StatusApproved,
	}
}

func TestValidateRentalRequestWithinCap(t *testing.T) {
	repo, catalog := maimaiSetup()
	guard := newTestGuard(repo, catalog)

	report, err := guard.ValidateRentalRequest(context.Background(), "user-1", []string{"m1"}, "2026-09-01", false)
	require.NoError(t, err)
	assert.True(t, report.IsValid)
	assert.Empty(t, report.Errors)
}

func TestValidateRentalRequestMaimaiCapExceeded(t *testing.T) {
	repo, catalog := maimaiSetup()
	guard := newTestGuard(repo, catalog)

	repo.add(maimaiReservation("r1", "user-1", "m1"))
	repo.add(maimaiReservation("r2", "user-1", "m2"))
	repo.add(maimaiReservation("r3", "user-1", "m3"))

	report, err := guard.ValidateRentalRequest(context.Background(), "user-1", []string{"m4"}, "2026-09-01", false)
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.True(t, report.LimitExceeded)
	require.NotNil(t, report.AvailableSlots)
	assert.Equal(t, 0, *report.AvailableSlots)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "maimai rental limit exceeded")
}

func TestValidateRentalRequestTwoPlayerNeedsSingleUnit(t *testing.T) {
	repo, catalog := maimaiSetup()
	guard := newTestGuard(repo, catalog)

	report, err := guard.ValidateRentalRequest(context.Background(), "user-1", []string{"m1", "m2"}, "2026-09-01", true)
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.Contains(t, report.Errors, "2인 플레이는 maimai 기기 1대에서만 가능합니다")
}

func TestValidateRentalRequestTwoPlayerSingleUnitOK(t *testing.T) {
	repo, catalog := maimaiSetup()
	guard := newTestGuard(repo, catalog)

	report, err := guard.ValidateRentalRequest(context.Background(), "user-1", []string{"m1"}, "2026-09-01", true)
	require.NoError(t, err)
	assert.True(t, report.IsValid)
}

func TestValidateRentalRequestCollectsAllErrors(t *testing.T) {
	repo, catalog := maimaiSetup()
	guard := newTestGuard(repo, catalog)

	repo.add(maimaiReservation("r1", "user-1", "m1"))
	repo.add(maimaiReservation("r2", "user-1", "m2"))
	repo.add(maimaiReservation("r3", "user-1", "m3"))

	// Unknown device, cap violation and 2P violation arrive in one report.
	report, err := guard.ValidateRentalRequest(context.Background(), "user-1", []string{"m4", "m3", "unknown"}, "2026-09-01", true)
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.Len(t, report.Errors, 3)
}

func TestValidateRentalRequestUnitShortageWarns(t *testing.T) {
	repo := newFakeReservationRepo()
	catalog := newFakeCatalog()
	catalog.addType("type-maimai", "maimai", 1)
	catalog.addDevice("m1", "type-maimai")
	guard := newTestGuard(repo, catalog)

	// Another user already holds the only unit on the date.
	repo.add(maimaiReservation("r1", "user-2", "m1"))

	report, err := guard.ValidateRentalRequest(context.Background(), "user-1", []string{"m1"}, "2026-09-01", false)
	require.NoError(t, err)
	// Shortage warns but never blocks; availability is checked separately.
	assert.True(t, report.IsValid)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "remain free")
}

func TestValidateRentalRequestCategoryCap(t *testing.T) {
	repo := newFakeReservationRepo()
	catalog := newFakeCatalog()
	catalog.addType("type-rhythm", "rhythm", 5)
	catalog.addDevice("g1", "type-rhythm")
	catalog.addDevice("g2", "type-rhythm")
	catalog.addDevice("g3", "type-rhythm")
	guard := newTestGuard(repo, catalog)

	res := maimaiReservation("r1", "user-1", "g1")
	res.DeviceTypeID = "type-rhythm"
	repo.add(res)
	res2 := maimaiReservation("r2", "user-1", "g2")
	res2.DeviceTypeID = "type-rhythm"
	repo.add(res2)

	report, err := guard.ValidateRentalRequest(context.Background(), "user-1", []string{"g3"}, "2026-09-01", false)
	require.NoError(t, err)
	assert.False(t, report.IsValid)
	assert.Contains(t, report.Errors[0], "rhythm rental limit exceeded")
}

func TestGetUserRentalStatus(t *testing.T) {
	repo, catalog := maimaiSetup()
	guard := newTestGuard(repo, catalog)

	repo.add(maimaiReservation("r1", "user-1", "m1"))
	repo.add(maimaiReservation("r2", "user-1", "m2"))
	repo.add(maimaiReservation("r3", "user-1", "m3"))

	status, err := guard.GetUserRentalStatus(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, status.Rentals, 1)
	assert.Equal(t, 3, status.Rentals[0].CurrentCount)
	require.NotNil(t, status.Rentals[0].MaxAllowed)
	assert.Equal(t, 3, *status.Rentals[0].MaxAllowed)
	assert.False(t, status.CanRentMore)
}
