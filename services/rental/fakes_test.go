package rental

import (
	"context"
	"fmt"
	"sync"

	"arcadehub/models"

	reservationRepo "arcadehub/database/repository/reservation"

	"go.mongodb.org/mongo-driver/mongo"
)

// fakeReservationRepo is an in-memory reservationRepo.Repository.
type fakeReservationRepo struct {
	mu    sync.Mutex
	items map[string]*models.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{items: make(map[string]*models.Reservation)}
}

func (f *fakeReservationRepo) add(res models.Reservation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[res.ID] = &res
}

func (f *fakeReservationRepo) CreateConflictFree(ctx context.Context, res *models.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.DeviceID == res.DeviceID && existing.Date == res.Date &&
			existing.Status.IsActive() && existing.Overlaps(res) {
			return reservationRepo.ErrSlotTaken
		}
	}
	clone := *res
	f.items[res.ID] = &clone
	return nil
}

func (f *fakeReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.items[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	clone := *res
	return &clone, nil
}

func (f *fakeReservationRepo) GetByIdempotencyKey(ctx context.Context, key string) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, res := range f.items {
		if res.IdempotencyKey == key {
			clone := *res
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeReservationRepo) FindActiveByDeviceAndDate(ctx context.Context, deviceID, date string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.items {
		if res.DeviceID == deviceID && res.Date == date && res.Status.IsActive() {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindApprovedByDateAndHourRange(ctx context.Context, date string, startHour, endHour int) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.items {
		if res.Date == date && res.Status == models.StatusApproved &&
			res.StartHour >= startHour && res.StartHour < endHour {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) FindActiveByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Reservation
	for _, res := range f.items {
		if res.UserID == userID && res.Status.IsActive() {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) CountActiveByUserAndDeviceType(ctx context.Context, userID, deviceTypeID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, res := range f.items {
		if res.UserID == userID && res.DeviceTypeID == deviceTypeID && res.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

func (f *fakeReservationRepo) CountActiveByDeviceTypeAndDate(ctx context.Context, deviceTypeID, date string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, res := range f.items {
		if res.DeviceTypeID == deviceTypeID && res.Date == date && res.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

func (f *fakeReservationRepo) UpdateStatus(ctx context.Context, id string, from []models.ReservationStatus, to models.ReservationStatus) (*models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.items[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	for _, s := range from {
		if res.Status == s {
			res.Status = to
			clone := *res
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// fakeCatalog is an in-memory catalogRepo.Repository.
type fakeCatalog struct {
	devices map[string]models.Device
	types   map[string]models.DeviceType
	units   map[string]int64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		devices: make(map[string]models.Device),
		types:   make(map[string]models.DeviceType),
		units:   make(map[string]int64),
	}
}

func (f *fakeCatalog) addType(id, category string, units int64) {
	f.types[id] = models.DeviceType{ID: id, Name: category, Category: category, IsActive: true}
	f.units[id] = units
}

func (f *fakeCatalog) addDevice(id, typeID string) {
	f.devices[id] = models.Device{ID: id, DeviceTypeID: typeID, Status: models.DeviceAvailable}
}

func (f *fakeCatalog) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	d, ok := f.devices[id]
	if !ok {
		return nil, fmt.Errorf("device %s not found", id)
	}
	return &d, nil
}

func (f *fakeCatalog) GetDeviceType(ctx context.Context, id string) (*models.DeviceType, error) {
	dt, ok := f.types[id]
	if !ok {
		return nil, fmt.Errorf("device type %s not found", id)
	}
	return &dt, nil
}

func (f *fakeCatalog) ListDevicesByType(ctx context.Context, deviceTypeID string) ([]models.Device, error) {
	var out []models.Device
	for _, d := range f.devices {
		if d.DeviceTypeID == deviceTypeID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeCatalog) CountActiveUnits(ctx context.Context, deviceTypeID string) (int64, error) {
	return f.units[deviceTypeID], nil
}
