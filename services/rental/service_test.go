package rental

import (
	"context"
	"sync"
	"testing"
	"time"

	"arcadehub/config"
	"arcadehub/models"
	"arcadehub/services/events"

	timeslotRepo "arcadehub/database/repository/timeslot"

	"github.com/go-redis/redismock/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// fakeTemplateRepo serves a fixed template set.
type fakeTemplateRepo struct {
	templates map[string]models.SlotTemplate
}

func (f *fakeTemplateRepo) Create(ctx context.Context, t *models.SlotTemplate) error { return nil }
func (f *fakeTemplateRepo) GetByID(ctx context.Context, id string) (*models.SlotTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &t, nil
}
func (f *fakeTemplateRepo) GetByIDs(ctx context.Context, ids []string) ([]models.SlotTemplate, error) {
	var out []models.SlotTemplate
	for _, id := range ids {
		if t, ok := f.templates[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
func (f *fakeTemplateRepo) List(ctx context.Context, filter models.TemplateFilter) ([]models.SlotTemplate, error) {
	return nil, nil
}
func (f *fakeTemplateRepo) Update(ctx context.Context, t *models.SlotTemplate) error { return nil }
func (f *fakeTemplateRepo) Delete(ctx context.Context, id string) error              { return nil }

// fakeScheduleRepo binds one schedule per (date, deviceType).
type fakeScheduleRepo struct {
	schedules map[string]models.SlotSchedule
}

func scheduleKey(date, deviceTypeID string) string { return date + "/" + deviceTypeID }

func (f *fakeScheduleRepo) ReplaceBinding(ctx context.Context, date, deviceTypeID string, templateIDs []string) (*models.SlotSchedule, error) {
	s := models.SlotSchedule{ID: "sch-" + date, Date: date, DeviceTypeID: deviceTypeID, TemplateIDs: templateIDs}
	f.schedules[scheduleKey(date, deviceTypeID)] = s
	return &s, nil
}
func (f *fakeScheduleRepo) GetByDateAndType(ctx context.Context, date, deviceTypeID string) (*models.SlotSchedule, error) {
	s, ok := f.schedules[scheduleKey(date, deviceTypeID)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}
func (f *fakeScheduleRepo) ListByDateRange(ctx context.Context, fromDate, toDate string) ([]models.SlotSchedule, error) {
	return nil, nil
}
func (f *fakeScheduleRepo) CountFutureReferencing(ctx context.Context, templateID, fromDate string) (int64, error) {
	return 0, nil
}

var _ timeslotRepo.TemplateRepository = (*fakeTemplateRepo)(nil)
var _ timeslotRepo.ScheduleRepository = (*fakeScheduleRepo)(nil)

// recordingSink captures emitted events.
type recordingSink struct {
	mu        sync.Mutex
	approved  []models.ReservationEventPayload
	cancelled []models.ReservationEventPayload
	upserted  []models.ScheduleEventPayload
}

func (r *recordingSink) EmitReservationApproved(ctx context.Context, p models.ReservationEventPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.approved = append(r.approved, p)
	return nil
}
func (r *recordingSink) EmitReservationCancelled(ctx context.Context, p models.ReservationEventPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, p)
	return nil
}
func (r *recordingSink) EmitScheduleEventUpserted(ctx context.Context, p models.ScheduleEventPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserted = append(r.upserted, p)
	return nil
}

var _ events.EventSink = (*recordingSink)(nil)

// recordingDeriver captures derivation hooks.
type recordingDeriver struct {
	approved  []string
	cancelled []string
}

func (r *recordingDeriver) OnReservationApproved(ctx context.Context, res *models.Reservation) {
	r.approved = append(r.approved, res.ID)
}
func (r *recordingDeriver) OnReservationCancelled(ctx context.Context, res *models.Reservation) {
	r.cancelled = append(r.cancelled, res.ID)
}

type serviceFixture struct {
	svc     *DefaultRentalService
	repo    *fakeReservationRepo
	sink    *recordingSink
	deriver *recordingDeriver
	redis   redismock.ClientMock
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	config.AppConfig.MaimaiMaxRentals = 3
	config.AppConfig.TwoPlayerSurcharge = 10000
	config.AppConfig.RentalCaps = nil

	repo := newFakeReservationRepo()
	catalog := newFakeCatalog()
	catalog.addType("type-maimai", "maimai", 4)
	for _, id := range []string{"dev-1", "dev-2", "m2", "m3", "m4"} {
		catalog.addDevice(id, "type-maimai")
	}

	template := models.SlotTemplate{
		ID:        "tpl-1",
		Name:      "afternoon freeplay",
		Type:      models.SlotEarly,
		StartHour: 6,
		EndHour:   30,
		CreditOptions: []models.CreditOption{
			{
				Kind: models.CreditFreeplay,
				Freeplay: &models.TimedCreditData{
					Hours: []int{2, 3},
					Prices: map[int]decimal.Decimal{
						2: decimal.NewFromInt(20000),
						3: decimal.NewFromInt(28000),
					},
				},
			},
		},
		IsActive: true,
	}
	templates := &fakeTemplateRepo{templates: map[string]models.SlotTemplate{"tpl-1": template}}
	schedules := &fakeScheduleRepo{schedules: map[string]models.SlotSchedule{
		scheduleKey("2026-09-01", "type-maimai"): {
			ID: "sch-1", Date: "2026-09-01", DeviceTypeID: "type-maimai", TemplateIDs: []string{"tpl-1"},
		},
	}}

	db, mock := redismock.NewClientMock()
	sink := &recordingSink{}
	deriver := &recordingDeriver{}
	logger := zap.NewNop()

	svc := &DefaultRentalService{
		Reservations: repo,
		Catalog:      catalog,
		Schedules:    schedules,
		Templates:    templates,
		Checker:      NewAvailabilityChecker(repo, logger, time.Minute, 16, nil),
		Guard:        NewLimitGuard(repo, catalog, logger),
		Pricer:       NewPricingResolver(),
		Lock:         NewSlotLock(db, 10*time.Second),
		Deriver:      deriver,
		Sink:         sink,
		Logger:       logger,
	}
	return &serviceFixture{svc: svc, repo: repo, sink: sink, deriver: deriver, redis: mock}
}

func (f *serviceFixture) expectLockAcquired(deviceID, date string) {
	f.redis.Regexp().ExpectSetNX("slot_lock:"+deviceID+":"+date, `.+`, 10*time.Second).SetVal(true)
}

func baseRequest() CreateReservationRequest {
	return CreateReservationRequest{
		UserID:     "user-1",
		DeviceID:   "dev-1",
		Date:       "2026-09-01",
		StartHour:  14,
		EndHour:    16,
		CreditKind: models.CreditFreeplay,
	}
}

func TestCreateReservationSuccess(t *testing.T) {
	f := newServiceFixture(t)
	f.expectLockAcquired("dev-1", "2026-09-01")

	res, err := f.svc.CreateReservation(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, res.Status)
	assert.Equal(t, 14, res.StartHour)
	assert.Equal(t, 16, res.EndHour)
	assert.Equal(t, 1, res.PlayerCount)
	assert.True(t, res.TotalPrice.Equal(decimal.NewFromInt(20000)))

	stored, err := f.repo.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestCreateReservationTwoPlayerSurcharge(t *testing.T) {
	f := newServiceFixture(t)
	f.expectLockAcquired("dev-1", "2026-09-01")

	req := baseRequest()
	req.IsTwoPlayer = true
	// The fixture template has no 2P option configured.
	_, err := f.svc.CreateReservation(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, CodeValidation, CodeOf(err))
}

func TestCreateReservationConflict(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.add(activeReservation("r1", "dev-1", "2026-09-01", 15, 17))
	f.expectLockAcquired("dev-1", "2026-09-01")

	_, err := f.svc.CreateReservation(context.Background(), baseRequest())
	require.Error(t, err)
	assert.Equal(t, CodeTimeConflict, CodeOf(err))
}

func TestCreateReservationBoundaryAdjacent(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.add(activeReservation("r1", "dev-1", "2026-09-01", 16, 18))
	f.expectLockAcquired("dev-1", "2026-09-01")

	res, err := f.svc.CreateReservation(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, res.Status)
}

func TestCreateReservationLimitExceeded(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.add(maimaiReservation("r1", "user-1", "m2"))
	f.repo.add(maimaiReservation("r2", "user-1", "m3"))
	f.repo.add(maimaiReservation("r3", "user-1", "m4"))

	_, err := f.svc.CreateReservation(context.Background(), baseRequest())
	require.Error(t, err)
	assert.Equal(t, CodeLimitExceeded, CodeOf(err))

	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, 0, engineErr.Details["availableSlots"])
}

func TestCreateReservationLockContention(t *testing.T) {
	f := newServiceFixture(t)
	f.redis.Regexp().ExpectSetNX("slot_lock:dev-1:2026-09-01", `.+`, 10*time.Second).SetVal(false)

	_, err := f.svc.CreateReservation(context.Background(), baseRequest())
	require.Error(t, err)
	assert.Equal(t, CodeTimeConflict, CodeOf(err))
}

func TestCreateReservationIdempotentReplay(t *testing.T) {
	f := newServiceFixture(t)
	f.expectLockAcquired("dev-1", "2026-09-01")

	req := baseRequest()
	req.IdempotencyKey = "key-1"

	first, err := f.svc.CreateReservation(context.Background(), req)
	require.NoError(t, err)

	// The replay short-circuits before touching the lock.
	second, err := f.svc.CreateReservation(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestApproveEmitsAndDerives(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.add(models.Reservation{
		ID: "r1", UserID: "user-1", DeviceID: "dev-1", DeviceTypeID: "type-maimai",
		Date: "2026-09-01", StartHour: 7, EndHour: 9, Status: models.StatusPending,
	})

	res, err := f.svc.Approve(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, res.Status)
	require.Len(t, f.sink.approved, 1)
	assert.Equal(t, "r1", f.sink.approved[0].ReservationID)
	assert.Equal(t, []string{"r1"}, f.deriver.approved)
}

func TestApproveIsIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.add(models.Reservation{
		ID: "r1", DeviceID: "dev-1", Date: "2026-09-01",
		StartHour: 7, EndHour: 9, Status: models.StatusApproved,
	})

	res, err := f.svc.Approve(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, res.Status)
	// Re-approval re-derives (harmless upsert) but emits no second event.
	assert.Empty(t, f.sink.approved)
	assert.Equal(t, []string{"r1"}, f.deriver.approved)
}

func TestCancelFreesSlotAndRecomputes(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.add(models.Reservation{
		ID: "r1", UserID: "user-1", DeviceID: "dev-1", DeviceTypeID: "type-maimai",
		Date: "2026-09-01", StartHour: 14, EndHour: 16, Status: models.StatusApproved,
	})

	res, err := f.svc.Cancel(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, res.Status)
	require.Len(t, f.sink.cancelled, 1)
	assert.Equal(t, []string{"r1"}, f.deriver.cancelled)

	// The freed slot is visible immediately.
	availability, err := f.svc.Checker.CheckAvailability(context.Background(), "dev-1", "2026-09-01", 14, 16)
	require.NoError(t, err)
	assert.True(t, availability.Available)
}

func TestCancelPendingSkipsDerivation(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.add(models.Reservation{
		ID: "r1", DeviceID: "dev-1", Date: "2026-09-01",
		StartHour: 14, EndHour: 16, Status: models.StatusPending,
	})

	_, err := f.svc.Cancel(context.Background(), "r1")
	require.NoError(t, err)
	assert.Empty(t, f.deriver.cancelled)
}

func TestInvalidTransitions(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.add(models.Reservation{ID: "done", Status: models.StatusCompleted})
	f.repo.add(models.Reservation{ID: "fresh", Status: models.StatusPending})

	_, err := f.svc.Approve(context.Background(), "done")
	require.Error(t, err)
	assert.Equal(t, CodeInvalidTransition, CodeOf(err))

	_, err = f.svc.CheckIn(context.Background(), "fresh")
	require.Error(t, err)
	assert.Equal(t, CodeInvalidTransition, CodeOf(err))

	_, err = f.svc.Approve(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestLifecycleHappyPath(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.add(models.Reservation{
		ID: "r1", DeviceID: "dev-1", Date: "2026-09-01",
		StartHour: 14, EndHour: 16, Status: models.StatusPending,
	})
	ctx := context.Background()

	res, err := f.svc.Approve(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, res.Status)

	res, err = f.svc.CheckIn(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedIn, res.Status)

	res, err = f.svc.Complete(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, res.Status)
}
