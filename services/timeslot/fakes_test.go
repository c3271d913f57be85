package timeslot

import (
	"context"
	"sort"
	"sync"

	timeslotRepo "arcadehub/database/repository/timeslot"
	"arcadehub/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type memTemplateRepo struct {
	mu        sync.Mutex
	templates map[string]models.SlotTemplate
}

func newMemTemplateRepo() *memTemplateRepo {
	return &memTemplateRepo{templates: make(map[string]models.SlotTemplate)}
}

func (m *memTemplateRepo) add(t models.SlotTemplate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = t
}

func (m *memTemplateRepo) Create(ctx context.Context, t *models.SlotTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.templates {
		if existing.Name == t.Name {
			return timeslotRepo.ErrDuplicateName
		}
	}
	m.templates[t.ID] = *t
	return nil
}

func (m *memTemplateRepo) GetByID(ctx context.Context, id string) (*models.SlotTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &t, nil
}

func (m *memTemplateRepo) GetByIDs(ctx context.Context, ids []string) ([]models.SlotTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SlotTemplate
	for _, id := range ids {
		if t, ok := m.templates[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTemplateRepo) List(ctx context.Context, filter models.TemplateFilter) ([]models.SlotTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SlotTemplate
	for _, t := range m.templates {
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		if filter.Active != nil && t.IsActive != *filter.Active {
			continue
		}
		if filter.YouthOnly && !t.IsYouthTime {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].StartHour < out[j].StartHour
	})
	return out, nil
}

func (m *memTemplateRepo) Update(ctx context.Context, t *models.SlotTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[t.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	for id, existing := range m.templates {
		if id != t.ID && existing.Name == t.Name {
			return timeslotRepo.ErrDuplicateName
		}
	}
	m.templates[t.ID] = *t
	return nil
}

func (m *memTemplateRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.templates, id)
	return nil
}

type memScheduleRepo struct {
	mu        sync.Mutex
	schedules map[string]models.SlotSchedule
}

func newMemScheduleRepo() *memScheduleRepo {
	return &memScheduleRepo{schedules: make(map[string]models.SlotSchedule)}
}

func bindingKey(date, deviceTypeID string) string { return date + "/" + deviceTypeID }

func (m *memScheduleRepo) ReplaceBinding(ctx context.Context, date, deviceTypeID string, templateIDs []string) (*models.SlotSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := models.SlotSchedule{
		ID:           "sch-" + date + "-" + deviceTypeID,
		Date:         date,
		DeviceTypeID: deviceTypeID,
		TemplateIDs:  append([]string(nil), templateIDs...),
	}
	m.schedules[bindingKey(date, deviceTypeID)] = s
	return &s, nil
}

func (m *memScheduleRepo) GetByDateAndType(ctx context.Context, date, deviceTypeID string) (*models.SlotSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[bindingKey(date, deviceTypeID)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memScheduleRepo) ListByDateRange(ctx context.Context, fromDate, toDate string) ([]models.SlotSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SlotSchedule
	for _, s := range m.schedules {
		if s.Date >= fromDate && s.Date <= toDate {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *memScheduleRepo) CountFutureReferencing(ctx context.Context, templateID, fromDate string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, s := range m.schedules {
		if s.Date < fromDate {
			continue
		}
		for _, id := range s.TemplateIDs {
			if id == templateID {
				count++
				break
			}
		}
	}
	return count, nil
}
