package timeslot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"arcadehub/models"
	"arcadehub/services/rental"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

func (s *DefaultTimeSlotService) BindTemplates(ctx context.Context, date, deviceTypeID string, templateIDs []string) (*models.SlotSchedule, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, rental.NewValidationError("date must use YYYY-MM-DD", map[string]any{"date": date})
	}
	templates, err := s.resolveConflictFree(ctx, templateIDs)
	if err != nil {
		return nil, err
	}

	schedule, err := s.Schedules.ReplaceBinding(ctx, date, deviceTypeID, orderedIDs(templates))
	if err != nil {
		return nil, err
	}

	s.Logger.Info("templates bound",
		zap.String("date", date),
		zap.String("deviceTypeId", deviceTypeID),
		zap.Int("templates", len(templates)))
	return schedule, nil
}

func (s *DefaultTimeSlotService) BindTemplatesRange(ctx context.Context, fromDate, toDate, deviceTypeID string, templateIDs []string, repeat models.RepeatKind) ([]models.SlotSchedule, error) {
	from, err := time.Parse(dateLayout, fromDate)
	if err != nil {
		return nil, rental.NewValidationError("fromDate must use YYYY-MM-DD", map[string]any{"fromDate": fromDate})
	}
	to, err := time.Parse(dateLayout, toDate)
	if err != nil {
		return nil, rental.NewValidationError("toDate must use YYYY-MM-DD", map[string]any{"toDate": toDate})
	}
	if to.Before(from) {
		return nil, rental.NewValidationError("toDate precedes fromDate",
			map[string]any{"fromDate": fromDate, "toDate": toDate})
	}
	step, err := repeatStep(repeat)
	if err != nil {
		return nil, err
	}

	templates, err := s.resolveConflictFree(ctx, templateIDs)
	if err != nil {
		return nil, err
	}
	ids := orderedIDs(templates)

	var schedules []models.SlotSchedule
	for d := from; !d.After(to); d = step(d) {
		schedule, err := s.Schedules.ReplaceBinding(ctx, d.Format(dateLayout), deviceTypeID, ids)
		if err != nil {
			return nil, fmt.Errorf("binding failed at %s: %w", d.Format(dateLayout), err)
		}
		schedules = append(schedules, *schedule)
	}

	s.Logger.Info("templates bound over range",
		zap.String("fromDate", fromDate),
		zap.String("toDate", toDate),
		zap.String("repeat", string(repeat)),
		zap.String("deviceTypeId", deviceTypeID),
		zap.Int("days", len(schedules)))
	return schedules, nil
}

// repeatStep returns the date increment for a recurrence. An empty kind
// defaults to daily.
func repeatStep(repeat models.RepeatKind) (func(time.Time) time.Time, error) {
	switch repeat {
	case "", models.RepeatDaily:
		return func(d time.Time) time.Time { return d.AddDate(0, 0, 1) }, nil
	case models.RepeatWeekly:
		return func(d time.Time) time.Time { return d.AddDate(0, 0, 7) }, nil
	case models.RepeatMonthly:
		return func(d time.Time) time.Time { return d.AddDate(0, 1, 0) }, nil
	default:
		return nil, rental.NewValidationError("unknown repeat kind", map[string]any{"repeat": repeat})
	}
}

func (s *DefaultTimeSlotService) ListSchedules(ctx context.Context, fromDate, toDate string) ([]models.SlotSchedule, error) {
	if _, err := time.Parse(dateLayout, fromDate); err != nil {
		return nil, rental.NewValidationError("fromDate must use YYYY-MM-DD", map[string]any{"fromDate": fromDate})
	}
	if _, err := time.Parse(dateLayout, toDate); err != nil {
		return nil, rental.NewValidationError("toDate must use YYYY-MM-DD", map[string]any{"toDate": toDate})
	}
	return s.Schedules.ListByDateRange(ctx, fromDate, toDate)
}

func (s *DefaultTimeSlotService) GetSchedule(ctx context.Context, date, deviceTypeID string) (*models.SlotSchedule, error) {
	return s.Schedules.GetByDateAndType(ctx, date, deviceTypeID)
}

// resolveConflictFree loads the templates, rejects unknown or inactive
// ones, and checks the set is pairwise non-overlapping in extended-hour
// space.
func (s *DefaultTimeSlotService) resolveConflictFree(ctx context.Context, templateIDs []string) ([]models.SlotTemplate, error) {
	if len(templateIDs) == 0 {
		return nil, rental.NewValidationError("at least one template is required", nil)
	}

	templates, err := s.Templates.GetByIDs(ctx, templateIDs)
	if err != nil {
		return nil, err
	}
	if len(templates) != len(templateIDs) {
		found := make(map[string]bool, len(templates))
		for i := range templates {
			found[templates[i].ID] = true
		}
		for _, id := range templateIDs {
			if !found[id] {
				return nil, rental.NewNotFoundError("template", id)
			}
		}
	}
	for i := range templates {
		if !templates[i].IsActive {
			return nil, rental.NewValidationError("inactive template cannot be bound",
				map[string]any{"templateId": templates[i].ID, "name": templates[i].Name})
		}
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].StartHour < templates[j].StartHour
	})
	for i := 0; i+1 < len(templates); i++ {
		a, b := &templates[i], &templates[i+1]
		if a.EndHour > b.StartHour {
			return nil, rental.NewConflictError("template windows overlap",
				map[string]any{
					"first":       a.Name,
					"firstRange":  [2]int{a.StartHour, a.EndHour},
					"second":      b.Name,
					"secondRange": [2]int{b.StartHour, b.EndHour},
				})
		}
	}
	return templates, nil
}

func orderedIDs(templates []models.SlotTemplate) []string {
	ids := make([]string, len(templates))
	for i := range templates {
		ids[i] = templates[i].ID
	}
	return ids
}
