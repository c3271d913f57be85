package timeslot

import (
	"context"
	"errors"
	"time"

	timeslotRepo "arcadehub/database/repository/timeslot"
	"arcadehub/models"
	"arcadehub/services/rental"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Youth-time templates must fit the legally bookable daytime window.
const (
	youthWindowStart = 9
	youthWindowEnd   = 22
)

// DefaultTimeSlotService is the production implementation of Service.
type DefaultTimeSlotService struct {
	Templates timeslotRepo.TemplateRepository
	Schedules timeslotRepo.ScheduleRepository
	Logger    *zap.Logger
}

func NewTimeSlotService(templates timeslotRepo.TemplateRepository, schedules timeslotRepo.ScheduleRepository, logger *zap.Logger) *DefaultTimeSlotService {
	return &DefaultTimeSlotService{Templates: templates, Schedules: schedules, Logger: logger}
}

func (s *DefaultTimeSlotService) CreateTemplate(ctx context.Context, template *models.SlotTemplate) (*models.SlotTemplate, error) {
	if err := validateTemplate(template); err != nil {
		return nil, err
	}

	now := time.Now()
	template.ID = uuid.New().String()
	template.CreatedAt = now
	template.UpdatedAt = now

	if err := s.Templates.Create(ctx, template); err != nil {
		if errors.Is(err, timeslotRepo.ErrDuplicateName) {
			return nil, rental.NewValidationError("template name already in use",
				map[string]any{"name": template.Name})
		}
		return nil, err
	}

	s.Logger.Info("slot template created",
		zap.String("id", template.ID),
		zap.String("name", template.Name),
		zap.String("type", string(template.Type)))
	return template, nil
}

func (s *DefaultTimeSlotService) ListTemplates(ctx context.Context, filter models.TemplateFilter) ([]models.SlotTemplate, error) {
	return s.Templates.List(ctx, filter)
}

func (s *DefaultTimeSlotService) UpdateTemplate(ctx context.Context, template *models.SlotTemplate) (*models.SlotTemplate, error) {
	if err := validateTemplate(template); err != nil {
		return nil, err
	}

	template.UpdatedAt = time.Now()
	if err := s.Templates.Update(ctx, template); err != nil {
		if errors.Is(err, timeslotRepo.ErrDuplicateName) {
			return nil, rental.NewValidationError("template name already in use",
				map[string]any{"name": template.Name})
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, rental.NewNotFoundError("template", template.ID)
		}
		return nil, err
	}
	return template, nil
}

func (s *DefaultTimeSlotService) ToggleTemplateActive(ctx context.Context, id string) (*models.SlotTemplate, error) {
	template, err := s.Templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, rental.NewNotFoundError("template", id)
		}
		return nil, err
	}

	template.IsActive = !template.IsActive
	template.UpdatedAt = time.Now()
	if err := s.Templates.Update(ctx, template); err != nil {
		return nil, err
	}

	s.Logger.Info("slot template active flag toggled",
		zap.String("id", id),
		zap.Bool("isActive", template.IsActive))
	return template, nil
}

func (s *DefaultTimeSlotService) DeleteTemplate(ctx context.Context, id string) error {
	today := time.Now().Format("2006-01-02")
	refs, err := s.Schedules.CountFutureReferencing(ctx, id, today)
	if err != nil {
		return err
	}
	if refs > 0 {
		return rental.NewConflictError("template is referenced by future schedules",
			map[string]any{"templateId": id, "scheduleCount": refs})
	}

	if err := s.Templates.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return rental.NewNotFoundError("template", id)
		}
		return err
	}
	s.Logger.Info("slot template deleted", zap.String("id", id))
	return nil
}

// validateTemplate checks everything that does not need a store round trip.
func validateTemplate(t *models.SlotTemplate) error {
	if t.Name == "" {
		return rental.NewValidationError("template name is required", nil)
	}
	if t.Type != models.SlotEarly && t.Type != models.SlotOvernight {
		return rental.NewValidationError("unknown slot type", map[string]any{"type": t.Type})
	}
	if t.StartHour < rental.MinExtendedHour || t.EndHour > rental.MaxExtendedHour || t.StartHour >= t.EndHour {
		return rental.NewValidationError("startHour must precede endHour within the business day",
			map[string]any{"startHour": t.StartHour, "endHour": t.EndHour})
	}
	if len(t.CreditOptions) == 0 {
		return rental.NewValidationError("at least one credit option is required", nil)
	}
	for i := range t.CreditOptions {
		if err := validateCreditOption(&t.CreditOptions[i]); err != nil {
			return err
		}
	}
	if t.Enable2P && t.Price2PExtra == nil {
		return rental.NewValidationError("price2PExtra is required when 2-player mode is enabled", nil)
	}
	if t.IsYouthTime && (t.StartHour < youthWindowStart || t.EndHour > youthWindowEnd) {
		return rental.NewValidationError("youth-time templates must fit the daytime window",
			map[string]any{
				"startHour":   t.StartHour,
				"endHour":     t.EndHour,
				"windowStart": youthWindowStart,
				"windowEnd":   youthWindowEnd,
			})
	}
	return nil
}

func validateCreditOption(o *models.CreditOption) error {
	switch o.Kind {
	case models.CreditFixed:
		if o.Fixed == nil || o.Fixed.Credits <= 0 || len(o.Fixed.Prices) == 0 {
			return rental.NewValidationError("fixed credit option needs a credit count and prices",
				map[string]any{"kind": o.Kind})
		}
	case models.CreditFreeplay, models.CreditUnlimited:
		data := o.Freeplay
		if o.Kind == models.CreditUnlimited {
			data = o.Unlimited
		}
		if data == nil || len(data.Hours) == 0 || len(data.Prices) == 0 {
			return rental.NewValidationError("timed credit option needs hours and prices",
				map[string]any{"kind": o.Kind})
		}
		for _, h := range data.Hours {
			if _, ok := data.Prices[h]; !ok {
				return rental.NewValidationError("every offered duration needs a price",
					map[string]any{"kind": o.Kind, "hours": h})
			}
		}
	default:
		return rental.NewValidationError("unknown credit kind", map[string]any{"kind": o.Kind})
	}
	return nil
}
