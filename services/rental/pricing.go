package rental

import (
	"arcadehub/config"
	"arcadehub/models"

	"github.com/shopspring/decimal"
)

// PricingResolver computes the rental total from a template's price tables.
type PricingResolver interface {
	// ResolvePrice prices the chosen credit option. durationHours is the
	// booked slot length and keys the freeplay/unlimited tables.
	ResolvePrice(template *models.SlotTemplate, kind models.CreditKind, durationHours int, isTwoPlayer bool) (*models.PriceQuote, error)
}

// DefaultPricingResolver is stateless; the surcharge comes from config.
type DefaultPricingResolver struct{}

func NewPricingResolver() *DefaultPricingResolver {
	return &DefaultPricingResolver{}
}

func (r *DefaultPricingResolver) ResolvePrice(template *models.SlotTemplate, kind models.CreditKind, durationHours int, isTwoPlayer bool) (*models.PriceQuote, error) {
	option := template.Option(kind)
	if option == nil {
		return nil, NewValidationError("credit option not offered by template",
			map[string]any{"templateId": template.ID, "kind": kind})
	}

	base, err := baseLookup(option, durationHours)
	if err != nil {
		return nil, err
	}

	quote := &models.PriceQuote{
		Total:     base,
		Breakdown: models.PriceBreakdown{Base: base},
	}

	if isTwoPlayer {
		if !template.Enable2P {
			return nil, NewValidationError("template does not allow 2-player mode",
				map[string]any{"templateId": template.ID})
		}
		// Flat surcharge, never proportional to the base price.
		surcharge := decimal.NewFromInt(int64(config.AppConfig.TwoPlayerSurcharge))
		quote.Total = quote.Total.Add(surcharge)
		quote.Breakdown.TwoPlayerOption = &surcharge
	}

	return quote, nil
}

func baseLookup(option *models.CreditOption, durationHours int) (decimal.Decimal, error) {
	switch option.Kind {
	case models.CreditFixed:
		if option.Fixed == nil {
			return decimal.Zero, NewValidationError("fixed credit option has no data", nil)
		}
		price, ok := option.Fixed.Prices[option.Fixed.Credits]
		if !ok {
			return decimal.Zero, NewValidationError("no price configured for credit count",
				map[string]any{"credits": option.Fixed.Credits})
		}
		return price, nil
	case models.CreditFreeplay, models.CreditUnlimited:
		data := option.Freeplay
		if option.Kind == models.CreditUnlimited {
			data = option.Unlimited
		}
		if data == nil {
			return decimal.Zero, NewValidationError("timed credit option has no data",
				map[string]any{"kind": option.Kind})
		}
		price, ok := data.Prices[durationHours]
		if !ok {
			return decimal.Zero, NewValidationError("no price configured for duration",
				map[string]any{"kind": option.Kind, "durationHours": durationHours})
		}
		return price, nil
	default:
		return decimal.Zero, NewValidationError("unknown credit kind",
			map[string]any{"kind": option.Kind})
	}
}
