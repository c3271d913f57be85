package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SlotType distinguishes the two rentable slot shapes.
type SlotType string

const (
	SlotEarly     SlotType = "early"
	SlotOvernight SlotType = "overnight"
)

// CreditKind is the purchasable play-allotment mode for a rental.
type CreditKind string

const (
	CreditFixed     CreditKind = "fixed"
	CreditFreeplay  CreditKind = "freeplay"
	CreditUnlimited CreditKind = "unlimited"
)

// FixedCreditData carries the variant fields for a fixed-credit option.
// Prices are keyed by credit count.
type FixedCreditData struct {
	Credits int                     `bson:"credits" json:"credits"`
	Prices  map[int]decimal.Decimal `bson:"prices" json:"prices"`
}

// TimedCreditData carries the variant fields for freeplay and unlimited
// options. Prices are keyed by booked duration in hours.
type TimedCreditData struct {
	Hours  []int                   `bson:"hours" json:"hours"`
	Prices map[int]decimal.Decimal `bson:"prices" json:"prices"`
}

// CreditOption is a tagged union: exactly one variant field is non-nil,
// matching Kind.
type CreditOption struct {
	Kind      CreditKind       `bson:"kind" json:"kind"`
	Fixed     *FixedCreditData `bson:"fixed,omitempty" json:"fixed,omitempty"`
	Freeplay  *TimedCreditData `bson:"freeplay,omitempty" json:"freeplay,omitempty"`
	Unlimited *TimedCreditData `bson:"unlimited,omitempty" json:"unlimited,omitempty"`
}

// SlotTemplate is a reusable slot shape configured by staff.
// StartHour and EndHour are stored in extended-hour space (6-29), where
// 24-29 represents 0:00-5:59 of the following calendar day.
type SlotTemplate struct {
	ID            string           `bson:"id" json:"id"`
	Name          string           `bson:"name" json:"name"`
	Description   string           `bson:"description,omitempty" json:"description,omitempty"`
	Type          SlotType         `bson:"type" json:"type"`
	StartHour     int              `bson:"startHour" json:"startHour"`
	EndHour       int              `bson:"endHour" json:"endHour"`
	CreditOptions []CreditOption   `bson:"creditOptions" json:"creditOptions"`
	Enable2P      bool             `bson:"enable2P" json:"enable2P"`
	Price2PExtra  *decimal.Decimal `bson:"price2PExtra,omitempty" json:"price2PExtra,omitempty"`
	IsYouthTime   bool             `bson:"isYouthTime" json:"isYouthTime"`
	Priority      int              `bson:"priority" json:"priority"`
	IsActive      bool             `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// Option returns the credit option of the given kind, or nil.
func (t *SlotTemplate) Option(kind CreditKind) *CreditOption {
	for i := range t.CreditOptions {
		if t.CreditOptions[i].Kind == kind {
			return &t.CreditOptions[i]
		}
	}
	return nil
}

// Covers reports whether the requested extended-hour range falls inside
// the template's window.
func (t *SlotTemplate) Covers(startHour, endHour int) bool {
	return startHour >= t.StartHour && endHour <= t.EndHour
}

// RepeatKind is the recurrence applied when binding templates over a
// date range.
type RepeatKind string

const (
	RepeatDaily   RepeatKind = "daily"
	RepeatWeekly  RepeatKind = "weekly"
	RepeatMonthly RepeatKind = "monthly"
)

// SlotSchedule binds an ordered set of templates to a (date, deviceType).
// Date uses the "2006-01-02" business-date format.
type SlotSchedule struct {
	ID           string    `bson:"id" json:"id"`
	Date         string    `bson:"date" json:"date"`
	DeviceTypeID string    `bson:"deviceTypeId" json:"deviceTypeId"`
	TemplateIDs  []string  `bson:"templateIds" json:"templateIds"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TemplateFilter narrows template listings.
type TemplateFilter struct {
	Type      *SlotType
	Active    *bool
	YouthOnly bool
}
