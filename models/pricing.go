package models

import "github.com/shopspring/decimal"

// PriceBreakdown itemizes a quote for receipts and audits. The two-player
// surcharge is always reported separately from the base price.
type PriceBreakdown struct {
	Base            decimal.Decimal  `json:"base"`
	TwoPlayerOption *decimal.Decimal `json:"twoPlayerOption,omitempty"`
}

// PriceQuote is the result of resolving a credit option choice.
type PriceQuote struct {
	Total     decimal.Decimal `json:"total"`
	Breakdown PriceBreakdown  `json:"breakdown"`
}
