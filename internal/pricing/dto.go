package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

// LineItemRequest is the caller-supplied description of one requested line.
// Any client-sent totals are ignored; the engine computes authoritative prices.
type LineItemRequest struct {
	ProductID          int64          `json:"product_id" validate:"required"`
	VariantID          *int64         `json:"variant_id,omitempty"`
	SubvariantID       *int64         `json:"subvariant_id,omitempty"`
	Quantity           int            `json:"quantity" validate:"required,min=1"`
	Unit               *string        `json:"unit,omitempty"`
	UnitPrice          *float64       `json:"unit_price,omitempty" validate:"omitempty,min=0"`
	IsRoll             bool           `json:"is_roll,omitempty"`
	RollID             *int64         `json:"roll_id,omitempty"`
	CutWidthIn         *float64       `json:"cut_width_in,omitempty"`
	CutHeightIn        *float64       `json:"cut_height_in,omitempty"`
	OffcutPricePerSqFt *float64       `json:"offcut_price_per_sqft,omitempty"`
	Options            map[string]any `json:"options,omitempty"`
}

// RollMetrics carries the geometry behind a roll-priced line.
type RollMetrics struct {
	RollID        int64
	FixedAreaFt2  decimal.Decimal
	OffcutAreaFt2 decimal.Decimal
	PricePerSqFt  decimal.Decimal
	OffcutRate    decimal.Decimal
	CutWidthIn    decimal.Decimal
	CutHeightIn   decimal.Decimal
}

// ComputedLineItem is the engine's authoritative pricing for one line.
type ComputedLineItem struct {
	ProductID     int64
	VariantID     *int64
	SubvariantID  *int64
	Name          string
	Quantity      int
	Unit          string
	PricingMethod enums.PricingMethod
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal
	Roll          *RollMetrics
	Fingerprint   *string
	Options       map[string]any
}

// Quote is the result of pricing a batch of requested lines.
type Quote struct {
	Items    []ComputedLineItem
	Subtotal decimal.Decimal
}

// CascadeInput feeds ApplyCascade. Values are interpreted per their mode.
type CascadeInput struct {
	Subtotal      decimal.Decimal
	DiscountMode  enums.AdjustmentMode
	DiscountValue decimal.Decimal
	TaxMode       enums.AdjustmentMode
	TaxValue      decimal.Decimal
	Shipping      decimal.Decimal
}

// CascadeResult is the folded discount/tax/shipping breakdown.
type CascadeResult struct {
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}
