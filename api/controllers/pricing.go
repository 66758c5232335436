package controllers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/printdeskhq/printdesk-backend/api/responses"
	"github.com/printdeskhq/printdesk-backend/api/validators"
	"github.com/printdeskhq/printdesk-backend/internal/pricing"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
	pkgerrors "github.com/printdeskhq/printdesk-backend/pkg/errors"
	"github.com/printdeskhq/printdesk-backend/pkg/logger"
)

type pricer interface {
	Compute(ctx context.Context, requests []pricing.LineItemRequest) (*pricing.Quote, error)
}

type quoteRequest struct {
	Items         []pricing.LineItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountMode  string                    `json:"discount_mode,omitempty" validate:"omitempty,oneof=none fixed percent"`
	DiscountValue float64                   `json:"discount_value,omitempty" validate:"omitempty,gte=0"`
	TaxMode       string                    `json:"tax_mode,omitempty" validate:"omitempty,oneof=none fixed percent"`
	TaxValue      float64                   `json:"tax_value,omitempty" validate:"omitempty,gte=0"`
	Shipping      float64                   `json:"shipping_amount,omitempty" validate:"omitempty,gte=0"`
}

type quoteRollMeta struct {
	FixedAreaFt2  float64 `json:"fixed_area_ft2"`
	OffcutAreaFt2 float64 `json:"offcut_area_ft2"`
	PricePerSqFt  float64 `json:"price_per_sqft"`
	OffcutRate    float64 `json:"offcut_rate"`
}

type quoteItemMeta struct {
	Roll *quoteRollMeta `json:"roll"`
}

type quoteItem struct {
	ProductID     int64          `json:"product_id"`
	VariantID     *int64         `json:"variant_id,omitempty"`
	SubvariantID  *int64         `json:"subvariant_id,omitempty"`
	Name          string         `json:"name"`
	Quantity      int            `json:"quantity"`
	Unit          string         `json:"unit"`
	PricingMethod string         `json:"pricing_method"`
	UnitPrice     float64        `json:"unit_price"`
	LineTotal     float64        `json:"line_total"`
	Fingerprint   *string        `json:"fingerprint,omitempty"`
	Options       map[string]any `json:"options,omitempty"`
	Meta          quoteItemMeta  `json:"meta"`
}

type quoteResponse struct {
	Items          []quoteItem `json:"items"`
	Subtotal       float64     `json:"subtotal"`
	DiscountAmount float64     `json:"discount_amount"`
	TaxAmount      float64     `json:"tax_amount"`
	ShippingAmount float64     `json:"shipping_amount"`
	Total          float64     `json:"total"`
}

// PriceQuote computes authoritative prices for the requested lines without
// persisting anything. The cascade runs with whatever adjustments the caller
// supplies, so the quote matches what creating the same order would charge.
func PriceQuote(engine pricer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing engine unavailable"))
			return
		}

		var req quoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		discountMode, taxMode, err := parseAdjustmentModes(req.DiscountMode, req.TaxMode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := engine.Compute(r.Context(), req.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cascade := pricing.ApplyCascade(pricing.CascadeInput{
			Subtotal:      quote.Subtotal,
			DiscountMode:  discountMode,
			DiscountValue: decimal.NewFromFloat(req.DiscountValue),
			TaxMode:       taxMode,
			TaxValue:      decimal.NewFromFloat(req.TaxValue),
			Shipping:      decimal.NewFromFloat(req.Shipping),
		})

		responses.WriteSuccess(w, buildQuoteResponse(quote, cascade))
	}
}

func parseAdjustmentModes(discount, tax string) (enums.AdjustmentMode, enums.AdjustmentMode, error) {
	discountMode := enums.AdjustmentModeNone
	taxMode := enums.AdjustmentModeNone

	if discount != "" {
		parsed, err := enums.ParseAdjustmentMode(discount)
		if err != nil {
			return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount mode")
		}
		discountMode = parsed
	}
	if tax != "" {
		parsed, err := enums.ParseAdjustmentMode(tax)
		if err != nil {
			return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tax mode")
		}
		taxMode = parsed
	}
	return discountMode, taxMode, nil
}

func buildQuoteResponse(quote *pricing.Quote, cascade pricing.CascadeResult) quoteResponse {
	resp := quoteResponse{
		Items:          make([]quoteItem, 0, len(quote.Items)),
		Subtotal:       quote.Subtotal.InexactFloat64(),
		DiscountAmount: cascade.Discount.InexactFloat64(),
		TaxAmount:      cascade.Tax.InexactFloat64(),
		ShippingAmount: cascade.Shipping.InexactFloat64(),
		Total:          cascade.Total.InexactFloat64(),
	}

	for _, line := range quote.Items {
		item := quoteItem{
			ProductID:     line.ProductID,
			VariantID:     line.VariantID,
			SubvariantID:  line.SubvariantID,
			Name:          line.Name,
			Quantity:      line.Quantity,
			Unit:          line.Unit,
			PricingMethod: line.PricingMethod.String(),
			UnitPrice:     line.UnitPrice.InexactFloat64(),
			LineTotal:     line.LineTotal.InexactFloat64(),
			Fingerprint:   line.Fingerprint,
			Options:       line.Options,
		}
		if line.Roll != nil {
			item.Meta.Roll = &quoteRollMeta{
				FixedAreaFt2:  line.Roll.FixedAreaFt2.InexactFloat64(),
				OffcutAreaFt2: line.Roll.OffcutAreaFt2.InexactFloat64(),
				PricePerSqFt:  line.Roll.PricePerSqFt.InexactFloat64(),
				OffcutRate:    line.Roll.OffcutRate.InexactFloat64(),
			}
		}
		resp.Items = append(resp.Items, item)
	}

	return resp
}
