package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
	pkgerrors "github.com/printdeskhq/printdesk-backend/pkg/errors"
)

// widthTolerance absorbs rounding noise when a cut width is compared against
// the roll width. Cuts wider than the roll by more than this fail validation.
var widthTolerance = decimal.NewFromFloat(0.01)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// CatalogSource resolves the immutable pricing inputs referenced by requests.
type CatalogSource interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	GetVariant(ctx context.Context, id int64) (*models.ProductVariant, error)
	GetRoll(ctx context.Context, id int64) (*models.Roll, error)
}

// Engine prices requested line items into authoritative totals. Identical
// inputs against an identical catalog always yield identical output.
type Engine struct {
	catalog CatalogSource
}

// NewEngine builds a pricing engine backed by the provided catalog.
func NewEngine(catalog CatalogSource) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	return &Engine{catalog: catalog}, nil
}

// Compute prices every requested line and sums the order subtotal. Client
// supplied totals are never trusted; only the explicit unit-price and
// offcut-rate overrides are honored.
func (e *Engine) Compute(ctx context.Context, requests []LineItemRequest) (*Quote, error) {
	if len(requests) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item is required")
	}

	items := make([]ComputedLineItem, 0, len(requests))
	subtotal := decimal.Zero

	for i, req := range requests {
		item, err := e.computeLine(ctx, i, req)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(item.LineTotal)
		items = append(items, *item)
	}

	return &Quote{
		Items:    items,
		Subtotal: subtotal.Round(2),
	}, nil
}

func (e *Engine) computeLine(ctx context.Context, index int, req LineItemRequest) (*ComputedLineItem, error) {
	if req.Quantity <= 0 {
		return nil, lineError(index, "quantity must be greater than zero")
	}

	product, err := e.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lineError(index, fmt.Sprintf("product %d not found", req.ProductID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, lineError(index, fmt.Sprintf("product %d is not available", req.ProductID))
	}

	variant, err := e.resolveVariant(ctx, index, product, req.VariantID, nil)
	if err != nil {
		return nil, err
	}
	if _, err := e.resolveVariant(ctx, index, product, req.SubvariantID, req.VariantID); err != nil {
		return nil, err
	}

	unit := product.UnitOfMeasure
	if req.Unit != nil && *req.Unit != "" {
		unit = *req.Unit
	}

	item := &ComputedLineItem{
		ProductID:    product.ID,
		VariantID:    req.VariantID,
		SubvariantID: req.SubvariantID,
		Name:         product.Name,
		Quantity:     req.Quantity,
		Unit:         unit,
		Fingerprint:  Fingerprint(req.Options),
		Options:      req.Options,
	}

	isRoll := req.IsRoll || product.PricingMethod == enums.PricingMethodRoll
	if isRoll {
		metrics, unitPrice, err := e.computeRoll(ctx, index, product, req)
		if err != nil {
			return nil, err
		}
		item.PricingMethod = enums.PricingMethodRoll
		item.Roll = metrics
		item.UnitPrice = unitPrice
	} else {
		item.PricingMethod = enums.PricingMethodStandard
		item.UnitPrice = standardUnitPrice(product, variant, req.UnitPrice)
	}

	item.LineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2)
	return item, nil
}

func (e *Engine) resolveVariant(ctx context.Context, index int, product *models.Product, id *int64, parentID *int64) (*models.ProductVariant, error) {
	if id == nil {
		return nil, nil
	}
	variant, err := e.catalog.GetVariant(ctx, *id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lineError(index, fmt.Sprintf("variant %d not found", *id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if variant.ProductID != product.ID {
		return nil, lineError(index, fmt.Sprintf("variant %d does not belong to product %d", *id, product.ID))
	}
	if parentID != nil && (variant.ParentVariantID == nil || *variant.ParentVariantID != *parentID) {
		return nil, lineError(index, fmt.Sprintf("subvariant %d does not belong to variant %d", *id, *parentID))
	}
	return variant, nil
}

// standardUnitPrice prefers an explicit override, then the variant price, then
// the product's base price.
func standardUnitPrice(product *models.Product, variant *models.ProductVariant, override *float64) decimal.Decimal {
	if override != nil {
		return decimal.NewFromFloat(*override).Round(2)
	}
	if variant != nil && variant.Price != nil {
		return variant.Price.Round(2)
	}
	return product.Price.Round(2)
}

// computeRoll bills the customer for the cut area at the roll rate plus the
// leftover strip at the offcut rate. Geometry is computed in feet; cut
// dimensions arrive in inches and are divided by 12 with no intermediate
// rounding.
func (e *Engine) computeRoll(ctx context.Context, index int, product *models.Product, req LineItemRequest) (*RollMetrics, decimal.Decimal, error) {
	if req.RollID == nil {
		return nil, decimal.Zero, lineError(index, "roll selection is required for roll-priced items")
	}
	if req.CutWidthIn == nil || req.CutHeightIn == nil {
		return nil, decimal.Zero, lineError(index, "cut width and height are required for roll-priced items")
	}

	roll, err := e.catalog.GetRoll(ctx, *req.RollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, lineError(index, fmt.Sprintf("roll %d not found", *req.RollID))
		}
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load roll")
	}
	if !roll.IsActive {
		return nil, decimal.Zero, lineError(index, fmt.Sprintf("roll %d is not available", *req.RollID))
	}
	if roll.RollWidthFt.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, lineError(index, fmt.Sprintf("roll %d has no configured width", *req.RollID))
	}

	cutWidthIn := decimal.NewFromFloat(*req.CutWidthIn)
	cutHeightIn := decimal.NewFromFloat(*req.CutHeightIn)
	if cutWidthIn.LessThanOrEqual(decimal.Zero) || cutHeightIn.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, lineError(index, "cut dimensions must be greater than zero")
	}

	rollWidthIn := roll.RollWidthFt.Mul(twelve)
	if cutWidthIn.Sub(rollWidthIn).GreaterThan(widthTolerance) {
		return nil, decimal.Zero, lineError(index, fmt.Sprintf(
			"cut width %s in exceeds roll width %s in", cutWidthIn.String(), rollWidthIn.String()))
	}

	widthFt := cutWidthIn.Div(twelve)
	heightFt := cutHeightIn.Div(twelve)
	fixedArea := widthFt.Mul(heightFt)

	offcutIn := rollWidthIn.Sub(cutWidthIn)
	if offcutIn.IsNegative() {
		offcutIn = decimal.Zero
	}
	offcutArea := offcutIn.Div(twelve).Mul(heightFt)

	offcutRate := roll.OffcutPricePerSqFt
	if req.OffcutPricePerSqFt != nil {
		offcutRate = decimal.NewFromFloat(*req.OffcutPricePerSqFt)
	}

	pricePerSqFt := product.PricePerSqFt
	if req.UnitPrice != nil {
		// An explicit unit price short-circuits the area math entirely.
		unitPrice := decimal.NewFromFloat(*req.UnitPrice).Round(2)
		return &RollMetrics{
			RollID:        roll.ID,
			FixedAreaFt2:  fixedArea,
			OffcutAreaFt2: offcutArea,
			PricePerSqFt:  pricePerSqFt,
			OffcutRate:    offcutRate,
			CutWidthIn:    cutWidthIn,
			CutHeightIn:   cutHeightIn,
		}, unitPrice, nil
	}

	unitPrice := fixedArea.Mul(pricePerSqFt).Add(offcutArea.Mul(offcutRate)).Round(2)
	return &RollMetrics{
		RollID:        roll.ID,
		FixedAreaFt2:  fixedArea,
		OffcutAreaFt2: offcutArea,
		PricePerSqFt:  pricePerSqFt,
		OffcutRate:    offcutRate,
		CutWidthIn:    cutWidthIn,
		CutHeightIn:   cutHeightIn,
	}, unitPrice, nil
}

func lineError(index int, message string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]any{"line": index})
}
