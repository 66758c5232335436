package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/printdeskhq/printdesk-backend/internal/pricing"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

// CreateOrderInput describes a new order. Item prices are always computed
// server-side from the catalog.
type CreateOrderInput struct {
	WorkingGroupID uuid.UUID
	CustomerID     *uuid.UUID
	Items          []pricing.LineItemRequest
	DiscountMode   enums.AdjustmentMode
	DiscountValue  float64
	TaxMode        enums.AdjustmentMode
	TaxValue       float64
	Shipping       float64
	Notes          *string
	Actor          string
}

// UpdateOrderInput describes an admin edit. Nil fields are left untouched;
// a non-nil Items slice fully re-prices the order. EditLockedPricing is the
// explicit bypass for orders whose current status locks pricing or items.
type UpdateOrderInput struct {
	Items             *[]pricing.LineItemRequest
	DiscountMode      *enums.AdjustmentMode
	DiscountValue     *float64
	TaxMode           *enums.AdjustmentMode
	TaxValue          *float64
	Shipping          *float64
	Notes             *string
	Status            *string
	StatusMessage     string
	StatusVisibility  *enums.EventVisibility
	Actor             string
	EditLockedPricing bool
}

// ListParams narrows and pages an order listing.
type ListParams struct {
	WorkingGroupID uuid.UUID
	Status         *string
	CustomerID     *uuid.UUID
	CreatedAfter   *time.Time
	Limit          int
	Cursor         string
}
