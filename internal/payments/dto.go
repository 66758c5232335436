package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

// CreateRequestInput describes a new ask for payment against an order.
type CreateRequestInput struct {
	OrderID uuid.UUID
	Amount  decimal.Decimal
	DueDate *time.Time
	Notes   *string
	Actor   string
}

// MarkPaidInput records money received against a request.
type MarkPaidInput struct {
	Amount          decimal.Decimal
	Method          *enums.PaymentMethod
	ReferenceNumber *string
	Actor           string
}
