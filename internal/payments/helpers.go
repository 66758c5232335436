package payments

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

// IsOverdue reports whether a pending request's due date has passed. The
// sweep job persists the overdue status; this predicate never writes.
func IsOverdue(request *models.PaymentRequest, now time.Time) bool {
	if request == nil || request.Status != enums.PaymentRequestStatusPending {
		return false
	}
	return request.DueDate != nil && request.DueDate.Before(now)
}

// RemainingAmount is how much of the request is still unpaid, floored at zero.
func RemainingAmount(request *models.PaymentRequest) decimal.Decimal {
	remaining := request.AmountRequested.Sub(request.AmountPaid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// PaymentProgress is the paid percentage, capped at 100. A request for zero
// or negative money reports no progress.
func PaymentProgress(request *models.PaymentRequest) decimal.Decimal {
	if request.AmountRequested.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	progress := request.AmountPaid.
		Mul(decimal.NewFromInt(100)).
		Div(request.AmountRequested).
		Round(2)
	if progress.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return progress
}
