package enums

import "fmt"

// PaymentRequestStatus tracks the lifecycle of an admin-issued payment request.
type PaymentRequestStatus string

const (
	PaymentRequestStatusPending       PaymentRequestStatus = "pending"
	PaymentRequestStatusPartiallyPaid PaymentRequestStatus = "partially_paid"
	PaymentRequestStatusPaid          PaymentRequestStatus = "paid"
	PaymentRequestStatusCancelled     PaymentRequestStatus = "cancelled"
	PaymentRequestStatusOverdue       PaymentRequestStatus = "overdue"
)

var validPaymentRequestStatuses = []PaymentRequestStatus{
	PaymentRequestStatusPending,
	PaymentRequestStatusPartiallyPaid,
	PaymentRequestStatusPaid,
	PaymentRequestStatusCancelled,
	PaymentRequestStatusOverdue,
}

// String implements fmt.Stringer.
func (p PaymentRequestStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentRequestStatus.
func (p PaymentRequestStatus) IsValid() bool {
	for _, candidate := range validPaymentRequestStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentRequestStatus converts raw input into a PaymentRequestStatus.
func ParsePaymentRequestStatus(value string) (PaymentRequestStatus, error) {
	for _, candidate := range validPaymentRequestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment request status %q", value)
}
