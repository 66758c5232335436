package enums

import "fmt"

// OrderEventType names the append-only timeline entries recorded against an order.
type OrderEventType string

const (
	OrderEventTypeOrderCreated            OrderEventType = "order_created"
	OrderEventTypeOrderUpdated            OrderEventType = "order_updated"
	OrderEventTypeStatusChanged           OrderEventType = "status_changed"
	OrderEventTypePaymentRequestCreated   OrderEventType = "payment_request_created"
	OrderEventTypePaymentReceived         OrderEventType = "payment_received"
	OrderEventTypePaymentRequestCancelled OrderEventType = "payment_request_cancelled"
	OrderEventTypePaymentRequestDeleted   OrderEventType = "payment_request_deleted"
	OrderEventTypePaymentRequestOverdue   OrderEventType = "payment_request_overdue"
)

var validOrderEventTypes = []OrderEventType{
	OrderEventTypeOrderCreated,
	OrderEventTypeOrderUpdated,
	OrderEventTypeStatusChanged,
	OrderEventTypePaymentRequestCreated,
	OrderEventTypePaymentReceived,
	OrderEventTypePaymentRequestCancelled,
	OrderEventTypePaymentRequestDeleted,
	OrderEventTypePaymentRequestOverdue,
}

// String implements fmt.Stringer.
func (o OrderEventType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderEventType.
func (o OrderEventType) IsValid() bool {
	for _, candidate := range validOrderEventTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderEventType converts raw input into an OrderEventType.
func ParseOrderEventType(value string) (OrderEventType, error) {
	for _, candidate := range validOrderEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order event type %q", value)
}
