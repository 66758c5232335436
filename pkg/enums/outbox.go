package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type column on outbox_events.
type OutboxAggregateType string

const (
	AggregateOrder          OutboxAggregateType = "order"
	AggregatePaymentRequest OutboxAggregateType = "payment_request"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregatePaymentRequest,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox aggregate type %q", value)
}

// OutboxEventType names the domain events emitted through the outbox.
type OutboxEventType string

const (
	EventOrderStatusChanged    OutboxEventType = "order.status_changed"
	EventOrderTotalsRecomputed OutboxEventType = "order.totals_recomputed"
	EventPaymentRequestCreated OutboxEventType = "payment.request_created"
	EventPaymentReceived       OutboxEventType = "payment.received"
	EventPaymentRequestOverdue OutboxEventType = "payment.request_overdue"
	EventNotificationRequested OutboxEventType = "notification.requested"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderStatusChanged,
	EventOrderTotalsRecomputed,
	EventPaymentRequestCreated,
	EventPaymentReceived,
	EventPaymentRequestOverdue,
	EventNotificationRequested,
}

// IsValid reports whether the value is a known OutboxEventType.
func (o OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}
