package enums

import "fmt"

// EventVisibility controls which audience may read a timeline event.
type EventVisibility string

const (
	EventVisibilityAdmin    EventVisibility = "admin"
	EventVisibilityCustomer EventVisibility = "customer"
	EventVisibilityPublic   EventVisibility = "public"
)

var validEventVisibilities = []EventVisibility{
	EventVisibilityAdmin,
	EventVisibilityCustomer,
	EventVisibilityPublic,
}

// String implements fmt.Stringer.
func (e EventVisibility) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventVisibility.
func (e EventVisibility) IsValid() bool {
	for _, candidate := range validEventVisibilities {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventVisibility converts raw input into an EventVisibility.
func ParseEventVisibility(value string) (EventVisibility, error) {
	for _, candidate := range validEventVisibilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event visibility %q", value)
}
