package enums

import "fmt"

// PricingMethod selects how a product's line price is computed.
type PricingMethod string

const (
	PricingMethodStandard PricingMethod = "standard"
	PricingMethodRoll     PricingMethod = "roll"
)

var validPricingMethods = []PricingMethod{
	PricingMethodStandard,
	PricingMethodRoll,
}

// String implements fmt.Stringer.
func (p PricingMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PricingMethod.
func (p PricingMethod) IsValid() bool {
	for _, candidate := range validPricingMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePricingMethod converts raw input into a PricingMethod.
func ParsePricingMethod(value string) (PricingMethod, error) {
	for _, candidate := range validPricingMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pricing method %q", value)
}
