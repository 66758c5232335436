package enums

import "fmt"

// AdjustmentMode describes how a discount or tax value is applied to a base amount.
type AdjustmentMode string

const (
	AdjustmentModeNone    AdjustmentMode = "none"
	AdjustmentModeFixed   AdjustmentMode = "fixed"
	AdjustmentModePercent AdjustmentMode = "percent"
)

var validAdjustmentModes = []AdjustmentMode{
	AdjustmentModeNone,
	AdjustmentModeFixed,
	AdjustmentModePercent,
}

// String implements fmt.Stringer.
func (a AdjustmentMode) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AdjustmentMode.
func (a AdjustmentMode) IsValid() bool {
	for _, candidate := range validAdjustmentModes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdjustmentMode converts raw input into an AdjustmentMode.
func ParseAdjustmentMode(value string) (AdjustmentMode, error) {
	for _, candidate := range validAdjustmentModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjustment mode %q", value)
}
