package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

func TestApplyCascade_DiscountBeforeTax(t *testing.T) {
	result := ApplyCascade(CascadeInput{
		Subtotal:      decimal.NewFromInt(1000),
		DiscountMode:  enums.AdjustmentModePercent,
		DiscountValue: decimal.NewFromInt(10),
		TaxMode:       enums.AdjustmentModePercent,
		TaxValue:      decimal.NewFromInt(15),
		Shipping:      decimal.NewFromInt(50),
	})

	if result.Discount.StringFixed(2) != "100.00" {
		t.Fatalf("unexpected discount: %s", result.Discount)
	}
	if result.Tax.StringFixed(2) != "135.00" {
		t.Fatalf("tax must apply to the discounted base: %s", result.Tax)
	}
	if result.Shipping.StringFixed(2) != "50.00" {
		t.Fatalf("unexpected shipping: %s", result.Shipping)
	}
	if result.Total.StringFixed(2) != "1085.00" {
		t.Fatalf("unexpected total: %s", result.Total)
	}

	// Guard against regressing to tax-before-discount: that ordering would
	// tax the full 1000 and produce 1100.00 instead of 1085.00.
	if result.Total.StringFixed(2) == "1100.00" {
		t.Fatal("tax was computed before the discount")
	}
}

func TestApplyCascade_Modes(t *testing.T) {
	tests := []struct {
		name     string
		input    CascadeInput
		discount string
		tax      string
		total    string
	}{
		{
			name: "no adjustments",
			input: CascadeInput{
				Subtotal: decimal.NewFromInt(250),
			},
			discount: "0.00",
			tax:      "0.00",
			total:    "250.00",
		},
		{
			name: "fixed discount and fixed tax",
			input: CascadeInput{
				Subtotal:      decimal.NewFromInt(200),
				DiscountMode:  enums.AdjustmentModeFixed,
				DiscountValue: decimal.NewFromInt(50),
				TaxMode:       enums.AdjustmentModeFixed,
				TaxValue:      decimal.NewFromInt(12),
			},
			discount: "50.00",
			tax:      "12.00",
			total:    "162.00",
		},
		{
			name: "fixed discount larger than subtotal floors the tax base",
			input: CascadeInput{
				Subtotal:      decimal.NewFromInt(100),
				DiscountMode:  enums.AdjustmentModeFixed,
				DiscountValue: decimal.NewFromInt(150),
				TaxMode:       enums.AdjustmentModePercent,
				TaxValue:      decimal.NewFromInt(10),
			},
			discount: "150.00",
			tax:      "0.00",
			total:    "0.00",
		},
		{
			name: "percent discount clamps at 100",
			input: CascadeInput{
				Subtotal:      decimal.NewFromInt(100),
				DiscountMode:  enums.AdjustmentModePercent,
				DiscountValue: decimal.NewFromInt(250),
			},
			discount: "100.00",
			tax:      "0.00",
			total:    "0.00",
		},
		{
			name: "negative values are ignored",
			input: CascadeInput{
				Subtotal:      decimal.NewFromInt(100),
				DiscountMode:  enums.AdjustmentModeFixed,
				DiscountValue: decimal.NewFromInt(-20),
				TaxMode:       enums.AdjustmentModePercent,
				TaxValue:      decimal.NewFromInt(-5),
				Shipping:      decimal.NewFromInt(-10),
			},
			discount: "0.00",
			tax:      "0.00",
			total:    "100.00",
		},
		{
			name: "percent tax rounds to cents",
			input: CascadeInput{
				Subtotal: decimal.RequireFromString("99.99"),
				TaxMode:  enums.AdjustmentModePercent,
				TaxValue: decimal.RequireFromString("8.25"),
				Shipping: decimal.RequireFromString("5.50"),
			},
			discount: "0.00",
			tax:      "8.25",
			total:    "113.74",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := ApplyCascade(tc.input)
			if result.Discount.StringFixed(2) != tc.discount {
				t.Fatalf("discount = %s, want %s", result.Discount, tc.discount)
			}
			if result.Tax.StringFixed(2) != tc.tax {
				t.Fatalf("tax = %s, want %s", result.Tax, tc.tax)
			}
			if result.Total.StringFixed(2) != tc.total {
				t.Fatalf("total = %s, want %s", result.Total, tc.total)
			}
		})
	}
}
