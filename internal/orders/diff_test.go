package orders

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printdeskhq/printdesk-backend/internal/pricing"
	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

func TestDiffItems_KeepsMatchingRowIdentity(t *testing.T) {
	orderID := uuid.New()
	fingerprint := "abc123"
	variant := int64(10)

	existing := []models.OrderItem{
		{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductID:   1,
			VariantID:   &variant,
			Fingerprint: &fingerprint,
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(25),
			LineTotal:   decimal.NewFromInt(25),
		},
		{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: 2,
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(10),
			LineTotal: decimal.NewFromInt(10),
		},
	}

	computed := []pricing.ComputedLineItem{
		{
			ProductID:     1,
			VariantID:     &variant,
			Fingerprint:   &fingerprint,
			Name:          "Business Cards",
			Quantity:      3,
			PricingMethod: enums.PricingMethodStandard,
			UnitPrice:     decimal.NewFromInt(25),
			LineTotal:     decimal.NewFromInt(75),
		},
		{
			ProductID:     5,
			Name:          "Stickers",
			Quantity:      1,
			PricingMethod: enums.PricingMethodStandard,
			UnitPrice:     decimal.NewFromInt(12),
			LineTotal:     decimal.NewFromInt(12),
		},
	}

	plan := diffItems(orderID, existing, computed)

	if len(plan.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(plan.updates))
	}
	updated := plan.updates[0]
	if updated.ID != existing[0].ID {
		t.Fatal("matching line must keep its row id")
	}
	if updated.Quantity != 3 || updated.LineTotal.StringFixed(2) != "75.00" {
		t.Fatalf("updated row not re-priced: qty=%d total=%s", updated.Quantity, updated.LineTotal)
	}

	if len(plan.creates) != 1 || plan.creates[0].ProductID != 5 {
		t.Fatalf("expected 1 create for product 5, got %+v", plan.creates)
	}
	if plan.creates[0].OrderID != orderID {
		t.Fatal("created row must belong to the order")
	}

	if len(plan.deletes) != 1 || plan.deletes[0] != existing[1].ID {
		t.Fatalf("expected removal of the dropped line, got %v", plan.deletes)
	}
}

func TestDiffItems_FingerprintDistinguishesLines(t *testing.T) {
	orderID := uuid.New()
	black := "fp-black"
	white := "fp-white"

	existing := []models.OrderItem{
		{ID: uuid.New(), OrderID: orderID, ProductID: 1, Fingerprint: &black, Quantity: 1},
	}
	computed := []pricing.ComputedLineItem{
		{ProductID: 1, Fingerprint: &white, Quantity: 1, UnitPrice: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(5)},
	}

	plan := diffItems(orderID, existing, computed)
	if len(plan.updates) != 0 {
		t.Fatal("different fingerprints must not match")
	}
	if len(plan.creates) != 1 || len(plan.deletes) != 1 {
		t.Fatalf("expected replace, got %s", plan)
	}
}

func TestDiffItems_DuplicateKeysPairInOrder(t *testing.T) {
	orderID := uuid.New()

	existing := []models.OrderItem{
		{ID: uuid.New(), OrderID: orderID, ProductID: 1, Quantity: 1},
		{ID: uuid.New(), OrderID: orderID, ProductID: 1, Quantity: 2},
	}
	computed := []pricing.ComputedLineItem{
		{ProductID: 1, Quantity: 4, UnitPrice: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(20)},
	}

	plan := diffItems(orderID, existing, computed)
	if len(plan.updates) != 1 || plan.updates[0].ID != existing[0].ID {
		t.Fatal("first matching row should be reused")
	}
	if len(plan.deletes) != 1 || plan.deletes[0] != existing[1].ID {
		t.Fatal("surplus duplicate should be deleted")
	}
}

func TestDiffItems_RollMetricsRoundTrip(t *testing.T) {
	orderID := uuid.New()
	rollID := int64(20)

	computed := []pricing.ComputedLineItem{
		{
			ProductID:     2,
			Name:          "Vinyl Banner",
			Quantity:      2,
			PricingMethod: enums.PricingMethodRoll,
			UnitPrice:     decimal.RequireFromString("3066.67"),
			LineTotal:     decimal.RequireFromString("6133.34"),
			Roll: &pricing.RollMetrics{
				RollID:        rollID,
				FixedAreaFt2:  decimal.NewFromInt(6),
				OffcutAreaFt2: decimal.RequireFromString("0.666667"),
				PricePerSqFt:  decimal.NewFromInt(500),
				OffcutRate:    decimal.NewFromInt(100),
				CutWidthIn:    decimal.NewFromInt(36),
				CutHeightIn:   decimal.NewFromInt(24),
			},
		},
	}

	plan := diffItems(orderID, nil, computed)
	if len(plan.creates) != 1 {
		t.Fatalf("expected 1 create, got %d", len(plan.creates))
	}
	row := plan.creates[0]
	if row.RollID == nil || *row.RollID != rollID {
		t.Fatalf("roll id not carried: %v", row.RollID)
	}
	if row.FixedAreaFt2 == nil || row.FixedAreaFt2.StringFixed(6) != "6.000000" {
		t.Fatalf("unexpected fixed area: %v", row.FixedAreaFt2)
	}
	if row.OffcutAreaFt2 == nil || row.OffcutAreaFt2.StringFixed(6) != "0.666667" {
		t.Fatalf("unexpected offcut area: %v", row.OffcutAreaFt2)
	}
}
