package orders

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printdeskhq/printdesk-backend/internal/pricing"
	"github.com/printdeskhq/printdesk-backend/pkg/db/models"
	"github.com/printdeskhq/printdesk-backend/pkg/types"
)

// itemPlan is the keyed diff between an order's stored items and a freshly
// priced set. Matching lines keep their row identity so downstream references
// (designs, production tasks) stay attached across edits.
type itemPlan struct {
	creates []models.OrderItem
	updates []*models.OrderItem
	deletes []uuid.UUID
}

// lineKey identifies "the same configured line" across edits: product,
// variant chain, and the option fingerprint.
func lineKey(productID int64, variantID, subvariantID *int64, fingerprint *string) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(productID, 10))
	b.WriteByte('|')
	b.WriteString(formatOptionalID(variantID))
	b.WriteByte('|')
	b.WriteString(formatOptionalID(subvariantID))
	b.WriteByte('|')
	if fingerprint != nil {
		b.WriteString(*fingerprint)
	}
	return b.String()
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

// diffItems matches computed lines to existing rows by line key. Unmatched
// computed lines become inserts; unmatched existing rows are deleted. When a
// key occurs more than once, rows pair up in order.
func diffItems(orderID uuid.UUID, existing []models.OrderItem, computed []pricing.ComputedLineItem) itemPlan {
	byKey := make(map[string][]*models.OrderItem, len(existing))
	for i := range existing {
		item := &existing[i]
		key := lineKey(item.ProductID, item.VariantID, item.SubvariantID, item.Fingerprint)
		byKey[key] = append(byKey[key], item)
	}

	var plan itemPlan
	for i := range computed {
		line := &computed[i]
		key := lineKey(line.ProductID, line.VariantID, line.SubvariantID, line.Fingerprint)
		if rows := byKey[key]; len(rows) > 0 {
			row := rows[0]
			byKey[key] = rows[1:]
			applyComputedLine(row, line)
			plan.updates = append(plan.updates, row)
			continue
		}
		row := models.OrderItem{OrderID: orderID}
		applyComputedLine(&row, line)
		plan.creates = append(plan.creates, row)
	}

	for _, rows := range byKey {
		for _, row := range rows {
			plan.deletes = append(plan.deletes, row.ID)
		}
	}
	return plan
}

func applyComputedLine(row *models.OrderItem, line *pricing.ComputedLineItem) {
	row.ProductID = line.ProductID
	row.VariantID = line.VariantID
	row.SubvariantID = line.SubvariantID
	row.Name = line.Name
	row.Quantity = line.Quantity
	row.Unit = line.Unit
	row.PricingMethod = line.PricingMethod
	row.UnitPrice = line.UnitPrice
	row.LineTotal = line.LineTotal
	row.Fingerprint = line.Fingerprint

	if line.Options != nil {
		row.Options = types.JSONMap(line.Options)
	} else {
		row.Options = nil
	}

	if line.Roll != nil {
		row.RollID = &line.Roll.RollID
		row.CutWidthIn = decimalPtr(line.Roll.CutWidthIn.Round(4))
		row.CutHeightIn = decimalPtr(line.Roll.CutHeightIn.Round(4))
		row.FixedAreaFt2 = decimalPtr(line.Roll.FixedAreaFt2.Round(6))
		row.OffcutAreaFt2 = decimalPtr(line.Roll.OffcutAreaFt2.Round(6))
		row.PricePerSqFt = decimalPtr(line.Roll.PricePerSqFt.Round(2))
		row.OffcutRate = decimalPtr(line.Roll.OffcutRate.Round(2))
	} else {
		row.RollID = nil
		row.CutWidthIn = nil
		row.CutHeightIn = nil
		row.FixedAreaFt2 = nil
		row.OffcutAreaFt2 = nil
		row.PricePerSqFt = nil
		row.OffcutRate = nil
	}
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func (p itemPlan) String() string {
	return fmt.Sprintf("creates=%d updates=%d deletes=%d",
		len(p.creates), len(p.updates), len(p.deletes))
}
