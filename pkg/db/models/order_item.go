package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printdeskhq/printdesk-backend/pkg/enums"
	"github.com/printdeskhq/printdesk-backend/pkg/types"
)

// OrderItem is the priced snapshot of one line on an order. Roll metrics are
// nil for standard-priced lines.
type OrderItem struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID     int64               `gorm:"column:product_id;not null"`
	VariantID     *int64              `gorm:"column:variant_id"`
	SubvariantID  *int64              `gorm:"column:subvariant_id"`
	Name          string              `gorm:"column:name;not null"`
	Quantity      int                 `gorm:"column:quantity;not null"`
	Unit          string              `gorm:"column:unit;not null;default:'each'"`
	PricingMethod enums.PricingMethod `gorm:"column:pricing_method;type:text;not null"`
	UnitPrice     decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal     decimal.Decimal     `gorm:"column:line_total;type:numeric(12,2);not null"`
	RollID        *int64              `gorm:"column:roll_id"`
	CutWidthIn    *decimal.Decimal    `gorm:"column:cut_width_in;type:numeric(10,4)"`
	CutHeightIn   *decimal.Decimal    `gorm:"column:cut_height_in;type:numeric(10,4)"`
	FixedAreaFt2  *decimal.Decimal    `gorm:"column:fixed_area_ft2;type:numeric(12,6)"`
	OffcutAreaFt2 *decimal.Decimal    `gorm:"column:offcut_area_ft2;type:numeric(12,6)"`
	PricePerSqFt  *decimal.Decimal    `gorm:"column:price_per_sqft;type:numeric(12,2)"`
	OffcutRate    *decimal.Decimal    `gorm:"column:offcut_rate;type:numeric(12,2)"`
	Fingerprint   *string             `gorm:"column:fingerprint;index"`
	Options       types.JSONMap       `gorm:"column:options;type:jsonb;serializer:json"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
