package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

// Product is an immutable pricing input: either a standard unit-priced item or
// a roll-cut item priced by area.
type Product struct {
	ID             int64               `gorm:"column:id;primaryKey;autoIncrement"`
	WorkingGroupID uuid.UUID           `gorm:"column:working_group_id;type:uuid;not null;index"`
	Name           string              `gorm:"column:name;not null"`
	SKU            string              `gorm:"column:sku;not null"`
	PricingMethod  enums.PricingMethod `gorm:"column:pricing_method;type:text;not null;default:'standard'"`
	Price          decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	PricePerSqFt   decimal.Decimal     `gorm:"column:price_per_sqft;type:numeric(12,2);not null;default:0"`
	UnitOfMeasure  string              `gorm:"column:unit_of_measure;not null;default:'each'"`
	IsActive       bool                `gorm:"column:is_active;not null;default:true"`
	Variants       []ProductVariant    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
