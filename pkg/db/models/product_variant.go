package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant is a selectable option of a product. Subvariants reference
// their parent variant through ParentVariantID.
type ProductVariant struct {
	ID              int64            `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID       int64            `gorm:"column:product_id;not null;index"`
	ParentVariantID *int64           `gorm:"column:parent_variant_id;index"`
	Name            string           `gorm:"column:name;not null"`
	Price           *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
