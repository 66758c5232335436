package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

// Order carries the authoritative computed amounts for one customer order.
// Status is a key into the status catalog, not a closed enum, because the
// catalog is operator-defined configuration.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkingGroupID  uuid.UUID            `gorm:"column:working_group_id;type:uuid;not null;index"`
	CustomerID      *uuid.UUID           `gorm:"column:customer_id;type:uuid;index"`
	OrderNumber     int64                `gorm:"column:order_number;not null"`
	Status          string               `gorm:"column:status;not null;default:'pending'"`
	SubtotalAmount  decimal.Decimal      `gorm:"column:subtotal_amount;type:numeric(12,2);not null;default:0"`
	DiscountMode    enums.AdjustmentMode `gorm:"column:discount_mode;type:text;not null;default:'none'"`
	DiscountValue   decimal.Decimal      `gorm:"column:discount_value;type:numeric(12,2);not null;default:0"`
	DiscountAmount  decimal.Decimal      `gorm:"column:discount_amount;type:numeric(12,2);not null;default:0"`
	TaxMode         enums.AdjustmentMode `gorm:"column:tax_mode;type:text;not null;default:'none'"`
	TaxValue        decimal.Decimal      `gorm:"column:tax_value;type:numeric(12,2);not null;default:0"`
	TaxAmount       decimal.Decimal      `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	ShippingAmount  decimal.Decimal      `gorm:"column:shipping_amount;type:numeric(12,2);not null;default:0"`
	TotalAmount     decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	Notes           *string              `gorm:"column:notes"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaymentRequests []PaymentRequest     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Events          []OrderEvent         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
