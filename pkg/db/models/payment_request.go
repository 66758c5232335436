package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/printdeskhq/printdesk-backend/pkg/enums"
)

// PaymentRequest is an admin-issued ask for a specific amount against an
// order. AmountPaid only ever grows and never exceeds AmountRequested.
type PaymentRequest struct {
	ID              uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID                  `gorm:"column:order_id;type:uuid;not null;index"`
	AmountRequested decimal.Decimal            `gorm:"column:amount_requested;type:numeric(12,2);not null"`
	AmountPaid      decimal.Decimal            `gorm:"column:amount_paid;type:numeric(12,2);not null;default:0"`
	Status          enums.PaymentRequestStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	DueDate         *time.Time                 `gorm:"column:due_date"`
	PaymentMethod   *enums.PaymentMethod       `gorm:"column:payment_method;type:text"`
	ReferenceNumber *string                    `gorm:"column:reference_number"`
	Notes           *string                    `gorm:"column:notes"`
	AdminNotes      *string                    `gorm:"column:admin_notes"`
	PaidAt          *time.Time                 `gorm:"column:paid_at"`
	CreatedAt       time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
