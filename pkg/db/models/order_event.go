package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/printdeskhq/printdesk-backend/pkg/enums"
	"github.com/printdeskhq/printdesk-backend/pkg/types"
)

// OrderEvent is an append-only timeline entry. Rows are never updated or
// deleted after creation.
type OrderEvent struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	EventType  enums.OrderEventType  `gorm:"column:event_type;type:text;not null"`
	Visibility enums.EventVisibility `gorm:"column:visibility;type:text;not null;default:'admin'"`
	OldStatus  *string               `gorm:"column:old_status"`
	NewStatus  *string               `gorm:"column:new_status"`
	Message    *string               `gorm:"column:message"`
	Data       types.JSONMap         `gorm:"column:data;type:jsonb;serializer:json"`
	Actor      string                `gorm:"column:actor;not null;default:'system'"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
}
