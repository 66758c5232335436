package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the buyer an order or estimate is addressed to.
type Customer struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkingGroupID uuid.UUID `gorm:"column:working_group_id;type:uuid;not null;index"`
	Name           string    `gorm:"column:name;not null"`
	Email          string    `gorm:"column:email;not null"`
	Phone          *string   `gorm:"column:phone"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
