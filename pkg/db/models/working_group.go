package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkingGroup is the tenant boundary: products, rolls, orders, and customers
// all belong to exactly one working group.
type WorkingGroup struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;unique"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
