package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Roll is a fixed-width print substrate. RollWidthFt is the usable width in
// feet; OffcutPricePerSqFt is the waste rate billed for the leftover strip.
type Roll struct {
	ID                 int64           `gorm:"column:id;primaryKey;autoIncrement"`
	WorkingGroupID     uuid.UUID       `gorm:"column:working_group_id;type:uuid;not null;index"`
	Name               string          `gorm:"column:name;not null"`
	RollWidthFt        decimal.Decimal `gorm:"column:roll_width;type:numeric(10,6);not null"`
	OffcutPricePerSqFt decimal.Decimal `gorm:"column:offcut_price;type:numeric(12,2);not null;default:0"`
	IsActive           bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
