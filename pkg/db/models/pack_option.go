package models

import (
	"time"

	"github.com/google/uuid"
)

// PackOption is a purchasable pack size, e.g. "box of 24". Multiplier expands
// one pack to its base-unit count.
type PackOption struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Code       string    `gorm:"column:code;not null"`
	Name       string    `gorm:"column:name;not null"`
	Multiplier int       `gorm:"column:multiplier;not null;default:1"`
	Position   int       `gorm:"column:position;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
