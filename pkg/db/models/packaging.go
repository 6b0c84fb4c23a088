package models

import (
	"time"

	"github.com/google/uuid"
)

// Packaging describes how box/pack purchase modes expand to base units.
type Packaging struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex"`
	UnitsPerBox  int       `gorm:"column:units_per_box;not null"`
	BoxesPerPack int       `gorm:"column:boxes_per_pack;not null"`
	MinBoxes     int       `gorm:"column:min_boxes;not null;default:1"`
	MaxBoxes     int       `gorm:"column:max_boxes;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
