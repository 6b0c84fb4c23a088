package models

import (
	"time"

	"github.com/google/uuid"
)

// PricingTier captures one row of a product's ordered quantity-tier table.
// MaxQuantity nil means the tier is unbounded above.
type PricingTier struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	MinQuantity int       `gorm:"column:min_quantity;not null"`
	MaxQuantity *int      `gorm:"column:max_quantity"`
	Price       float64   `gorm:"column:price;type:numeric(12,2);not null"`
	Margin      float64   `gorm:"column:margin;type:numeric(5,2);not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
