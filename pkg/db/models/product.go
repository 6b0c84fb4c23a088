package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mandimart/mandimart-backend/pkg/enums"
)

// Product represents a catalog listing with its tier table and packaging.
type Product struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU          string            `gorm:"column:sku;not null"`
	Name         string            `gorm:"column:name;not null"`
	Description  *string           `gorm:"column:description"`
	Tags         pq.StringArray    `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	Unit         enums.ProductUnit `gorm:"column:unit;not null;default:piece"`
	MRP          float64           `gorm:"column:mrp;type:numeric(12,2);not null"`
	IsActive     bool              `gorm:"column:is_active;not null;default:true"`
	PricingTiers []PricingTier     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	PackOptions  []PackOption      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Packaging    *Packaging        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
