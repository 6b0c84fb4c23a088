package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/mandimart/mandimart-backend/internal/pricing"
	"github.com/mandimart/mandimart-backend/pkg/db/models"
	"github.com/mandimart/mandimart-backend/pkg/enums"
	"github.com/mandimart/mandimart-backend/pkg/money"
)

// TierInput is one row of the tier table as submitted at ingestion.
type TierInput struct {
	MinQuantity int     `json:"min_quantity" validate:"required,min=1"`
	MaxQuantity *int    `json:"max_quantity" validate:"omitempty,min=1"`
	Price       float64 `json:"price" validate:"min=0"`
	Margin      float64 `json:"margin" validate:"min=0,max=100"`
}

// PackInput is a purchasable pack size as submitted at ingestion.
type PackInput struct {
	Code       string `json:"code" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Multiplier int    `json:"multiplier" validate:"required,min=1"`
}

// PackagingInput describes box/pack expansion rules for the product.
type PackagingInput struct {
	UnitsPerBox  int `json:"units_per_box" validate:"required,min=1"`
	BoxesPerPack int `json:"boxes_per_pack" validate:"required,min=1"`
	MinBoxes     int `json:"min_boxes" validate:"min=0"`
	MaxBoxes     int `json:"max_boxes" validate:"min=0"`
}

// CreateProductInput holds the validated payload to create a listing.
type CreateProductInput struct {
	SKU         string
	Name        string
	Description *string
	Tags        []string
	Unit        enums.ProductUnit
	MRP         float64
	IsActive    bool
	Tiers       []TierInput
	Packs       []PackInput
	Packaging   *PackagingInput
}

// UpdateProductInput holds optional mutation values for a listing.
type UpdateProductInput struct {
	SKU         *string
	Name        *string
	Description *string
	Tags        *[]string
	Unit        *enums.ProductUnit
	MRP         *float64
	IsActive    *bool
	Tiers       *[]TierInput
	Packs       *[]PackInput
	Packaging   *PackagingInput
}

// TierDTO is the outward shape of one tier row, price pre-formatted for
// display.
type TierDTO struct {
	MinQuantity   int     `json:"min_quantity"`
	MaxQuantity   *int    `json:"max_quantity,omitempty"`
	Price         float64 `json:"price"`
	DisplayPrice  string  `json:"display_price"`
	Margin        float64 `json:"margin"`
	DisplayMargin string  `json:"display_margin"`
}

// PackDTO is the outward shape of a pack option.
type PackDTO struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Multiplier int    `json:"multiplier"`
}

// PackagingDTO is the outward shape of box/pack expansion rules.
type PackagingDTO struct {
	UnitsPerBox  int `json:"units_per_box"`
	BoxesPerPack int `json:"boxes_per_pack"`
	MinBoxes     int `json:"min_boxes"`
	MaxBoxes     int `json:"max_boxes"`
}

// ProductDTO is the outward shape of a catalog listing.
type ProductDTO struct {
	ID          uuid.UUID         `json:"id"`
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	Tags        []string          `json:"tags"`
	Unit        enums.ProductUnit `json:"unit"`
	MRP         float64           `json:"mrp"`
	DisplayMRP  string            `json:"display_mrp"`
	IsActive    bool              `json:"is_active"`
	Tiers       []TierDTO         `json:"tiers"`
	Packs       []PackDTO         `json:"packs"`
	Packaging   *PackagingDTO     `json:"packaging,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListResult is one page of listings plus the cursor for the next.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func toProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}

	dto := &ProductDTO{
		ID:          product.ID,
		SKU:         product.SKU,
		Name:        product.Name,
		Description: product.Description,
		Tags:        append([]string{}, product.Tags...),
		Unit:        product.Unit,
		MRP:         product.MRP,
		DisplayMRP:  money.FormatPrice(product.MRP),
		IsActive:    product.IsActive,
		Tiers:       make([]TierDTO, 0, len(product.PricingTiers)),
		Packs:       make([]PackDTO, 0, len(product.PackOptions)),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}

	for _, tier := range product.PricingTiers {
		dto.Tiers = append(dto.Tiers, TierDTO{
			MinQuantity:   tier.MinQuantity,
			MaxQuantity:   copyIntPtr(tier.MaxQuantity),
			Price:         tier.Price,
			DisplayPrice:  money.FormatPrice(tier.Price),
			Margin:        tier.Margin,
			DisplayMargin: money.FormatMargin(tier.Margin),
		})
	}

	for _, pack := range product.PackOptions {
		dto.Packs = append(dto.Packs, PackDTO{
			Code:       pack.Code,
			Name:       pack.Name,
			Multiplier: pack.Multiplier,
		})
	}

	if product.Packaging != nil {
		dto.Packaging = &PackagingDTO{
			UnitsPerBox:  product.Packaging.UnitsPerBox,
			BoxesPerPack: product.Packaging.BoxesPerPack,
			MinBoxes:     product.Packaging.MinBoxes,
			MaxBoxes:     product.Packaging.MaxBoxes,
		}
	}

	return dto
}

func tiersFromInputs(inputs []TierInput) []pricing.Tier {
	tiers := make([]pricing.Tier, 0, len(inputs))
	for _, input := range inputs {
		tiers = append(tiers, pricing.Tier{
			MinQuantity: input.MinQuantity,
			MaxQuantity: copyIntPtr(input.MaxQuantity),
			Price:       input.Price,
			Margin:      input.Margin,
		})
	}
	return tiers
}

func tierModels(productID uuid.UUID, inputs []TierInput) []models.PricingTier {
	rows := make([]models.PricingTier, 0, len(inputs))
	for _, input := range inputs {
		rows = append(rows, models.PricingTier{
			ProductID:   productID,
			MinQuantity: input.MinQuantity,
			MaxQuantity: copyIntPtr(input.MaxQuantity),
			Price:       input.Price,
			Margin:      input.Margin,
		})
	}
	return rows
}

func packModels(productID uuid.UUID, inputs []PackInput) []models.PackOption {
	rows := make([]models.PackOption, 0, len(inputs))
	for i, input := range inputs {
		rows = append(rows, models.PackOption{
			ProductID:  productID,
			Code:       input.Code,
			Name:       input.Name,
			Multiplier: input.Multiplier,
			Position:   i,
		})
	}
	return rows
}
