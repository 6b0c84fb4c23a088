package catalog

import (
	"github.com/google/uuid"

	"github.com/mandimart/mandimart-backend/internal/pricing"
	"github.com/mandimart/mandimart-backend/pkg/db/models"
	"github.com/mandimart/mandimart-backend/pkg/enums"
)

// Snapshot is the read-only product view the cart engine prices against.
// It is detached from the catalog storage: carts keep the copy they were
// priced with.
type Snapshot struct {
	ID        uuid.UUID          `json:"id"`
	SKU       string             `json:"sku"`
	Name      string             `json:"name"`
	Unit      enums.ProductUnit  `json:"unit"`
	MRP       float64            `json:"mrp"`
	Tiers     []pricing.Tier     `json:"tiers,omitempty"`
	Bands     pricing.BandTable  `json:"bands,omitempty"`
	Packs     []PackChoice       `json:"packs,omitempty"`
	Packaging *pricing.Packaging `json:"packaging,omitempty"`
}

// PackChoice is a purchasable pack size on the snapshot.
type PackChoice struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Multiplier int    `json:"multiplier"`
}

// Resolver returns the pricing strategy for this product. Products carry
// either an ordered range table or a legacy band table; the range table wins
// when both are present.
func (s Snapshot) Resolver() pricing.Resolver {
	if len(s.Tiers) > 0 {
		return pricing.RangeResolver{Tiers: s.Tiers}
	}
	return pricing.BandResolver{Table: s.Bands}
}

// Pack looks up a pack choice by code.
func (s Snapshot) Pack(code string) (PackChoice, bool) {
	for _, pack := range s.Packs {
		if pack.Code == code {
			return pack, true
		}
	}
	return PackChoice{}, false
}

// SnapshotFromModel flattens a stored product into the cart-facing view.
// Tiers arrive ordered by min_quantity from the repository.
func SnapshotFromModel(product *models.Product) *Snapshot {
	if product == nil {
		return nil
	}

	snapshot := &Snapshot{
		ID:   product.ID,
		SKU:  product.SKU,
		Name: product.Name,
		Unit: product.Unit,
		MRP:  product.MRP,
	}

	for _, tier := range product.PricingTiers {
		snapshot.Tiers = append(snapshot.Tiers, pricing.Tier{
			MinQuantity: tier.MinQuantity,
			MaxQuantity: copyIntPtr(tier.MaxQuantity),
			Price:       tier.Price,
			Margin:      tier.Margin,
		})
	}

	for _, pack := range product.PackOptions {
		snapshot.Packs = append(snapshot.Packs, PackChoice{
			Code:       pack.Code,
			Name:       pack.Name,
			Multiplier: pack.Multiplier,
		})
	}

	if product.Packaging != nil {
		snapshot.Packaging = &pricing.Packaging{
			UnitsPerBox:  product.Packaging.UnitsPerBox,
			BoxesPerPack: product.Packaging.BoxesPerPack,
			MinBoxes:     product.Packaging.MinBoxes,
			MaxBoxes:     product.Packaging.MaxBoxes,
		}
	}

	return snapshot
}

func copyIntPtr(src *int) *int {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
