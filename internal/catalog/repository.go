package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mandimart/mandimart-backend/pkg/db/models"
	"github.com/mandimart/mandimart-backend/pkg/pagination"
)

// ProductRepository defines persistence for catalog listings and their
// pricing data.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ReplacePricingTiers(ctx context.Context, productID uuid.UUID, tiers []models.PricingTier) error
	ReplacePackOptions(ctx context.Context, productID uuid.UUID, packs []models.PackOption) error
	UpsertPackaging(ctx context.Context, packaging *models.Packaging) error
	ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, error)
}

// Repository wires catalog persistence to the shared GORM connection.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID; tiers, packs, and packaging cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// FindByID fetches a product with its tier table, pack options, and
// packaging. Tiers come back ordered by min_quantity so the resolver's
// first-match scan sees them in ascending order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("PricingTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_quantity ASC")
		}).
		Preload("PackOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Packaging").
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ReplacePricingTiers swaps the product's tier table atomically with respect
// to reads through this repository.
func (r *Repository) ReplacePricingTiers(ctx context.Context, productID uuid.UUID, tiers []models.PricingTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.PricingTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	return tx.Create(&tiers).Error
}

// ReplacePackOptions swaps the product's purchasable pack sizes.
func (r *Repository) ReplacePackOptions(ctx context.Context, productID uuid.UUID, packs []models.PackOption) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.PackOption{}).Error; err != nil {
		return err
	}
	if len(packs) == 0 {
		return nil
	}
	return tx.Create(&packs).Error
}

// UpsertPackaging writes the one packaging row per product.
func (r *Repository) UpsertPackaging(ctx context.Context, packaging *models.Packaging) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", packaging.ProductID).Delete(&models.Packaging{}).Error; err != nil {
		return err
	}
	return tx.Create(packaging).Error
}

// ListProducts returns active products newest first with cursor pagination.
// Callers pass the buffered limit and trim the extra row themselves.
func (r *Repository) ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Preload("PricingTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_quantity ASC")
		}).
		Preload("PackOptions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Packaging").
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt.UTC().Format(time.RFC3339Nano),
			cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
