package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mandimart/mandimart-backend/internal/pricing"
	"github.com/mandimart/mandimart-backend/pkg/db"
	"github.com/mandimart/mandimart-backend/pkg/db/models"
	pkgerrors "github.com/mandimart/mandimart-backend/pkg/errors"
	"github.com/mandimart/mandimart-backend/pkg/logger"
	"github.com/mandimart/mandimart-backend/pkg/pagination"
)

// Service exposes catalog management and the read path the cart prices
// against. Tier tables are validated here, at ingestion, so pricing never
// sees a malformed table.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, params pagination.Params) (*ProductListResult, error)
	Snapshot(ctx context.Context, productID uuid.UUID) (*Snapshot, error)
}

type service struct {
	repo     ProductRepository
	dbClient *db.Client
	logg     *logger.Logger
}

// NewService constructs the catalog service.
func NewService(repo ProductRepository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

// CreateProduct validates and persists a listing with its tier table, pack
// options, and packaging.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validatePricingInputs(input.Tiers, input.Packaging); err != nil {
		return nil, err
	}
	if !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product unit")
	}

	product := &models.Product{
		ID:          uuid.New(),
		SKU:         input.SKU,
		Name:        input.Name,
		Description: input.Description,
		Tags:        pq.StringArray(input.Tags),
		Unit:        input.Unit,
		MRP:         input.MRP,
		IsActive:    input.IsActive,
	}
	if product.Tags == nil {
		product.Tags = pq.StringArray{}
	}

	err := s.withTx(ctx, func(repo ProductRepository) error {
		if _, err := repo.CreateProduct(ctx, product); err != nil {
			return err
		}
		if err := repo.ReplacePricingTiers(ctx, product.ID, tierModels(product.ID, input.Tiers)); err != nil {
			return err
		}
		if err := repo.ReplacePackOptions(ctx, product.ID, packModels(product.ID, input.Packs)); err != nil {
			return err
		}
		if input.Packaging != nil {
			return repo.UpsertPackaging(ctx, packagingModel(product.ID, *input.Packaging))
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}

	s.logg.Info(s.logg.WithProductID(ctx, product.ID.String()), "product created")
	return s.GetProduct(ctx, product.ID)
}

// UpdateProduct applies partial changes. Replacing the tier table re-runs
// ingestion validation on the incoming table as a whole.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Tiers != nil {
		if err := validatePricingInputs(*input.Tiers, input.Packaging); err != nil {
			return nil, err
		}
	} else if input.Packaging != nil {
		if err := pricing.ValidatePackaging(packagingFromInput(*input.Packaging)); err != nil {
			return nil, err
		}
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFoundOrInternal(err, "loading product")
	}

	applyProductPatch(product, input)

	err = s.withTx(ctx, func(repo ProductRepository) error {
		if _, err := repo.UpdateProduct(ctx, product); err != nil {
			return err
		}
		if input.Tiers != nil {
			if err := repo.ReplacePricingTiers(ctx, productID, tierModels(productID, *input.Tiers)); err != nil {
				return err
			}
		}
		if input.Packs != nil {
			if err := repo.ReplacePackOptions(ctx, productID, packModels(productID, *input.Packs)); err != nil {
				return err
			}
		}
		if input.Packaging != nil {
			return repo.UpsertPackaging(ctx, packagingModel(productID, *input.Packaging))
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}

	s.logg.Info(s.logg.WithProductID(ctx, productID.String()), "product updated")
	return s.GetProduct(ctx, productID)
}

// DeleteProduct removes the listing and its pricing data.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		return notFoundOrInternal(err, "loading product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	s.logg.Info(s.logg.WithProductID(ctx, productID.String()), "product deleted")
	return nil
}

// GetProduct fetches the full listing.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFoundOrInternal(err, "loading product")
	}
	return toProductDTO(product), nil
}

// ListProducts pages through active listings newest first.
func (s *service) ListProducts(ctx context.Context, params pagination.Params) (*ProductListResult, error) {
	rows, err := s.repo.ListProducts(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	result := &ProductListResult{Products: make([]ProductDTO, 0, len(rows))}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		result.Products = append(result.Products, *toProductDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

// Snapshot builds the detached product view the cart engine prices against.
// Inactive products are not purchasable.
func (s *service) Snapshot(ctx context.Context, productID uuid.UUID) (*Snapshot, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, notFoundOrInternal(err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not active")
	}
	if len(product.PricingTiers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product has no pricing data")
	}
	return SnapshotFromModel(product), nil
}

// withTx runs fn against a transaction-bound repository when the shared DB
// client is present. Stub repositories in tests run without one.
func (s *service) withTx(ctx context.Context, fn func(repo ProductRepository) error) error {
	if s.dbClient == nil {
		return fn(s.repo)
	}
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo, ok := s.repo.(*Repository)
		if !ok {
			return fn(s.repo)
		}
		return fn(repo.WithTx(tx))
	})
}

func validatePricingInputs(tiers []TierInput, packaging *PackagingInput) error {
	if err := pricing.ValidateTiers(tiersFromInputs(tiers)); err != nil {
		return err
	}
	if packaging != nil {
		return pricing.ValidatePackaging(packagingFromInput(*packaging))
	}
	return nil
}

func applyProductPatch(product *models.Product, input UpdateProductInput) {
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Tags != nil {
		product.Tags = pq.StringArray(*input.Tags)
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.MRP != nil {
		product.MRP = *input.MRP
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	// Associations are replaced through their own repository calls; clearing
	// them here keeps Save from writing stale preloaded rows.
	product.PricingTiers = nil
	product.PackOptions = nil
	product.Packaging = nil
}

func packagingModel(productID uuid.UUID, input PackagingInput) *models.Packaging {
	return &models.Packaging{
		ProductID:    productID,
		UnitsPerBox:  input.UnitsPerBox,
		BoxesPerPack: input.BoxesPerPack,
		MinBoxes:     input.MinBoxes,
		MaxBoxes:     input.MaxBoxes,
	}
}

func packagingFromInput(input PackagingInput) pricing.Packaging {
	return pricing.Packaging{
		UnitsPerBox:  input.UnitsPerBox,
		BoxesPerPack: input.BoxesPerPack,
		MinBoxes:     input.MinBoxes,
		MaxBoxes:     input.MaxBoxes,
	}
}

func notFoundOrInternal(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}
