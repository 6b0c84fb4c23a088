package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mandimart/mandimart-backend/pkg/db/models"
	"github.com/mandimart/mandimart-backend/pkg/enums"
	pkgerrors "github.com/mandimart/mandimart-backend/pkg/errors"
	"github.com/mandimart/mandimart-backend/pkg/logger"
	"github.com/mandimart/mandimart-backend/pkg/pagination"
)

type stubRepo struct {
	products  map[uuid.UUID]*models.Product
	tiers     map[uuid.UUID][]models.PricingTier
	packs     map[uuid.UUID][]models.PackOption
	packaging map[uuid.UUID]*models.Packaging
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		products:  make(map[uuid.UUID]*models.Product),
		tiers:     make(map[uuid.UUID][]models.PricingTier),
		packs:     make(map[uuid.UUID][]models.PackOption),
		packaging: make(map[uuid.UUID]*models.Packaging),
	}
}

func (s *stubRepo) CreateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	copied := *product
	s.products[product.ID] = &copied
	return product, nil
}

func (s *stubRepo) UpdateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	copied := *product
	s.products[product.ID] = &copied
	return product, nil
}

func (s *stubRepo) DeleteProduct(_ context.Context, id uuid.UUID) error {
	delete(s.products, id)
	delete(s.tiers, id)
	delete(s.packs, id)
	delete(s.packaging, id)
	return nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *product
	copied.PricingTiers = s.tiers[id]
	copied.PackOptions = s.packs[id]
	copied.Packaging = s.packaging[id]
	return &copied, nil
}

func (s *stubRepo) ReplacePricingTiers(_ context.Context, productID uuid.UUID, tiers []models.PricingTier) error {
	s.tiers[productID] = tiers
	return nil
}

func (s *stubRepo) ReplacePackOptions(_ context.Context, productID uuid.UUID, packs []models.PackOption) error {
	s.packs[productID] = packs
	return nil
}

func (s *stubRepo) UpsertPackaging(_ context.Context, packaging *models.Packaging) error {
	s.packaging[packaging.ProductID] = packaging
	return nil
}

func (s *stubRepo) ListProducts(_ context.Context, _ pagination.Params) ([]models.Product, error) {
	rows := make([]models.Product, 0, len(s.products))
	for id, product := range s.products {
		if !product.IsActive {
			continue
		}
		copied := *product
		copied.PricingTiers = s.tiers[id]
		rows = append(rows, copied)
	}
	return rows, nil
}

func newTestService(t *testing.T) (Service, *stubRepo) {
	t.Helper()

	repo := newStubRepo()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(repo, nil, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func validCreateInput() CreateProductInput {
	max10 := 10
	max50 := 50
	return CreateProductInput{
		SKU:      "RICE-5KG",
		Name:     "Basmati Rice 5kg",
		Tags:     []string{"rice"},
		Unit:     enums.ProductUnitPiece,
		MRP:      16.00,
		IsActive: true,
		Tiers: []TierInput{
			{MinQuantity: 1, MaxQuantity: &max10, Price: 14.00, Margin: 20},
			{MinQuantity: 11, MaxQuantity: &max50, Price: 12.00, Margin: 15},
			{MinQuantity: 51, Price: 10.00, Margin: 10},
		},
		Packs: []PackInput{
			{Code: "box24", Name: "Box of 24", Multiplier: 24},
		},
	}
}

func TestServiceCreateProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.CreateProduct(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.ID == uuid.Nil {
		t.Fatal("expected product id")
	}
	if len(dto.Tiers) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(dto.Tiers))
	}
	if dto.Tiers[0].DisplayPrice != "₹14.00" {
		t.Fatalf("expected formatted tier price, got %q", dto.Tiers[0].DisplayPrice)
	}
	if dto.DisplayMRP != "₹16.00" {
		t.Fatalf("expected formatted mrp, got %q", dto.DisplayMRP)
	}
}

func TestServiceCreateRejectsMalformedTierTable(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	ctx := context.Background()

	input := validCreateInput()
	max10 := 10
	// Gap between 10 and 15.
	input.Tiers = []TierInput{
		{MinQuantity: 1, MaxQuantity: &max10, Price: 14.00},
		{MinQuantity: 15, Price: 12.00},
	}

	_, err := svc.CreateProduct(ctx, input)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.products) != 0 {
		t.Fatal("rejected product must not be persisted")
	}
}

func TestServiceUpdateReplacesTierTable(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.CreateProduct(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newTiers := []TierInput{
		{MinQuantity: 1, Price: 13.50, Margin: 18},
	}
	updated, err := svc.UpdateProduct(ctx, dto.ID, UpdateProductInput{Tiers: &newTiers})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Tiers) != 1 || updated.Tiers[0].Price != 13.50 {
		t.Fatalf("expected replaced tier table, got %+v", updated.Tiers)
	}
}

func TestServiceUpdateUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	name := "Renamed"
	_, err := svc.UpdateProduct(ctx, uuid.New(), UpdateProductInput{Name: &name})
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceSnapshot(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.CreateProduct(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot, err := svc.Snapshot(ctx, dto.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Tiers) != 3 {
		t.Fatalf("expected 3 tiers on snapshot, got %d", len(snapshot.Tiers))
	}
	if pack, ok := snapshot.Pack("box24"); !ok || pack.Multiplier != 24 {
		t.Fatalf("expected box24 pack, got %+v", pack)
	}

	quote, err := snapshot.Resolver().Resolve(48)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.UnitPrice != 12.00 {
		t.Fatalf("expected mid tier price, got %v", quote.UnitPrice)
	}
}

func TestServiceSnapshotRejectsInactiveProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	input := validCreateInput()
	input.IsActive = false
	dto, err := svc.CreateProduct(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Snapshot(ctx, dto.ID)
	if err == nil {
		t.Fatal("expected error for inactive product")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceDeleteProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.CreateProduct(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteProduct(ctx, dto.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetProduct(ctx, dto.ID); err == nil {
		t.Fatal("expected not found after delete")
	}
}
