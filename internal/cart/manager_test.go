package cart

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mandimart/mandimart-backend/internal/catalog"
	pkgerrors "github.com/mandimart/mandimart-backend/pkg/errors"
	"github.com/mandimart/mandimart-backend/pkg/logger"
	"github.com/mandimart/mandimart-backend/pkg/metrics"
)

type memoryStore struct {
	mu    sync.Mutex
	carts map[string]State
}

func newMemoryStore() *memoryStore {
	return &memoryStore{carts: make(map[string]State)}
}

func (s *memoryStore) Load(_ context.Context, sessionID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.carts[sessionID]
	if !ok {
		return Empty(), nil
	}
	return state, nil
}

func (s *memoryStore) Save(_ context.Context, sessionID string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = state
	return nil
}

func (s *memoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

type stubLoader struct {
	products map[uuid.UUID]catalog.Snapshot
}

func (s *stubLoader) Snapshot(_ context.Context, productID uuid.UUID) (*catalog.Snapshot, error) {
	product, ok := s.products[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &product, nil
}

func newTestManager(products ...catalog.Snapshot) (*Manager, *memoryStore) {
	loader := &stubLoader{products: make(map[uuid.UUID]catalog.Snapshot)}
	for _, product := range products {
		loader.products[product.ID] = product
	}
	store := newMemoryStore()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	mgr := NewManager(store, loader, metrics.NewCartMetrics(nil), logg)
	return mgr, store
}

func TestManagerAddPersistsSnapshot(t *testing.T) {
	t.Parallel()

	product := testProduct()
	mgr, store := newTestManager(product)
	ctx := context.Background()

	state, err := mgr.AddItem(ctx, "sess-1", AddItemInput{ProductID: product.ID, Quantity: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.TotalAmount != 70.00 {
		t.Fatalf("expected total 70.00, got %v", state.TotalAmount)
	}

	stored, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.TotalAmount != 70.00 {
		t.Fatalf("expected persisted total 70.00, got %v", stored.TotalAmount)
	}
}

func TestManagerAddWithPackCode(t *testing.T) {
	t.Parallel()

	product := testProduct()
	mgr, _ := newTestManager(product)
	ctx := context.Background()

	state, err := mgr.AddItem(ctx, "sess-1", AddItemInput{ProductID: product.ID, PackCode: "box24", Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Items[0].UnitPrice != 12.00 {
		t.Fatalf("expected pack-expanded tier price 12.00, got %v", state.Items[0].UnitPrice)
	}
}

func TestManagerAddRejectsUnknownPackCode(t *testing.T) {
	t.Parallel()

	product := testProduct()
	mgr, store := newTestManager(product)
	ctx := context.Background()

	_, err := mgr.AddItem(ctx, "sess-1", AddItemInput{ProductID: product.ID, PackCode: "crate99", Quantity: 1})
	if err == nil {
		t.Fatal("expected error for unknown pack code")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.carts) != 0 {
		t.Fatal("rejected mutation must not persist a snapshot")
	}
}

func TestManagerAddUnknownProduct(t *testing.T) {
	t.Parallel()

	mgr, _ := newTestManager()
	ctx := context.Background()

	_, err := mgr.AddItem(ctx, "sess-1", AddItemInput{ProductID: uuid.New(), Quantity: 1})
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestManagerUpdateAndRemove(t *testing.T) {
	t.Parallel()

	product := testProduct()
	mgr, _ := newTestManager(product)
	ctx := context.Background()

	if _, err := mgr.AddItem(ctx, "sess-1", AddItemInput{ProductID: product.ID, Quantity: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state, err := mgr.UpdateItem(ctx, "sess-1", UpdateItemInput{ProductID: product.ID, Quantity: 60})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Items[0].UnitPrice != 10.00 {
		t.Fatalf("expected wholesale tier after update, got %v", state.Items[0].UnitPrice)
	}

	state, err = mgr.RemoveItem(ctx, "sess-1", product.ID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", state)
	}
}

func TestManagerUpdateToZeroRemovesLine(t *testing.T) {
	t.Parallel()

	product := testProduct()
	mgr, _ := newTestManager(product)
	ctx := context.Background()

	if _, err := mgr.AddItem(ctx, "sess-1", AddItemInput{ProductID: product.ID, Quantity: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state, err := mgr.UpdateItem(ctx, "sess-1", UpdateItemInput{ProductID: product.ID, Quantity: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.Items) != 0 || state.TotalAmount != 0 {
		t.Fatalf("expected empty cart, got %+v", state)
	}
}

func TestManagerClearDropsSnapshot(t *testing.T) {
	t.Parallel()

	product := testProduct()
	mgr, store := newTestManager(product)
	ctx := context.Background()

	if _, err := mgr.AddItem(ctx, "sess-1", AddItemInput{ProductID: product.ID, Quantity: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state, err := mgr.ClearCart(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", state)
	}
	if _, ok := store.carts["sess-1"]; ok {
		t.Fatal("expected snapshot deleted")
	}
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	product := testProduct()
	mgr, _ := newTestManager(product)
	ctx := context.Background()

	if _, err := mgr.AddItem(ctx, "sess-a", AddItemInput{ProductID: product.ID, Quantity: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := mgr.AddItem(ctx, "sess-b", AddItemInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := mgr.Get(ctx, "sess-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := mgr.Get(ctx, "sess-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.TotalItems != 5 || b.TotalItems != 2 {
		t.Fatalf("sessions leaked into each other: a=%d b=%d", a.TotalItems, b.TotalItems)
	}
}

func TestManagerConcurrentAddsSerialize(t *testing.T) {
	t.Parallel()

	product := testProduct()
	mgr, _ := newTestManager(product)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := mgr.AddItem(ctx, "sess-1", AddItemInput{ProductID: product.ID, Quantity: 1}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	state, err := mgr.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.TotalItems != 20 {
		t.Fatalf("expected 20 items after concurrent adds, got %d", state.TotalItems)
	}
	if state.Items[0].UnitPrice != 12.00 {
		t.Fatalf("expected 11-50 tier price, got %v", state.Items[0].UnitPrice)
	}
}

func TestManagerRequiresSessionID(t *testing.T) {
	t.Parallel()

	product := testProduct()
	mgr, _ := newTestManager(product)
	ctx := context.Background()

	if _, err := mgr.AddItem(ctx, "", AddItemInput{ProductID: product.ID, Quantity: 1}); err == nil {
		t.Fatal("expected error for empty session id")
	}
	if _, err := mgr.Get(ctx, ""); err == nil {
		t.Fatal("expected error for empty session id")
	}
}
