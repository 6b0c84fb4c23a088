package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mandimart/mandimart-backend/internal/cart"
	"github.com/mandimart/mandimart-backend/internal/catalog"
	"github.com/mandimart/mandimart-backend/internal/pricing"
	"github.com/mandimart/mandimart-backend/pkg/config"
	pkgerrors "github.com/mandimart/mandimart-backend/pkg/errors"
	"github.com/mandimart/mandimart-backend/pkg/logger"
	"github.com/mandimart/mandimart-backend/pkg/metrics"
	"github.com/mandimart/mandimart-backend/pkg/pagination"
	"github.com/mandimart/mandimart-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type memorySnapshotStore struct {
	mu    sync.Mutex
	carts map[string]cart.State
}

func (s *memorySnapshotStore) Load(_ context.Context, sessionID string) (cart.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.carts[sessionID]
	if !ok {
		return cart.Empty(), nil
	}
	return state, nil
}

func (s *memorySnapshotStore) Save(_ context.Context, sessionID string, state cart.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = state
	return nil
}

func (s *memorySnapshotStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

type stubCatalogService struct {
	snapshots map[uuid.UUID]catalog.Snapshot
}

func (s *stubCatalogService) CreateProduct(context.Context, catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubCatalogService) UpdateProduct(context.Context, uuid.UUID, catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubCatalogService) DeleteProduct(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

func (s *stubCatalogService) GetProduct(context.Context, uuid.UUID) (*catalog.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubCatalogService) ListProducts(context.Context, pagination.Params) (*catalog.ProductListResult, error) {
	return &catalog.ProductListResult{Products: []catalog.ProductDTO{}}, nil
}

func (s *stubCatalogService) Snapshot(_ context.Context, productID uuid.UUID) (*catalog.Snapshot, error) {
	snapshot, ok := s.snapshots[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &snapshot, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func intPtr(v int) *int { return &v }

func testSnapshot() catalog.Snapshot {
	return catalog.Snapshot{
		ID:   uuid.New(),
		SKU:  "RICE-5KG",
		Name: "Basmati Rice 5kg",
		MRP:  16.00,
		Tiers: []pricing.Tier{
			{MinQuantity: 1, MaxQuantity: intPtr(10), Price: 14.00, Margin: 20},
			{MinQuantity: 11, MaxQuantity: intPtr(50), Price: 12.00, Margin: 15},
			{MinQuantity: 51, Price: 10.00, Margin: 10},
		},
	}
}

func newTestRouter(t *testing.T, snapshots ...catalog.Snapshot) (http.Handler, *prometheus.Registry) {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	registry := prometheus.NewRegistry()

	catalogSvc := &stubCatalogService{snapshots: make(map[uuid.UUID]catalog.Snapshot)}
	for _, snapshot := range snapshots {
		catalogSvc.snapshots[snapshot.ID] = snapshot
	}

	store := &memorySnapshotStore{carts: make(map[string]cart.State)}
	manager := cart.NewManager(store, catalogSvc, metrics.NewCartMetrics(registry), logg)

	router := NewRouter(
		testConfig(),
		logg,
		stubPinger{},
		stubPinger{},
		registry,
		catalogSvc,
		manager,
	)
	return router, registry
}

func TestHealthLive(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-MandiMart-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestHealthReady(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartFlowThroughRouter(t *testing.T) {
	snapshot := testSnapshot()
	router, _ := newTestRouter(t, snapshot)
	sessionID := uuid.NewString()

	body := `{"product_id":"` + snapshot.ID.String() + `","quantity":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", sessionID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	data := envelope.Data.(map[string]any)
	if data["total_amount"].(float64) != 70.00 {
		t.Fatalf("expected total 70.00, got %v", data["total_amount"])
	}
	if data["display_amount"].(string) != "₹70.00" {
		t.Fatalf("expected display total, got %v", data["display_amount"])
	}

	// Same session sees the persisted cart.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", sessionID)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	envelope = types.SuccessEnvelope{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	data = envelope.Data.(map[string]any)
	if data["total_items"].(float64) != 5 {
		t.Fatalf("expected 5 items, got %v", data["total_items"])
	}

	// A different session starts empty.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-Id", uuid.NewString())
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	envelope = types.SuccessEnvelope{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	data = envelope.Data.(map[string]any)
	if data["total_items"].(float64) != 0 {
		t.Fatalf("expected empty cart for new session, got %v", data["total_items"])
	}
}

func TestCartSessionHeaderIsMintedWhenAbsent(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-Session-Id") == "" {
		t.Fatal("expected minted session id header")
	}
}

func TestCartAddRejectsBadJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddUnknownProductReturns404(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestProductListRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
