package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mandimart/mandimart-backend/internal/catalog"
	pkgerrors "github.com/mandimart/mandimart-backend/pkg/errors"
	"github.com/mandimart/mandimart-backend/pkg/logger"
	"github.com/mandimart/mandimart-backend/pkg/metrics"
)

// ProductLoader resolves the priced product view a cart line is built from.
type ProductLoader interface {
	Snapshot(ctx context.Context, productID uuid.UUID) (*catalog.Snapshot, error)
}

// AddItemInput names a product, the pack it is bought in, and how many of
// that pack. An empty PackCode means single units.
type AddItemInput struct {
	ProductID uuid.UUID
	PackCode  string
	Quantity  int
}

// UpdateItemInput replaces the quantity on an existing line.
type UpdateItemInput struct {
	ProductID uuid.UUID
	PackCode  string
	Quantity  int
}

// Manager applies reducer operations to session carts and persists the
// result. Operations on the same session are serialized; the load, reduce,
// save sequence is never interleaved for one session.
type Manager struct {
	store    SnapshotStore
	products ProductLoader
	metrics  *metrics.CartMetrics
	logg     *logger.Logger

	mu       sync.Mutex
	sessions map[string]*sync.Mutex
}

func NewManager(store SnapshotStore, products ProductLoader, cartMetrics *metrics.CartMetrics, logg *logger.Logger) *Manager {
	return &Manager{
		store:    store,
		products: products,
		metrics:  cartMetrics,
		logg:     logg,
		sessions: make(map[string]*sync.Mutex),
	}
}

func (m *Manager) sessionLock(sessionID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.sessions[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		m.sessions[sessionID] = lock
	}
	return lock
}

// Get returns the current cart for the session, empty if none exists.
func (m *Manager) Get(ctx context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return m.store.Load(ctx, sessionID)
}

// AddItem adds or merges a line into the session cart.
func (m *Manager) AddItem(ctx context.Context, sessionID string, input AddItemInput) (State, error) {
	return m.mutate(ctx, sessionID, "add", func(ctx context.Context, state State) (State, error) {
		product, err := m.products.Snapshot(ctx, input.ProductID)
		if err != nil {
			return state, err
		}

		pack, err := packForCode(product, input.PackCode)
		if err != nil {
			return state, err
		}

		next, err := Add(state, *product, pack, input.Quantity)
		if err != nil {
			return state, err
		}
		m.recordFallback(ctx, next, input.ProductID, pack.ID)
		return next, nil
	})
}

// UpdateItem sets a line's quantity. Zero removes the line; an unknown line
// leaves the cart untouched.
func (m *Manager) UpdateItem(ctx context.Context, sessionID string, input UpdateItemInput) (State, error) {
	return m.mutate(ctx, sessionID, "update", func(ctx context.Context, state State) (State, error) {
		packID := input.PackCode
		if packID == "" {
			packID = UnitPack.ID
		}
		next, err := UpdateQuantity(state, input.ProductID, packID, input.Quantity)
		if err != nil {
			return state, err
		}
		m.recordFallback(ctx, next, input.ProductID, packID)
		return next, nil
	})
}

// RemoveItem drops a line from the session cart.
func (m *Manager) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID, packCode string) (State, error) {
	return m.mutate(ctx, sessionID, "remove", func(ctx context.Context, state State) (State, error) {
		return Remove(state, productID, packCode), nil
	})
}

// ClearCart empties the session cart and drops its snapshot.
func (m *Manager) ClearCart(ctx context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	lock := m.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	started := time.Now()
	if err := m.store.Delete(ctx, sessionID); err != nil {
		m.metrics.IncFailure("clear")
		return Empty(), err
	}
	m.metrics.IncOperation("clear")
	m.metrics.ObserveDuration("clear", time.Since(started))
	m.logg.Info(m.logg.WithSessionID(ctx, sessionID), "cart cleared")
	return Empty(), nil
}

type transition func(ctx context.Context, state State) (State, error)

// mutate runs the load, reduce, save cycle under the session lock.
func (m *Manager) mutate(ctx context.Context, sessionID, op string, apply transition) (State, error) {
	if sessionID == "" {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	lock := m.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	started := time.Now()
	ctx = m.logg.WithSessionID(ctx, sessionID)

	state, err := m.store.Load(ctx, sessionID)
	if err != nil {
		m.metrics.IncFailure(op)
		m.logg.Error(ctx, "loading cart", err)
		return Empty(), err
	}

	next, err := apply(ctx, state)
	if err != nil {
		m.metrics.IncFailure(op)
		return state, err
	}

	if err := m.store.Save(ctx, sessionID, next); err != nil {
		m.metrics.IncFailure(op)
		m.logg.Error(ctx, "saving cart", err)
		return state, err
	}

	m.metrics.IncOperation(op)
	m.metrics.ObserveDuration(op, time.Since(started))
	return next, nil
}

// recordFallback counts and logs lines that priced via the first-tier
// fallback after the mutation.
func (m *Manager) recordFallback(ctx context.Context, state State, productID uuid.UUID, packID string) {
	idx := lineIndex(state.Items, productID, packID)
	if idx < 0 || !state.Items[idx].Fallback {
		return
	}
	m.metrics.IncTierFallback()
	m.logg.Warn(m.logg.WithProductID(ctx, productID.String()), "quantity below lowest tier minimum, first tier price applied")
}

// packForCode maps a request pack code to the pack size the engine prices
// with. Codes must exist on the product; the empty code is the unit pack.
func packForCode(product *catalog.Snapshot, code string) (PackSize, error) {
	if code == "" || code == UnitPack.ID {
		return UnitPack, nil
	}
	choice, ok := product.Pack(code)
	if !ok {
		return PackSize{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown pack code for product").
			WithDetails(map[string]any{"pack_code": code})
	}
	return PackSize{ID: choice.Code, Name: choice.Name, Multiplier: choice.Multiplier}, nil
}
