package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mandimart/mandimart-backend/pkg/config"
	pkgerrors "github.com/mandimart/mandimart-backend/pkg/errors"
	"github.com/mandimart/mandimart-backend/pkg/redis"
)

// SnapshotStore persists cart state keyed by session. A session with no
// stored snapshot loads as the empty cart.
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) (State, error)
	Save(ctx context.Context, sessionID string, state State) error
	Delete(ctx context.Context, sessionID string) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a SnapshotStore backed by Redis. Snapshots are JSON
// documents under the namespaced cart key and expire after the configured
// session TTL; every save refreshes the clock.
func NewRedisStore(client *redis.Client, cfg config.CartConfig) SnapshotStore {
	return &redisStore{client: client, ttl: cfg.SessionTTL()}
}

func (s *redisStore) Load(ctx context.Context, sessionID string) (State, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return Empty(), nil
		}
		return Empty(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart snapshot")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// A corrupt snapshot is unrecoverable; start the session over rather
		// than locking the customer out of their cart.
		return Empty(), nil
	}
	if state.Items == nil {
		state.Items = []LineItem{}
	}
	return state, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart snapshot")
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart snapshot")
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting cart snapshot")
	}
	return nil
}
