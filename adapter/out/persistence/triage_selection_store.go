package persistence

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	"triage_server/core/domain"
	"triage_server/core/port/out"
	"triage_server/pkg/apperr"
)

// RedisSelectionStore persists the active domain selection in Redis so it
// survives restarts.
type RedisSelectionStore struct {
	client *redis.Client
}

// NewRedisSelectionStore creates the store on an existing client.
func NewRedisSelectionStore(client *redis.Client) *RedisSelectionStore {
	return &RedisSelectionStore{client: client}
}

// Load implements out.DomainSelectionStore. A missing key is not an error.
func (s *RedisSelectionStore) Load(ctx context.Context) (domain.DomainID, error) {
	val, err := s.client.Get(ctx, out.SelectedDomainKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", apperr.ExternalError("redis", err)
	}
	return domain.DomainID(val), nil
}

// Store implements out.DomainSelectionStore. The selection has no expiry.
func (s *RedisSelectionStore) Store(ctx context.Context, id domain.DomainID) error {
	if err := s.client.Set(ctx, out.SelectedDomainKey, string(id), 0).Err(); err != nil {
		return apperr.ExternalError("redis", err)
	}
	return nil
}

// MemorySelectionStore is the fallback used when no Redis address is
// configured. The selection then lives only as long as the process.
type MemorySelectionStore struct {
	mu sync.Mutex
	id domain.DomainID
}

// NewMemorySelectionStore creates an empty store.
func NewMemorySelectionStore() *MemorySelectionStore {
	return &MemorySelectionStore{}
}

// Load implements out.DomainSelectionStore.
func (s *MemorySelectionStore) Load(context.Context) (domain.DomainID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, nil
}

// Store implements out.DomainSelectionStore.
func (s *MemorySelectionStore) Store(_ context.Context, id domain.DomainID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	return nil
}
