package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"golang.org/x/exp/maps"
)

// MemoryStore keeps every collection in process memory and notifies
// subscribers synchronously, in write order. It backs the test suites and
// the ephemeral single-process mode.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]Snapshot
	subs        *notifier
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]Snapshot),
		subs:        newNotifier(),
	}
}

func (s *MemoryStore) ReadAll(ctx context.Context, collection string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collections[collection].Clone(), nil
}

func (s *MemoryStore) WriteAll(ctx context.Context, collection string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = snap.Clone()
	s.subs.publish(collection, s.collections[collection])
	return nil
}

func (s *MemoryStore) Append(ctx context.Context, collection string, record any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(Snapshot)
	}
	s.collections[collection][ulid.Make().String()] = raw
	s.subs.publish(collection, s.collections[collection])
	return nil
}

func (s *MemoryStore) Subscribe(collection string, fn func(Snapshot)) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs.subscribe(collection, fn, s.collections[collection].Clone()), nil
}

// Collections lists the non-empty collection names, for debugging.
func (s *MemoryStore) Collections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Keys(s.collections)
}
