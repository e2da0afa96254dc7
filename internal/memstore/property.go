package memstore

import (
	"context"
	"sync"

	"github.com/fox-one/pkg/property"
)

// PropertyStore in-memory property store.
type PropertyStore struct {
	mu     sync.Mutex
	values map[string]property.Value
	saved  map[string]property.Value
}

// NewPropertyStore new in-memory property store.
func NewPropertyStore() *PropertyStore {
	return &PropertyStore{values: map[string]property.Value{}}
}

func (s *PropertyStore) snapshot() {
	s.saved = map[string]property.Value{}
	for k, v := range s.values {
		s.saved[k] = v
	}
}

func (s *PropertyStore) restore() {
	if s.saved != nil {
		s.values = s.saved
		s.saved = nil
	}
}

func (s *PropertyStore) commit() { s.saved = nil }

func (s *PropertyStore) Get(ctx context.Context, key string) (property.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *PropertyStore) Save(ctx context.Context, key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = property.Parse(value)
	return nil
}

func (s *PropertyStore) Expire(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *PropertyStore) List(ctx context.Context) (map[string]property.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[string]property.Value, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return values, nil
}
