package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/gallery"
)

// MemoryStore keeps listings in memory.
type MemoryStore struct {
	mu       sync.RWMutex
	listings map[string]*gallery.Listing
	updated  map[string]time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		listings: make(map[string]*gallery.Listing),
		updated:  make(map[string]time.Time),
	}
}

// Get implements Store. The returned listing is a copy.
func (s *MemoryStore) Get(_ context.Context, id string) (*gallery.Listing, error) {
	if err := errors.ValidateListingID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.listings[id]
	if !ok {
		return nil, notFound(id)
	}
	return l.Clone(), nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, l *gallery.Listing) error {
	if err := validateForPut(l); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[l.ID] = l.Clone()
	s.updated[l.ID] = time.Now()
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listings, id)
	delete(s.updated, id)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.listings))
	for id, l := range s.listings {
		out = append(out, Summary{ID: id, Results: len(l.Results), UpdatedAt: s.updated[id]})
	}
	sortSummaries(out)
	return out, nil
}

// Close does nothing.
func (s *MemoryStore) Close() error { return nil }

func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}

var _ Store = (*MemoryStore)(nil)
