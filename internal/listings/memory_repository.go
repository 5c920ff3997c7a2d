package listings

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Listing
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Listing)}
}

func (r *memoryRepository) Create(_ context.Context, listing Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[listing.ID]; exists {
		return errors.New("listing exists")
	}
	r.storage[listing.ID] = listing
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.storage[id]
	if !ok {
		return Listing{}, ErrListingNotFound
	}
	return listing, nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Listing{}
	for _, l := range r.storage {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) MarkSold(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.storage[id]
	if !ok {
		return ErrListingNotFound
	}
	if listing.Status != StatusActive {
		return ErrListingNotActive
	}
	listing.Status = StatusSold
	r.storage[listing.ID] = listing
	return nil
}
