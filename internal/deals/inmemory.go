package deals

import (
	"context"
	"sync"
)

type inMemoryRepository struct {
	mu       sync.RWMutex
	deals    map[string]Deal
	byClient map[string]string
}

// NewInMemory creates a concurrency-safe deal store useful for unit tests.
func NewInMemory() Repository {
	return &inMemoryRepository{
		deals:    make(map[string]Deal),
		byClient: make(map[string]string),
	}
}

func (r *inMemoryRepository) Record(_ context.Context, deal Deal) (Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, exists := r.byClient[deal.ClientTxID]; exists {
		return r.deals[id], ErrDuplicateDeal
	}
	r.deals[deal.ID] = deal
	r.byClient[deal.ClientTxID] = deal.ID
	return deal, nil
}

func (r *inMemoryRepository) Get(_ context.Context, id string) (Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	deal, ok := r.deals[id]
	if !ok {
		return Deal{}, ErrDealNotFound
	}
	return deal, nil
}

func (r *inMemoryRepository) FindByClientTxID(_ context.Context, clientTxID string) (Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byClient[clientTxID]
	if !ok {
		return Deal{}, ErrDealNotFound
	}
	return r.deals[id], nil
}

func (r *inMemoryRepository) CountCompleted(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, d := range r.deals {
		if d.Status == StatusCompleted && d.Involves(userID) {
			count++
		}
	}
	return count, nil
}
