package reviews

import (
	"context"
	"sync"
)

type inMemoryRepository struct {
	mu      sync.RWMutex
	reviews []Review
	seen    map[string]struct{}
}

// NewInMemory creates a review store for tests and dev mode.
func NewInMemory() Repository {
	return &inMemoryRepository{seen: make(map[string]struct{})}
}

func (r *inMemoryRepository) Create(_ context.Context, review Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := review.DealID + ":" + review.AuthorID
	if _, exists := r.seen[key]; exists {
		return ErrDuplicateReview
	}
	r.seen[key] = struct{}{}
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *inMemoryRepository) Summary(_ context.Context, subjectID string) (Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		total int
		count int
	)
	for _, rv := range r.reviews {
		if rv.SubjectID == subjectID {
			total += rv.Rating
			count++
		}
	}
	if count == 0 {
		return Summary{}, nil
	}
	return Summary{Average: float64(total) / float64(count), Count: count}, nil
}
