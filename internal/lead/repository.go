package lead

import (
	"sync"
)

type Repository interface {
	Create(l Lead) (Lead, error)
	// List returns leads newest first.
	List() ([]Lead, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Lead
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{storage: make([]Lead, 0)}
}

func (r *InMemoryRepository) Create(l Lead) (Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = append(r.storage, l)
	return l, nil
}

func (r *InMemoryRepository) List() ([]Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Lead, 0, len(r.storage))
	for i := len(r.storage) - 1; i >= 0; i-- {
		out = append(out, r.storage[i])
	}
	return out, nil
}
