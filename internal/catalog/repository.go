package catalog

import (
	"errors"
	"sync"
)

var (
	ErrNotFound            = errors.New("product not found")
	ErrDuplicateExternalID = errors.New("external product id already exists")
)

type Repository interface {
	// List returns products, optionally restricted to active ones for the
	// public catalog.
	List(onlyActive bool) ([]Product, error)
	GetByID(id string) (Product, error)
	// GetByExternalID is the sync job's idempotency lookup. Returns
	// ErrNotFound when no synced row carries the id.
	GetByExternalID(externalID int64) (Product, error)
	Create(p Product) (Product, error)
	Update(id string, p Product) (Product, error)
	Delete(id string) error
	Count() (int, error)
}

// InMemoryRepository backs tests and local development. It enforces the same
// uniqueness rule as the postgres unique index on external_product_id.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Product, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) List(onlyActive bool) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if onlyActive && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) GetByExternalID(externalID int64) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.storage {
		if p.ExternalProductID != nil && *p.ExternalProductID == externalID {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ExternalProductID != nil {
		for _, existing := range r.storage {
			if existing.ExternalProductID != nil && *existing.ExternalProductID == *p.ExternalProductID {
				return Product{}, ErrDuplicateExternalID
			}
		}
	}
	r.storage = append(r.storage, p)
	return p, nil
}

func (r *InMemoryRepository) Update(id string, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			p.ID = id
			r.storage[i] = p
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.storage), nil
}
