package order

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("order not found")

type Repository interface {
	Create(o Order) (Order, error)
	GetByID(id string) (Order, error)
	// ListByUser returns the caller's own orders, newest first.
	ListByUser(userID int) ([]Order, error)
	// ListAll is the admin view, newest first.
	ListAll() ([]Order, error)
	UpdateStatus(id, status, updatedAt string) (Order, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Order
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Order, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) Create(o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = append(r.storage, o)
	return o, nil
}

func (r *InMemoryRepository) GetByID(id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.storage {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for i := len(r.storage) - 1; i >= 0; i-- {
		if r.storage[i].UserID == userID {
			out = append(out, r.storage[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListAll() ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0, len(r.storage))
	for i := len(r.storage) - 1; i >= 0; i-- {
		out = append(out, r.storage[i])
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id, status, updatedAt string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage[i].Status = status
			r.storage[i].UpdatedAt = updatedAt
			return r.storage[i], nil
		}
	}
	return Order{}, ErrNotFound
}
