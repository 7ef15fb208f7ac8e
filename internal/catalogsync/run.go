// Package catalogsync reconciles the local catalog against the external
// product feed and keeps an audit trail of every run.
package catalogsync

import (
	"errors"
	"sync"
)

// Run statuses. A run is created running and transitions exactly once to
// success or error; a row stuck in running means the process died mid-run.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

var ErrRunNotFound = errors.New("sync run not found")

// Run is the audit record for one sync invocation. It is never deleted and
// never mutated after Finish.
type Run struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	Imported     int     `json:"imported"`
	Updated      int     `json:"updated"`
	Skipped      int     `json:"skipped"`
	Errors       int     `json:"errors"`
	ErrorMessage *string `json:"errorMessage,omitempty"`
	StartedAt    string  `json:"startedAt"`
	FinishedAt   *string `json:"finishedAt,omitempty"`
}

type RunRepository interface {
	Create(run Run) (Run, error)
	// Finish writes the terminal state of a run. Implementations must not
	// touch rows other than the one matching run.ID.
	Finish(run Run) error
	GetByID(id string) (Run, error)
	// List returns the most recent runs first.
	List(limit int) ([]Run, error)
}

// InMemoryRunRepository backs tests and local development.
type InMemoryRunRepository struct {
	mu      sync.RWMutex
	storage []Run
}

func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{}
}

func (r *InMemoryRunRepository) Create(run Run) (Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = append(r.storage, run)
	return run, nil
}

func (r *InMemoryRunRepository) Finish(run Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == run.ID {
			r.storage[i] = run
			return nil
		}
	}
	return ErrRunNotFound
}

func (r *InMemoryRunRepository) GetByID(id string) (Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, run := range r.storage {
		if run.ID == id {
			return run, nil
		}
	}
	return Run{}, ErrRunNotFound
}

func (r *InMemoryRunRepository) List(limit int) ([]Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Run, 0, limit)
	for i := len(r.storage) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.storage[i])
	}
	return out, nil
}
