package catalog

import (
	"sync"
	"testing"
)

// countingRepository wraps the in-memory repo to observe how often List hits
// the underlying store.
type countingRepository struct {
	*InMemoryRepository
	mu        sync.Mutex
	listCalls int
}

func (r *countingRepository) List(onlyActive bool) ([]Product, error) {
	r.mu.Lock()
	r.listCalls++
	r.mu.Unlock()
	return r.InMemoryRepository.List(onlyActive)
}

func (r *countingRepository) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls
}

func TestServiceList_CachesUntilWrite(t *testing.T) {
	repo := &countingRepository{InMemoryRepository: NewInMemoryRepository([]Product{
		{ID: "p1", Name: "Shampoo", IsActive: true},
		{ID: "p2", Name: "Condicionador", IsActive: false},
	})}
	svc := NewService(repo)

	active, err := svc.List(true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active product, got %d", len(active))
	}

	// second read must come from cache
	if _, err := svc.List(true); err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := repo.calls(); got != 1 {
		t.Fatalf("expected a single repository hit, got %d", got)
	}

	// a write purges the cache
	if _, err := svc.Create(Product{ID: "p3", Name: "Máscara", IsActive: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	active, err = svc.List(true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected cache purge to expose new product, got %d rows", len(active))
	}
	if got := repo.calls(); got != 2 {
		t.Fatalf("expected second repository hit after write, got %d", got)
	}
}

func TestServiceList_CallerMutationCannotPoisonCache(t *testing.T) {
	repo := &countingRepository{InMemoryRepository: NewInMemoryRepository([]Product{
		{ID: "p1", Name: "Shampoo", IsActive: true},
		{ID: "p2", Name: "Condicionador", IsActive: true},
	})}
	svc := NewService(repo)

	first, err := svc.List(true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	first[0].Name = "mangled"
	first[1] = Product{}

	second, err := svc.List(true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := repo.calls(); got != 1 {
		t.Fatalf("second read should still be cached, got %d repository hits", got)
	}
	if second[0].Name != "Shampoo" || second[1].ID != "p2" {
		t.Fatalf("caller mutation leaked into the cache: %+v", second)
	}
}

func TestServiceInvalidateCache(t *testing.T) {
	repo := &countingRepository{InMemoryRepository: NewInMemoryRepository(nil)}
	svc := NewService(repo)

	if _, err := svc.List(false); err != nil {
		t.Fatalf("List: %v", err)
	}
	// simulate a sync writing through the repository directly
	if _, err := repo.InMemoryRepository.Create(Product{ID: "p1", Name: "Novo", IsActive: true}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	svc.InvalidateCache()

	all, err := svc.List(false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected invalidation to expose synced product, got %d rows", len(all))
	}
}

func TestInMemoryRepository_ExternalIDUnique(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	ext := int64(42)

	if _, err := repo.Create(Product{ID: "a", ExternalProductID: &ext}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := repo.Create(Product{ID: "b", ExternalProductID: &ext}); err != ErrDuplicateExternalID {
		t.Fatalf("expected ErrDuplicateExternalID, got %v", err)
	}

	// manual rows with no external id are exempt
	if _, err := repo.Create(Product{ID: "c"}); err != nil {
		t.Fatalf("manual create: %v", err)
	}
	if _, err := repo.Create(Product{ID: "d"}); err != nil {
		t.Fatalf("second manual create: %v", err)
	}
}
