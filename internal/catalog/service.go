package catalog

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Service fronts the repository for the UI read paths and the admin CRUD.
// Listings are served from a small LRU cache; any write purges it. The sync
// job writes through the repository directly, so callers that need the cache
// invalidated after a sync should call InvalidateCache.
type Service struct {
	repo  Repository
	cache *lru.Cache[string, []Product]
}

const (
	cacheKeyAll    = "all"
	cacheKeyActive = "active"
)

func NewService(repo Repository) *Service {
	// only two listing shapes exist today; headroom for per-category keys
	cache, _ := lru.New[string, []Product](8)
	return &Service{repo: repo, cache: cache}
}

func (s *Service) List(onlyActive bool) ([]Product, error) {
	key := cacheKeyAll
	if onlyActive {
		key = cacheKeyActive
	}
	if cached, ok := s.cache.Get(key); ok {
		return copyProducts(cached), nil
	}

	products, err := s.repo.List(onlyActive)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, products)
	return copyProducts(products), nil
}

// copyProducts shields the cached slice from caller mutation. Element copies
// are shallow; callers treat Images as read-only.
func copyProducts(products []Product) []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

func (s *Service) GetByID(id string) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	created, err := s.repo.Create(p)
	if err != nil {
		return Product{}, err
	}
	s.cache.Purge()
	return created, nil
}

func (s *Service) Update(id string, p Product) (Product, error) {
	updated, err := s.repo.Update(id, p)
	if err != nil {
		return Product{}, err
	}
	s.cache.Purge()
	return updated, nil
}

func (s *Service) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.cache.Purge()
	return nil
}

// InvalidateCache drops cached listings. The sync job calls this once after a
// run so freshly synced rows become visible without waiting for a write
// through the service.
func (s *Service) InvalidateCache() {
	s.cache.Purge()
}
