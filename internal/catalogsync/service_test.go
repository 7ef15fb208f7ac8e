package catalogsync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/whycurls/wholesale-backend/internal/catalog"
	"github.com/whycurls/wholesale-backend/internal/feed"
)

type stubSource struct {
	products []feed.RawProduct
	err      error
}

func (s stubSource) FetchAll(context.Context) ([]feed.RawProduct, error) {
	return s.products, s.err
}

// failingRepository makes writes for one external id fail, everything else
// passes through to the in-memory repo.
type failingRepository struct {
	*catalog.InMemoryRepository
	failExternalID int64
}

func (r *failingRepository) Create(p catalog.Product) (catalog.Product, error) {
	if p.ExternalProductID != nil && *p.ExternalProductID == r.failExternalID {
		return catalog.Product{}, errors.New("constraint violation")
	}
	return r.InMemoryRepository.Create(p)
}

func twoRecordFeed() []feed.RawProduct {
	return []feed.RawProduct{
		{
			ID:        10,
			Name:      map[string]string{"pt": "Shampoo"},
			Variants:  []feed.Variant{{ID: 1, Price: 49.9}},
			Published: boolPtr(true),
		},
		{
			ID:        11,
			Name:      map[string]string{},
			Published: boolPtr(false),
		},
	}
}

func TestSync_TwoRecordScenario(t *testing.T) {
	products := catalog.NewInMemoryRepository(nil)
	runs := NewInMemoryRunRepository()
	svc := NewService(stubSource{products: twoRecordFeed()}, products, runs, NewMetrics())

	runID, result, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.Imported != 2 || result.Updated != 0 || result.Errors != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Total != 2 {
		t.Fatalf("total should be imported+updated, got %d", result.Total)
	}
	if result.ErrorMessages == nil {
		t.Fatal("a clean run must report an empty error list, not a nil one")
	}

	a, err := products.GetByExternalID(10)
	if err != nil {
		t.Fatalf("record A missing: %v", err)
	}
	if a.Name != "Shampoo" || a.Price != 49.9 || !a.IsActive {
		t.Fatalf("record A mapped wrong: %+v", a)
	}

	b, err := products.GetByExternalID(11)
	if err != nil {
		t.Fatalf("record B missing: %v", err)
	}
	if b.Name != "Product 11" || b.Price != 0 || b.IsActive {
		t.Fatalf("record B mapped wrong: %+v", b)
	}
	if b.UpdatedFromSourceAt == nil {
		t.Fatal("synced rows must carry updatedFromSourceAt")
	}

	run, err := runs.GetByID(runID)
	if err != nil {
		t.Fatalf("run not recorded: %v", err)
	}
	if run.Status != StatusSuccess || run.Imported != 2 || run.Updated != 0 || run.Errors != 0 {
		t.Fatalf("unexpected run %+v", run)
	}
	if run.FinishedAt == nil {
		t.Fatal("terminal run must have finishedAt")
	}
	if run.ErrorMessage != nil {
		t.Fatalf("clean run must not carry an error message, got %q", *run.ErrorMessage)
	}
}

func TestSync_SecondRunIsIdempotent(t *testing.T) {
	products := catalog.NewInMemoryRepository(nil)
	runs := NewInMemoryRunRepository()
	svc := NewService(stubSource{products: twoRecordFeed()}, products, runs, NewMetrics())

	if _, _, err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	_, second, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if second.Imported != 0 {
		t.Fatalf("unchanged feed must import nothing on re-run, got %d", second.Imported)
	}
	if second.Updated != 2 {
		t.Fatalf("expected both rows refreshed, got %d", second.Updated)
	}
	count, _ := products.Count()
	if count != 2 {
		t.Fatalf("row count must be unchanged after re-run, got %d", count)
	}
}

func TestSync_UpdatePreservesLocalFields(t *testing.T) {
	products := catalog.NewInMemoryRepository(nil)
	runs := NewInMemoryRunRepository()
	svc := NewService(stubSource{products: twoRecordFeed()}, products, runs, NewMetrics())

	if _, _, err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("first sync: %v", err)
	}

	// an admin sets a suggested resale price between runs
	existing, _ := products.GetByExternalID(10)
	compareAt := 79.9
	existing.CompareAtPrice = &compareAt
	if _, err := products.Update(existing.ID, existing); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	if _, _, err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	after, _ := products.GetByExternalID(10)
	if after.CompareAtPrice == nil || *after.CompareAtPrice != 79.9 {
		t.Fatalf("sync must not clobber compareAtPrice, got %v", after.CompareAtPrice)
	}
	if after.ID != existing.ID {
		t.Fatal("row identity must be stable across syncs")
	}
}

func TestSync_PartialFailureIsolation(t *testing.T) {
	repo := &failingRepository{
		InMemoryRepository: catalog.NewInMemoryRepository(nil),
		failExternalID:     11,
	}
	runs := NewInMemoryRunRepository()
	source := stubSource{products: []feed.RawProduct{
		{ID: 10, Name: map[string]string{"pt": "A"}},
		{ID: 11, Name: map[string]string{"pt": "B"}},
		{ID: 12, Name: map[string]string{"pt": "C"}},
	}}
	svc := NewService(source, repo, runs, NewMetrics())

	runID, result, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("a bad record must not fail the run: %v", err)
	}
	if result.Errors != 1 {
		t.Fatalf("expected 1 record error, got %d", result.Errors)
	}
	if result.Imported+result.Updated != 2 {
		t.Fatalf("expected the other 2 records written, got imported=%d updated=%d", result.Imported, result.Updated)
	}
	if len(result.ErrorMessages) != 1 || !strings.Contains(result.ErrorMessages[0], "Product 11") {
		t.Fatalf("error message must be tagged with the external id, got %v", result.ErrorMessages)
	}

	run, _ := runs.GetByID(runID)
	if run.Status != StatusSuccess {
		t.Fatalf("batch with isolated failures must end success, got %q", run.Status)
	}
	if run.ErrorMessage == nil || !strings.Contains(*run.ErrorMessage, "Product 11") {
		t.Fatalf("run must carry the joined record errors, got %v", run.ErrorMessage)
	}
}

func TestSync_FetchFailureShortCircuits(t *testing.T) {
	products := catalog.NewInMemoryRepository(nil)
	runs := NewInMemoryRunRepository()
	svc := NewService(stubSource{err: errors.New("feed API error: 502 - bad gateway")}, products, runs, NewMetrics())

	runID, result, err := svc.Sync(context.Background())
	if err == nil {
		t.Fatal("fetch failure must surface as an error")
	}
	if runID == "" {
		t.Fatal("fetch failure must still be correlated to a run id")
	}
	if result.Imported != 0 || result.Updated != 0 {
		t.Fatalf("no products may be written on fetch failure, got %+v", result)
	}

	run, gerr := runs.GetByID(runID)
	if gerr != nil {
		t.Fatalf("run not recorded: %v", gerr)
	}
	if run.Status != StatusError {
		t.Fatalf("expected error status, got %q", run.Status)
	}
	if run.ErrorMessage == nil || !strings.Contains(*run.ErrorMessage, "502") {
		t.Fatalf("run must carry the fetch error, got %v", run.ErrorMessage)
	}
	if run.FinishedAt == nil {
		t.Fatal("failed run must still be finalized")
	}

	count, _ := products.Count()
	if count != 0 {
		t.Fatalf("product store must be untouched, got %d rows", count)
	}
}

func TestSync_UpsertKeepsOneRowPerExternalID(t *testing.T) {
	products := catalog.NewInMemoryRepository(nil)
	runs := NewInMemoryRunRepository()
	svc := NewService(stubSource{products: twoRecordFeed()}, products, runs, NewMetrics())

	for i := 0; i < 3; i++ {
		if _, _, err := svc.Sync(context.Background()); err != nil {
			t.Fatalf("sync %d: %v", i, err)
		}
	}

	all, _ := products.List(false)
	seen := map[int64]int{}
	for _, p := range all {
		if p.ExternalProductID != nil {
			seen[*p.ExternalProductID]++
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("external id %d has %d rows, want 1", id, n)
		}
	}
}
