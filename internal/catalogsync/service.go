package catalogsync

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/whycurls/wholesale-backend/internal/catalog"
	"github.com/whycurls/wholesale-backend/internal/feed"
)

// ProductSource is the slice of the feed client the sync job needs.
type ProductSource interface {
	FetchAll(ctx context.Context) ([]feed.RawProduct, error)
}

// Result aggregates the outcome of one reconciliation pass.
type Result struct {
	Imported      int      `json:"imported"`
	Updated       int      `json:"updated"`
	Skipped       int      `json:"skipped"`
	Total         int      `json:"total"`
	Errors        int      `json:"errors"`
	ErrorMessages []string `json:"errorMessages"`
}

func (r *Result) recordError(externalID int64, err error) {
	r.Errors++
	r.ErrorMessages = append(r.ErrorMessages, fmt.Sprintf("Product %d: %v", externalID, err))
}

// Service runs the fetch → map → upsert pipeline and owns the run record
// lifecycle. It is safe for concurrent use, though concurrent runs race on
// per-record upserts (see the scheduler for single-flight scheduling).
type Service struct {
	source   ProductSource
	products catalog.Repository
	runs     RunRepository
	metrics  *Metrics
}

func NewService(source ProductSource, products catalog.Repository, runs RunRepository, metrics *Metrics) *Service {
	return &Service{source: source, products: products, runs: runs, metrics: metrics}
}

// Sync performs one full reconciliation. A run record is created first and
// finalized exactly once; the returned run id is valid even when err is
// non-nil, so callers can point at the audit row. A non-nil error means the
// fetch phase failed; per-record upsert failures are reported in the Result
// and do not fail the run.
func (s *Service) Sync(ctx context.Context) (string, Result, error) {
	run, err := s.runs.Create(Run{
		ID:        uuid.NewString(),
		Status:    StatusRunning,
		StartedAt: nowRFC3339(),
	})
	if err != nil {
		return "", Result{}, fmt.Errorf("creating sync run: %w", err)
	}

	s.metrics.runStarted()
	defer s.metrics.runEnded()
	started := time.Now()
	log.Printf("[sync] run %s started", run.ID)

	raws, err := s.source.FetchAll(ctx)
	if err != nil {
		msg := err.Error()
		run.Status = StatusError
		run.ErrorMessage = &msg
		finished := nowRFC3339()
		run.FinishedAt = &finished
		if ferr := s.runs.Finish(run); ferr != nil {
			log.Printf("[sync] run %s: recording fetch failure: %v", run.ID, ferr)
		}
		s.metrics.observeRun(StatusError, time.Since(started))
		log.Printf("[sync] run %s failed: %v", run.ID, err)
		return run.ID, Result{}, err
	}

	result := s.upsertAll(raws)

	run.Status = StatusSuccess
	run.Imported = result.Imported
	run.Updated = result.Updated
	run.Skipped = result.Skipped
	run.Errors = result.Errors
	if len(result.ErrorMessages) > 0 {
		joined := strings.Join(result.ErrorMessages, "; ")
		run.ErrorMessage = &joined
	}
	finished := nowRFC3339()
	run.FinishedAt = &finished
	if err := s.runs.Finish(run); err != nil {
		log.Printf("[sync] run %s: recording result: %v", run.ID, err)
	}

	s.metrics.observeRun(StatusSuccess, time.Since(started))
	s.metrics.observeProducts(result)
	log.Printf("[sync] run %s finished: imported=%d updated=%d errors=%d",
		run.ID, result.Imported, result.Updated, result.Errors)

	return run.ID, result, nil
}

// upsertAll reconciles each record independently. A failing record is counted
// and described, never fatal: partial success is the expected steady state
// for a feed with occasional malformed entries.
func (s *Service) upsertAll(raws []feed.RawProduct) Result {
	// ErrorMessages serializes as [] rather than null when the run is clean
	result := Result{ErrorMessages: []string{}}
	for _, raw := range raws {
		now := nowRFC3339()
		mapped := MapProduct(raw)
		mapped.UpdatedFromSourceAt = &now
		mapped.UpdatedAt = now

		existing, err := s.products.GetByExternalID(raw.ID)
		switch err {
		case nil:
			// CompareAtPrice and CreatedAt are locally owned; everything
			// the feed maps gets overwritten.
			mapped.ID = existing.ID
			mapped.CompareAtPrice = existing.CompareAtPrice
			mapped.CreatedAt = existing.CreatedAt
			if _, uerr := s.products.Update(existing.ID, mapped); uerr != nil {
				result.recordError(raw.ID, uerr)
				continue
			}
			result.Updated++
		case catalog.ErrNotFound:
			mapped.ID = uuid.NewString()
			mapped.CreatedAt = now
			if _, cerr := s.products.Create(mapped); cerr != nil {
				result.recordError(raw.ID, cerr)
				continue
			}
			result.Imported++
		default:
			result.recordError(raw.ID, err)
		}
	}
	result.Total = result.Imported + result.Updated
	return result
}

// Runs exposes run history for the admin UI.
func (s *Service) Runs(limit int) ([]Run, error) {
	return s.runs.List(limit)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
