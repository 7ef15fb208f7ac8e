package catalogsync

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers syncs on a cron spec. Scheduled runs are single-flight:
// if a run is still executing when the next tick fires, the tick is skipped
// instead of racing per-record upserts against the running sync.
type Scheduler struct {
	service  *Service
	cron     *cron.Cron
	inFlight atomic.Bool
	timeout  time.Duration
	onSynced func()
}

func NewScheduler(service *Service, onSynced func()) *Scheduler {
	return &Scheduler{
		service:  service,
		cron:     cron.New(cron.WithSeconds()),
		timeout:  30 * time.Minute,
		onSynced: onSynced,
	}
}

// Start registers the cron entry and begins ticking. The spec uses the
// six-field form with seconds, e.g. "0 0 3 * * *" for 03:00 daily.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[sync] scheduler started (spec %q)", spec)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[sync] scheduler stopped")
}

func (s *Scheduler) tick() {
	if !s.inFlight.CompareAndSwap(false, true) {
		log.Println("[sync] scheduled run skipped: previous run still in flight")
		return
	}
	defer s.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, _, err := s.service.Sync(ctx); err != nil {
		log.Printf("[sync] scheduled run failed: %v", err)
		return
	}
	if s.onSynced != nil {
		s.onSynced()
	}
}
