package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/jobboard-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// pruneTimeout bounds a single pruning run.
const pruneTimeout = time.Minute

// Scheduler runs periodic maintenance: deleting activity events older than
// the configured retention.
type Scheduler struct {
	cron      *cron.Cron
	eventSvc  services.EventServiceProvider
	retention time.Duration
	now       func() time.Time
}

// New creates a scheduler that prunes on the given cron spec (standard
// five-field syntax or descriptors such as "@daily").
func New(spec string, retention time.Duration, eventSvc services.EventServiceProvider) (*Scheduler, error) {
	if retention <= 0 {
		return nil, fmt.Errorf("event retention must be positive, got %s", retention)
	}
	s := &Scheduler{
		cron:      cron.New(),
		eventSvc:  eventSvc,
		retention: retention,
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.runPrune); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running scheduled tasks in the background.
func (s *Scheduler) Start() {
	log.Info().Dur("retention", s.retention).Msg("Starting background scheduler...")
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped background scheduler.")
}

// PruneNow deletes events older than the retention window.
func (s *Scheduler) PruneNow(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	return s.eventSvc.PruneBefore(ctx, cutoff)
}

func (s *Scheduler) runPrune() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	deleted, err := s.PruneNow(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: failed to prune activity events")
		return
	}
	log.Info().Int64("deleted", deleted).Msg("Scheduler: pruned activity events")
}
