package scheduler

import (
	"context"
	"time"

	"shift-tracker/internal/services"

	"github.com/rs/zerolog"
)

// CapSweepJob runs the cap evaluator over all open entries
type CapSweepJob struct {
	log     zerolog.Logger
	caps    services.CapService
	timeout time.Duration
}

// NewCapSweepJob creates a sweep job; each run is bounded by timeout
func NewCapSweepJob(caps services.CapService, timeout time.Duration, log zerolog.Logger) *CapSweepJob {
	return &CapSweepJob{
		log:     log.With().Str("job", "cap_sweep").Logger(),
		caps:    caps,
		timeout: timeout,
	}
}

// Name returns the job name
func (j *CapSweepJob) Name() string {
	return "cap_sweep"
}

// Run performs one sweep. Per-entry failures are logged and do not fail the job.
func (j *CapSweepJob) Run() error {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	result, err := j.caps.SweepOpenEntries(ctx)
	if err != nil {
		return err
	}

	for _, e := range result.Errors {
		j.log.Warn().
			Err(e.Err).
			Int64("entry_id", e.EntryID).
			Str("stage", e.Stage).
			Msg("sweep entry failed")
	}

	event := j.log.Debug()
	if result.Flagged > 0 || len(result.Errors) > 0 {
		event = j.log.Info()
	}
	event.
		Int("processed", result.Processed).
		Int("flagged", result.Flagged).
		Int("errors", len(result.Errors)).
		Msg("sweep finished")

	return nil
}
