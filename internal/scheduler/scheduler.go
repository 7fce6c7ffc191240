// Package scheduler runs the recurring background jobs of the board. Its
// single job today is the morning duty notice: every day at the configured
// time it materializes the cleaning-duty entry for the day's roster so the
// assignees see it on the board before opening.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/config"
	"github.com/mjs-com/sunabaco-programing-2025winter-team4-PBL/internal/domain"
)

// NoticeMaterializer is the slice of the duty service the scheduler needs.
type NoticeMaterializer interface {
	// MaterializeNotice creates or refreshes the duty notice for one date.
	MaterializeNotice(ctx context.Context, date string) (*domain.Entry, error)
}

// jobTimeout bounds one materialization run.
const jobTimeout = 30 * time.Second

// Scheduler owns the cron runner for the duty notice job.
type Scheduler struct {
	cron *cron.Cron
	duty NoticeMaterializer
	log  zerolog.Logger
	loc  *time.Location

	// now is swapped in tests.
	now func() time.Time
}

// New builds a Scheduler from config. The cron expression runs in the
// configured timezone so "09:00" means the shop's local morning regardless
// of where the server runs.
func New(cfg config.SchedulerConfig, duty NoticeMaterializer, log zerolog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		duty: duty,
		log:  log,
		loc:  loc,
		now:  time.Now,
	}
	if _, err := s.cron.AddFunc(cfg.CronSpec, s.runOnce); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.log.Info().Msg("duty notice scheduler started")
	s.cron.Start()
}

// Stop halts scheduling and returns a context that is done once any running
// job has finished. Callers use it for graceful shutdown.
func (s *Scheduler) Stop() context.Context {
	s.log.Info().Msg("duty notice scheduler stopping")
	return s.cron.Stop()
}

// runOnce materializes today's duty notice. Errors are logged, never fatal;
// the next tick simply tries again.
func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	date := s.now().In(s.loc).Format(domain.DateFormat)
	entry, err := s.duty.MaterializeNotice(ctx, date)
	if err != nil {
		s.log.Error().Err(err).Str("date", date).Msg("duty notice materialization failed")
		return
	}
	if entry == nil {
		s.log.Debug().Str("date", date).Msg("no duty roster for today, nothing to post")
		return
	}
	s.log.Info().Str("date", date).Str("entry_id", entry.ID).Msg("duty notice materialized")
}
