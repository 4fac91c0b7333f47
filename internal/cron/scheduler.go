package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"faturadash/internal/config"
	"faturadash/internal/models"
	"faturadash/internal/repository"
	"faturadash/internal/storage"
	"faturadash/internal/webhook"
)

// Notifier receives events from the background loops. May be nil.
type Notifier interface {
	DispatchExecuted(d *models.ScheduledDispatch, err error)
	PdfCataloged(p *models.GeneratedPdf)
}

// Repos bundles the repositories used by the background loops.
type Repos struct {
	Dispatch *repository.DispatchRepository
	Pdf      *repository.PdfRepository
}

// Scheduler owns the two background loops: the dispatch cycle (every
// minute) and the storage poll (every 25 seconds). Both are plain cron
// entries; a single cycle can also be driven directly, which is how the
// tests exercise them without wall-clock waits.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	logger   *zap.Logger
	repos    *Repos
	webhook  *webhook.Client
	store    *storage.Client
	notifier Notifier

	now func() time.Time
}

// New creates the background scheduler.
func New(cfg *config.Config, repos *Repos, wh *webhook.Client, store *storage.Client, notifier Notifier, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		cfg:      cfg,
		logger:   logger,
		repos:    repos,
		webhook:  wh,
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Start registers both loops and fires each once immediately.
func (s *Scheduler) Start() {
	s.logger.Info("Starting background scheduler")

	s.cron.AddFunc(every(s.cfg.Scheduler.Interval), func() {
		s.processScheduledDispatches(context.Background())
	})
	go s.processScheduledDispatches(context.Background())

	if s.store.Configured() {
		s.cron.AddFunc(every(s.cfg.Storage.PollInterval), func() {
			s.pollForPdfs(context.Background())
		})
		go s.pollForPdfs(context.Background())
	} else {
		s.logger.Warn("Storage credentials not configured, PDF polling disabled")
	}

	s.cron.Start()
	s.logger.Info("Background scheduler started")
}

// Stop stops the timers. The returned context is done once running cycles
// have drained.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func every(d time.Duration) string {
	return "@every " + d.String()
}

func (s *Scheduler) recoverFromPanic(job string) {
	if r := recover(); r != nil {
		s.logger.Error("Background job panicked", zap.String("job", job), zap.Any("panic", r))
	}
}

// processScheduledDispatches runs one dispatch cycle: find everything due,
// fire the webhook for each, advance or remove the row. A cycle never
// returns an error; failures are logged and the next interval tries again.
func (s *Scheduler) processScheduledDispatches(ctx context.Context) {
	defer s.recoverFromPanic("processScheduledDispatches")

	due, err := s.repos.Dispatch.FindDue(s.now())
	if err != nil {
		s.logger.Error("Failed to query due dispatches", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("Processing due dispatches", zap.Int("count", len(due)))

	// One webhook call per throttle window: the first token is available
	// immediately, later dispatches wait out the interval. Waiting on the
	// limiter keeps the cycle cancellable, unlike a bare sleep.
	limiter := rate.NewLimiter(rate.Every(s.cfg.Scheduler.DispatchThrottle), 1)

	for i := range due {
		if err := limiter.Wait(ctx); err != nil {
			s.logger.Warn("Dispatch cycle cancelled", zap.Error(err))
			return
		}
		s.executeDispatch(ctx, &due[i])
	}
}

func (s *Scheduler) executeDispatch(ctx context.Context, d *models.ScheduledDispatch) {
	s.logger.Info("Executing dispatch",
		zap.Uint("id", d.ID),
		zap.String("uc", d.UC),
		zap.String("type", d.ScheduleType))

	_, callErr := s.webhook.Submit(ctx, d.UC, d.CpfCnpj, d.BirthDate)
	if callErr != nil {
		s.logger.Error("Webhook call failed", zap.Uint("id", d.ID), zap.Error(callErr))
	}

	executed := s.now()
	switch d.ScheduleType {
	case models.ScheduleDaily:
		// Next fire is 24h after the previous scheduled time, not 24h from
		// now, so the configured time of day is preserved.
		next := d.ScheduledTime.Add(24 * time.Hour)
		if err := s.repos.Dispatch.UpdateExecution(d.ID, executed, &next); err != nil {
			s.logger.Error("Failed to reschedule daily dispatch", zap.Uint("id", d.ID), zap.Error(err))
		} else {
			s.logger.Info("Daily dispatch rescheduled", zap.Uint("id", d.ID), zap.Time("next", next))
		}
	default:
		// One-time dispatches get a single attempt, success or failure.
		if callErr != nil && s.cfg.Scheduler.RetainFailedOnce {
			if err := s.repos.Dispatch.UpdateExecution(d.ID, executed, nil); err != nil {
				s.logger.Error("Failed to record dispatch execution", zap.Uint("id", d.ID), zap.Error(err))
			}
			if err := s.repos.Dispatch.Toggle(d.ID, false); err != nil {
				s.logger.Error("Failed to deactivate failed dispatch", zap.Uint("id", d.ID), zap.Error(err))
			}
		} else if err := s.repos.Dispatch.Delete(d.ID); err != nil {
			s.logger.Error("Failed to remove one-time dispatch", zap.Uint("id", d.ID), zap.Error(err))
		}
	}

	if s.notifier != nil {
		s.notifier.DispatchExecuted(d, callErr)
	}
}
