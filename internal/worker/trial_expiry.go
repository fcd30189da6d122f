package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/internal/pkg/metrics"
)

const trialExpiryJob = "trial_expiry"

// TrialExpirer moves lapsed trials to expired
type TrialExpirer interface {
	ExpireTrials(ctx context.Context) (int64, error)
}

// TrialExpiry periodically expires lapsed trials
type TrialExpiry struct {
	expirer   TrialExpirer
	schedule  string
	logger    *logger.Logger
	scheduler *cron.Cron

	mu      sync.Mutex
	running bool
}

// NewTrialExpiry creates the worker. schedule accepts standard cron
// expressions and descriptors such as "@every 1h".
func NewTrialExpiry(expirer TrialExpirer, schedule string, log *logger.Logger) (*TrialExpiry, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule: %w", err)
	}
	return &TrialExpiry{
		expirer:  expirer,
		schedule: schedule,
		logger:   log,
	}, nil
}

// Start runs one pass immediately and then schedules the job
func (w *TrialExpiry) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("trial expiry worker is already running")
	}

	w.scheduler = cron.New()
	if _, err := w.scheduler.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule trial expiry: %w", err)
	}

	go w.RunOnce(ctx)

	w.scheduler.Start()
	w.running = true

	w.logger.With("schedule", w.schedule).Info("Trial expiry worker started")
	return nil
}

// Stop stops scheduling and waits for a running pass to finish
func (w *TrialExpiry) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	<-w.scheduler.Stop().Done()
	w.running = false
	w.logger.Info("Trial expiry worker stopped")
}

// RunOnce expires lapsed trials once
func (w *TrialExpiry) RunOnce(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	n, err := w.expirer.ExpireTrials(ctx)
	if err != nil {
		metrics.RecordWorkerRun(trialExpiryJob, "failed")
		w.logger.ErrorWithErr(err, "Trial expiry run failed")
		return 0, err
	}

	metrics.RecordWorkerRun(trialExpiryJob, "success")
	return n, nil
}
