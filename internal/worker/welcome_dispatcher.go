package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/internal/pkg/metrics"
)

// WelcomeDispatcher delivers welcome notifications on a fixed pool of
// workers, after the registration response has been written. Each
// notification gets one attempt bounded by its own timeout.
type WelcomeDispatcher struct {
	notifier notification.Notifier
	queue    chan notification.WelcomeRequest
	workers  int
	timeout  time.Duration
	logger   *logger.Logger

	mu      sync.RWMutex
	started bool
	closed  bool
	wg      sync.WaitGroup
}

// NewWelcomeDispatcher creates a dispatcher with the given pool and queue size
func NewWelcomeDispatcher(
	notifier notification.Notifier,
	workers, queueSize int,
	timeout time.Duration,
	log *logger.Logger,
) *WelcomeDispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &WelcomeDispatcher{
		notifier: notifier,
		queue:    make(chan notification.WelcomeRequest, queueSize),
		workers:  workers,
		timeout:  timeout,
		logger:   log,
	}
}

// Start launches the workers. Calling Start more than once has no effect.
func (d *WelcomeDispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(i)
	}

	d.logger.WithFields(map[string]interface{}{
		"workers":    d.workers,
		"queue_size": cap(d.queue),
	}).Info("Welcome dispatcher started")
}

// Dispatch queues req without blocking. It returns false when the queue is
// full or the dispatcher is stopped; the notification is then dropped.
func (d *WelcomeDispatcher) Dispatch(req notification.WelcomeRequest) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.RecordDispatch("dropped")
		d.logger.With("template", req.TemplateFor()).Warn("Welcome dispatcher stopped, notification dropped")
		return false
	}

	select {
	case d.queue <- req:
		metrics.SetDispatchQueueDepth(len(d.queue))
		return true
	default:
		metrics.RecordDispatch("dropped")
		d.logger.With("template", req.TemplateFor()).Warn("Welcome queue full, notification dropped")
		return false
	}
}

// Stop stops accepting notifications and waits for queued ones to finish or
// for ctx to end
func (d *WelcomeDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Welcome dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.logger.Warn("Welcome dispatcher stopped before draining its queue")
		return ctx.Err()
	}
}

func (d *WelcomeDispatcher) run(id int) {
	defer d.wg.Done()

	for req := range d.queue {
		metrics.SetDispatchQueueDepth(len(d.queue))
		d.deliver(id, req)
	}
}

func (d *WelcomeDispatcher) deliver(worker int, req notification.WelcomeRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	log := d.logger.WithFields(map[string]interface{}{
		"worker":   worker,
		"template": req.TemplateFor(),
	})

	if err := d.notifier.NotifyWelcome(ctx, req); err != nil {
		metrics.RecordDispatch("failed")
		log.ErrorWithErr(err, "Welcome notification failed")
		return
	}

	metrics.RecordDispatch("sent")
	log.Debug("Welcome notification delivered")
}
