// Package worker runs the background loop that re-resolves placeholder
// products against the external product database.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RetryProcessor drains one batch of flagged products. Implemented by
// the product service.
type RetryProcessor interface {
	ProcessRetryQueue(ctx context.Context, maxAttempts, batchSize int) (examined, resolved int, err error)
}

// RetryWorker periodically re-resolves products whose lookup came back
// empty. Attempts stop once a product reaches the configured cap.
type RetryWorker struct {
	mu          sync.RWMutex
	processor   RetryProcessor
	interval    time.Duration
	maxAttempts int
	batchSize   int
	log         *zap.Logger
	cancel      context.CancelFunc
	done        chan struct{}
}

// NewRetryWorker creates the worker. It does not start ticking until
// Start is called.
func NewRetryWorker(processor RetryProcessor, interval time.Duration, maxAttempts, batchSize int, log *zap.Logger) *RetryWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RetryWorker{
		processor:   processor,
		interval:    interval,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
		log:         log,
	}
}

// Start begins the retry loop.
func (w *RetryWorker) Start(ctx context.Context) {
	w.mu.Lock()
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.mu.Unlock()

	w.log.Info("lookup retry worker started",
		zap.Duration("interval", w.interval),
		zap.Int("maxAttempts", w.maxAttempts),
		zap.Int("batchSize", w.batchSize))

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.tick(ctx)
			}
		}
	}()
}

// Stop gracefully stops the worker and waits for the loop to exit.
func (w *RetryWorker) Stop() {
	w.mu.RLock()
	cancel := w.cancel
	done := w.done
	w.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	w.log.Info("lookup retry worker stopped")
}

func (w *RetryWorker) tick(ctx context.Context) {
	examined, resolved, err := w.processor.ProcessRetryQueue(ctx, w.maxAttempts, w.batchSize)
	if err != nil {
		w.log.Error("retry queue pass failed", zap.Error(err))
		return
	}
	if examined > 0 {
		w.log.Info("retry queue pass finished",
			zap.Int("examined", examined),
			zap.Int("resolved", resolved))
	}
}
