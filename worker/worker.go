package worker

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
)

// Worker runs until its context is cancelled.
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker drives an onWork func on a fixed cadence. Errors slow the loop
// down instead of stopping it.
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

// StartTick loops onWork until ctx is done.
func (w *TickWorker) StartTick(ctx context.Context, onWork func(ctx context.Context) error) error {
	delay := w.Delay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	errDelay := w.ErrDelay
	if errDelay <= 0 {
		errDelay = 3 * time.Second
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			next := delay
			if err := onWork(ctx); err != nil {
				logger.FromContext(ctx).WithError(err).Debugln("worker tick failed")
				next = errDelay
			}
			timer.Reset(next)
		}
	}
}
