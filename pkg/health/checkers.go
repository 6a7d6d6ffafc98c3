package health

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails when the process runs more than threshold
// goroutines.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}

// GCMaxPauseCheck fails when any recent stop-the-world GC pause took longer
// than threshold.
func GCMaxPauseCheck(threshold time.Duration) CheckFunc {
	return func(context.Context) error {
		var stats debug.GCStats
		debug.ReadGCStats(&stats)
		for _, pause := range stats.Pause {
			if pause > threshold {
				return errors.Errorf("GC pause %s exceeds threshold %s", pause, threshold)
			}
		}
		return nil
	}
}

// CounterFunc is satisfied by stores that can report their size.
type CounterFunc func(ctx context.Context) (int, error)

// StoreCheck fails when the store cannot report its size in time.
func StoreCheck(count CounterFunc) CheckFunc {
	return func(ctx context.Context) error {
		if _, err := count(ctx); err != nil {
			return errors.Wrap(err, "count")
		}
		return ctx.Err()
	}
}
