package logger

import (
	"context"
)

// Recover traps panics and displays them using FatalWithStackSkip.
// Usage: defer logger.Recover(ctx)
func Recover(ctx context.Context) {
	if r := recover(); r != nil {
		// Suppress further panics during recovery
		defer func() {
			_ = recover()
		}()

		if _, ok := r.(FatalError); ok {
			return
		}

		// We skip 2 frames: Recover + runtime.panic
		FatalWithStackSkip(ctx, 2, "panic: %v", r)
	}
}
