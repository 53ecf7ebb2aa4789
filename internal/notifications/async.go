package notifications

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CallAsync runs fn on its own goroutine with a detached timeout context so
// a slow or failing notification never holds up the request that triggered
// it. Failures are logged, not returned.
func CallAsync(fn func(ctx context.Context) error, name string) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				zap.S().Errorw("notification panicked", "name", name, "panic", rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := fn(ctx); err != nil {
			zap.S().Errorw("notification failed", "name", name, "error", err)
		}
	}()
}
