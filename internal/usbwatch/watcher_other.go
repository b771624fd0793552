//go:build !darwin

package usbwatch

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Watch returns a channel that is signalled every FallbackInterval until ctx
// is cancelled. Without IOKit there is no arrival callback to wait on, so
// callers simply retry on each signal.
func Watch(ctx context.Context, vendorID uint16, logger *zap.SugaredLogger) <-chan struct{} {
	ch := make(chan struct{}, 1)
	logger = logger.Named("usbwatch")

	go func() {
		ticker := time.NewTicker(FallbackInterval)
		defer ticker.Stop()

		logger.Debugw("Polling for USB devices", "vendor", vendorID, "interval", FallbackInterval)
		for {
			select {
			case <-ctx.Done():
				logger.Debug("Stopped")
				return
			case <-ticker.C:
				notify(ch)
			}
		}
	}()

	return ch
}
