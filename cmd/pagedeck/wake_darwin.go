package main

import (
	"context"

	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
)

// watchWake returns a channel signalled each time the system wakes from
// sleep. USB devices come back with new handles after wake, so the session
// is torn down and the device reopened.
func watchWake(ctx context.Context) <-chan struct{} {
	sleepCh := notifier.GetInstance().Start()
	wakeCh := make(chan struct{}, 1)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case activity, ok := <-sleepCh:
				if !ok {
					return
				}
				if activity.Type != notifier.Awake {
					continue
				}
				logger.Info("System wake detected")
				select {
				case wakeCh <- struct{}{}:
				default:
				}
			}
		}
	}()

	return wakeCh
}
