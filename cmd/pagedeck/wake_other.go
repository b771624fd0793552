//go:build !darwin

package main

import "context"

// watchWake returns a channel that never fires; sleep notifications are only
// wired up on macOS.
func watchWake(ctx context.Context) <-chan struct{} {
	return make(chan struct{})
}
