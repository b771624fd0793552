package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"rafaelmartins.com/p/streamdeck"

	"github.com/phinze/pagedeck/internal/config"
	"github.com/phinze/pagedeck/internal/device"
	"github.com/phinze/pagedeck/internal/usbwatch"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive a connected Stream Deck (the default)",
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Infow("Starting pagedeck", "config", cfg.Path())

	ctx, cancel := signalContext()
	defer cancel()

	wakeCh := watchWake(ctx)
	usbCh := usbwatch.Watch(ctx, usbwatch.ElgatoVendorID, logger)

	// Main device loop - wait for device, run, repeat on disconnect
	for {
		dev := waitForHardwareDevice(ctx, wakeCh, usbCh)
		if dev == nil {
			// Context cancelled
			break
		}

		// Avoid racing a device that connects after shutdown was requested
		select {
		case <-ctx.Done():
			logger.Info("Exiting...")
			dev.Close()
			return nil
		default:
		}

		// A wake signal from before the device enumerated would tear the
		// session down immediately.
	drainWake:
		for {
			select {
			case <-wakeCh:
				logger.Debug("Draining stale wake signal")
			default:
				break drainWake
			}
		}

		// USB enumeration may not be complete even after GetDevice succeeds.
		time.Sleep(500 * time.Millisecond)

		runWithDevice(ctx, cfg, dev, wakeCh)

		select {
		case <-ctx.Done():
			logger.Info("Exiting...")
			return nil
		default:
			logger.Info("Waiting for device reconnect...")
		}
	}
	return nil
}

// tryGetDeviceWithTimeout attempts to get and open a Stream Deck with a
// timeout, since enumeration can block when the USB subsystem is in a bad
// state. It returns nil on failure.
func tryGetDeviceWithTimeout(timeout time.Duration) *streamdeck.Device {
	type result struct {
		dev *streamdeck.Device
		err error
	}
	ch := make(chan result, 1)

	go func() {
		dev, err := streamdeck.GetDevice("")
		if err != nil {
			ch <- result{nil, err}
			return
		}
		if err := dev.Open(); err != nil {
			ch <- result{nil, err}
			return
		}
		ch <- result{dev, nil}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			logger.Debugw("No device", "error", r.err)
			return nil
		}
		return r.dev
	case <-time.After(timeout):
		logger.Warn("Device detection timed out")
		return nil
	}
}

// waitForHardwareDevice polls for a Stream Deck until one is available. Wake
// and USB arrival signals trigger an immediate retry.
func waitForHardwareDevice(ctx context.Context, wakeCh, usbCh <-chan struct{}) device.Device {
	const deviceTimeout = 5 * time.Second

	if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
		return device.NewHardware(dev)
	}

	logger.Info("Waiting for device...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wakeCh:
			// After wake, USB devices may take several seconds to enumerate.
			logger.Info("Wake signal received, probing for device...")
			for i := 0; i < 10; i++ {
				if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
					logger.Info("Device connected!")
					return device.NewHardware(dev)
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(500 * time.Millisecond):
				}
			}
			logger.Info("Device not found after wake, resuming polling...")
		case <-usbCh:
			logger.Debug("USB arrival, probing for device...")
		case <-time.After(2 * time.Second):
		}

		if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
			logger.Info("Device connected!")
			return device.NewHardware(dev)
		}
	}
}

// runWithDevice runs a session on dev until disconnect, wake, or ctx cancel.
func runWithDevice(ctx context.Context, cfg *config.Config, dev device.Device, wakeCh <-chan struct{}) {
	logger.Infow("Connected", "model", dev.GetModelName())

	if err := dev.SetBrightness(byte(cfg.Brightness)); err != nil {
		logger.Warnw("Failed to set brightness", "error", err)
	}
	if err := dev.Clear(); err != nil {
		logger.Warnw("Failed to clear device", "error", err)
	}

	s, err := newSession(cfg, dev)
	if err != nil {
		logger.Errorw("Cannot start session", "error", err)
		dev.Close()
		return
	}

	// Child context so the session can be stopped independently
	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	s.watch(runCtx, cfg.Path())

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.coord.Start(runCtx)
	}()

	logger.Info("Ready!")

	select {
	case <-ctx.Done():
		logger.Info("Shutting down...")
	case err := <-errChan:
		if err != nil {
			logger.Warnw("Device disconnected", "error", err)
		}
	case <-wakeCh:
		logger.Info("Reconnecting device after wake...")
	}

	runCancel()

	done := make(chan struct{})
	go func() {
		s.close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		logger.Warn("Cleanup timed out")
	}

	// The usbhid library does not cancel in-flight I/O on close; let pending
	// callbacks finish before the handle goes away.
	time.Sleep(200 * time.Millisecond)

	closeDone := make(chan struct{})
	go func() {
		dev.Close()
		close(closeDone)
	}()

	// Close may block indefinitely; on shutdown, exit instead of waiting.
	select {
	case <-ctx.Done():
		logger.Info("Exiting...")
		_ = logger.Sync()
		os.Exit(0)
	case <-closeDone:
	case <-time.After(3 * time.Second):
		logger.Warn("Device close timed out")
	}
}
