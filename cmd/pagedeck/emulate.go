package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phinze/pagedeck/internal/config"
	"github.com/phinze/pagedeck/internal/device"
	"github.com/phinze/pagedeck/internal/device/emulator"
)

var emulateCmd = &cobra.Command{
	Use:   "emulate",
	Short: "Run the panel in a desktop window; the mouse is the finger",
	RunE:  runEmulate,
}

func runEmulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	emu := emulator.New(cfg.DisplayRect(device.DefaultDisplay))
	if err := emu.Open(); err != nil {
		return fmt.Errorf("opening emulator: %w", err)
	}
	if err := emu.SetBrightness(byte(cfg.Brightness)); err != nil {
		logger.Warnw("Failed to set brightness", "error", err)
	}

	s, err := newSession(cfg, emu)
	if err != nil {
		emu.Close()
		return err
	}
	s.watch(ctx, cfg.Path())

	// The session ends when the window closes or a signal arrives; in the
	// latter case the window is closed from here.
	go func() {
		if err := s.coord.Start(ctx); err != nil {
			logger.Warnw("Emulator session ended", "error", err)
		}
		s.close()
		if emu.IsOpen() {
			emu.Close()
		}
	}()

	logger.Infow("Emulator ready", "model", emu.GetModelName())

	// Run GUI on main thread (required for macOS)
	if err := emu.RunGUI(); err != nil {
		return fmt.Errorf("emulator GUI: %w", err)
	}
	cancel()
	return nil
}
