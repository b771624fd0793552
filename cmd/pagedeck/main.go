package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phinze/pagedeck/internal/config"
	"github.com/phinze/pagedeck/internal/coordinator"
	"github.com/phinze/pagedeck/internal/device"
	"github.com/phinze/pagedeck/internal/sink"
)

var (
	configPath string
	debug      bool

	logger = zap.NewNop().Sugar()
)

var rootCmd = &cobra.Command{
	Use:   "pagedeck",
	Short: "Paged touch button panel for Stream Deck touch strips",
	Long: `pagedeck shows tabs and command buttons on a touch display. Tapping a tab
switches the page; tapping a command button runs the program configured for
10*page + button id.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(debug)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runDaemon,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/pagedeck/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(runCmd, emulateCmd, simulateCmd, statusCmd, setupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// session wires one connected device: its layout, the command sinks, the
// coordinator, and config reloads.
type session struct {
	dev    device.Device
	bounds image.Rectangle
	coord  *coordinator.Coordinator
	exec   *sink.Exec
}

func newSession(cfg *config.Config, dev device.Device) (*session, error) {
	bounds, err := dev.GetDisplayRectangle()
	if err != nil {
		return nil, fmt.Errorf("reading display size: %w", err)
	}

	layout, err := cfg.BuildLayout(bounds)
	if err != nil {
		return nil, err
	}

	ex := sink.NewExec(cfg.Commands, logger)
	coord := coordinator.New(dev, layout, sink.Multi{sink.NewLog(logger), ex}, logger,
		coordinator.WithInterval(cfg.PollInterval),
		coordinator.WithRenderer(cfg.Renderer()))

	return &session{dev: dev, bounds: bounds, coord: coord, exec: ex}, nil
}

// watch applies changes to the config file until ctx is cancelled.
func (s *session) watch(ctx context.Context, path string) {
	w, err := config.NewWatcher(path, logger)
	if err != nil {
		logger.Warnw("Config reload disabled", "error", err)
		return
	}
	go w.Run(ctx, s.apply)
}

func (s *session) apply(cfg *config.Config) {
	layout, err := cfg.BuildLayout(s.bounds)
	if err != nil {
		logger.Warnw("Ignoring reloaded config", "error", err)
		return
	}
	s.coord.Reload(layout)
	s.exec.SetCommands(cfg.Commands)
	if err := s.dev.SetBrightness(byte(cfg.Brightness)); err != nil {
		logger.Warnw("Failed to set brightness", "error", err)
	}
}

// close stops the coordinator and any running programs.
func (s *session) close() {
	s.coord.Stop()
	s.exec.Close()
}
