package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/phinze/pagedeck/internal/config"
	"github.com/phinze/pagedeck/internal/device"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check config, layout, secrets, and device health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== pagedeck status ===")
	fmt.Fprintln(out)

	allOK := true

	// Config file
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fmt.Fprintf(out, "Config file: %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintln(out, "  Status: found")
	} else {
		fmt.Fprintln(out, "  Status: not found, using defaults")
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(out, "  Load error: %v\n", err)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Some checks failed. Run 'pagedeck setup' to configure.")
		return nil
	}
	fmt.Fprintf(out, "  Poll interval: %s\n", cfg.PollInterval)
	fmt.Fprintf(out, "  Brightness: %d%%\n", cfg.Brightness)
	fmt.Fprintf(out, "  Font: %s %.0fpt\n", cfg.Font.Name, cfg.Font.Size)
	fmt.Fprintln(out)

	// Layout
	fmt.Fprintln(out, "Layout:")
	bounds := cfg.DisplayRect(device.DefaultDisplay)
	if cfg.Layout == nil {
		fmt.Fprintf(out, "  Source: default (%dx%d)\n", bounds.Dx(), bounds.Dy())
	} else {
		fmt.Fprintf(out, "  Source: config (%dx%d)\n", bounds.Dx(), bounds.Dy())
	}
	if l, err := cfg.BuildLayout(bounds); err == nil {
		fmt.Fprintf(out, "  Pages: %v\n", l.Pages())
		fmt.Fprintf(out, "  Command buttons: %d\n", len(l.Buttons))
	} else {
		fmt.Fprintf(out, "  Build error: %v\n", err)
		allOK = false
	}
	fmt.Fprintln(out)

	// Commands and their secrets
	fmt.Fprintln(out, "Commands:")
	if len(cfg.Commands) == 0 {
		fmt.Fprintln(out, "  none configured (presses are only logged)")
	}
	codes := make([]int, 0, len(cfg.Commands))
	for code := range cfg.Commands {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		cc := cfg.Commands[code]
		fmt.Fprintf(out, "  %3d: %v\n", code, cc.Run)
		if cc.Secret == "" {
			continue
		}
		if cc.SecretValue != "" {
			fmt.Fprintf(out, "       Secret %s (Keychain): set\n", cc.Secret)
		} else {
			fmt.Fprintf(out, "       Secret %s: NOT SET\n", cc.Secret)
			allOK = false
		}
	}
	fmt.Fprintln(out)

	// Device check (quick USB probe)
	fmt.Fprintln(out, "Stream Deck:")
	if dev := tryGetDeviceWithTimeout(2 * time.Second); dev != nil {
		hw := device.NewHardware(dev)
		fmt.Fprintf(out, "  Device: CONNECTED (%s)\n", hw.GetModelName())
		if r, err := hw.GetDisplayRectangle(); err == nil {
			fmt.Fprintf(out, "  Touch strip: %dx%d\n", r.Dx(), r.Dy())
		} else {
			fmt.Fprintf(out, "  Touch strip: %v\n", err)
			allOK = false
		}
		hw.Close()
	} else {
		fmt.Fprintln(out, "  Device: not detected")
	}
	fmt.Fprintln(out)

	if allOK {
		fmt.Fprintln(out, "All checks passed.")
	} else {
		fmt.Fprintln(out, "Some checks failed. Run 'pagedeck setup' to configure.")
	}
	return nil
}
