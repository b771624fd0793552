package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phinze/pagedeck/internal/config"
	"github.com/phinze/pagedeck/internal/coordinator"
	"github.com/phinze/pagedeck/internal/device"
	"github.com/phinze/pagedeck/internal/dispatch"
	"github.com/phinze/pagedeck/internal/sink"
)

var (
	simTaps []string
	simHold int
	simPNG  string
	simExec bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay taps against the layout without hardware",
	Long: `simulate builds the configured layout on an in-memory display, replays the
given taps in order, and prints every command they emit. With --png the final
frame is written to a file.`,
	Example: `  pagedeck simulate --tap 200,220 --tap 100,130 --png frame.png`,
	RunE:    runSimulate,
}

func init() {
	simulateCmd.Flags().StringArrayVarP(&simTaps, "tap", "t", nil, "touch point x,y (repeatable)")
	simulateCmd.Flags().IntVar(&simHold, "hold", 1, "polls each tap is held for")
	simulateCmd.Flags().StringVar(&simPNG, "png", "", "write the final frame to this PNG file")
	simulateCmd.Flags().BoolVar(&simExec, "exec", false, "also run the configured programs")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	taps := make([]image.Point, 0, len(simTaps))
	for _, s := range simTaps {
		p, err := parsePoint(s)
		if err != nil {
			return err
		}
		taps = append(taps, p)
	}

	dev := device.NewHeadless(cfg.DisplayRect(device.DefaultDisplay))
	if err := dev.Open(); err != nil {
		return err
	}
	defer dev.Close()

	bounds, _ := dev.GetDisplayRectangle()
	layout, err := cfg.BuildLayout(bounds)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var snk dispatch.CommandSink = printSink(out)
	if simExec {
		ex := sink.NewExec(cfg.Commands, logger)
		defer ex.Close()
		snk = sink.Multi{snk, ex}
	}

	coord := coordinator.New(dev, layout, snk, logger, coordinator.WithRenderer(cfg.Renderer()))
	coord.Step()
	for _, p := range taps {
		dev.Press(p, simHold)
		for dev.Pending() > 0 {
			coord.Step()
		}
	}
	fmt.Fprintf(out, "active page %d\n", coord.ActivePage())

	if simPNG != "" {
		if err := writePNG(simPNG, dev.Frame()); err != nil {
			return err
		}
		fmt.Fprintf(out, "frame written to %s\n", simPNG)
	}
	return nil
}

func printSink(w io.Writer) dispatch.SinkFunc {
	return func(c dispatch.Command) error {
		_, err := fmt.Fprintf(w, "command %d (page %d, button %d, %q)\n", c.Code, c.Page, c.ID, c.Label)
		return err
	}
}

// parsePoint parses "x,y".
func parsePoint(s string) (image.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return image.Point{}, fmt.Errorf("tap %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return image.Point{}, fmt.Errorf("tap %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return image.Point{}, fmt.Errorf("tap %q: %w", s, err)
	}
	return image.Pt(x, y), nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
