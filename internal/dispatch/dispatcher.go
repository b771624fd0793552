// Package dispatch turns touches on a paged button layout into command codes.
package dispatch

import (
	"context"
	"image"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the poll period of Run.
const DefaultInterval = 500 * time.Millisecond

// Command is emitted when a command button is pressed.
type Command struct {
	// Code is 10*Page + the button id.
	Code  int
	Page  int
	ID    int
	Label string
}

// CommandSink receives emitted commands. Errors are logged and do not stop
// the dispatcher.
type CommandSink interface {
	Send(Command) error
}

// SinkFunc adapts a function to CommandSink.
type SinkFunc func(Command) error

// Send implements CommandSink.
func (f SinkFunc) Send(c Command) error {
	return f(c)
}

// Dispatcher polls a touch source and drives a PageLayout. All of its methods
// must be called from one goroutine; Run is that goroutine when it is used.
type Dispatcher struct {
	layout   *PageLayout
	source   TouchSource
	sink     CommandSink
	logger   *zap.SugaredLogger
	interval time.Duration
	onPoll   func()

	activePage int
	last       image.Point
	touching   bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithInterval sets the poll period of Run.
func WithInterval(d time.Duration) Option {
	return func(dp *Dispatcher) {
		if d > 0 {
			dp.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(dp *Dispatcher) {
		dp.logger = l.Named("dispatch")
	}
}

// WithOnPoll registers fn to run on the Run goroutine after every poll.
func WithOnPoll(fn func()) Option {
	return func(dp *Dispatcher) {
		dp.onPoll = fn
	}
}

// New creates a dispatcher starting on the layout's initial page.
func New(layout *PageLayout, source TouchSource, sink CommandSink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		layout:     layout,
		source:     source,
		sink:       sink,
		logger:     zap.NewNop().Sugar(),
		interval:   DefaultInterval,
		activePage: layout.InitialPage,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ActivePage returns the page selected by the last tab press.
func (d *Dispatcher) ActivePage() int {
	return d.activePage
}

// LastTouch returns the point read by the previous poll, if there was one.
func (d *Dispatcher) LastTouch() (image.Point, bool) {
	return d.last, d.touching
}

// Layout returns the layout being driven.
func (d *Dispatcher) Layout() *PageLayout {
	return d.layout
}

// SetLayout replaces the layout. The active page carries over when the new
// layout has a tab for it; otherwise the new layout's initial page is used.
// A touch held across the swap does not fire on the new layout.
func (d *Dispatcher) SetLayout(l *PageLayout) {
	d.layout = l
	page := l.InitialPage
	if l.TabFor(d.activePage) != nil {
		page = d.activePage
	}
	d.setPage(page)
}

// Poll reads the touch source once and updates the layout. It reports
// whether this poll was a new press.
func (d *Dispatcher) Poll() bool {
	p, ok := d.source.ReadTouch()
	edge := ok && !d.touching
	if edge {
		d.press(p)
	} else {
		d.release()
	}
	d.last, d.touching = p, ok
	return edge
}

// press runs one matching pass over every touchable. Iteration continues
// after a match so that overlapping touchables are all selected.
func (d *Dispatcher) press(p image.Point) {
	for _, t := range d.layout.Tabs {
		if !t.Button.Contains(p) {
			t.Button.SetSelected(false)
			continue
		}
		t.Button.SetSelected(true)
		d.logger.Infow("Setting active page", "page", t.Page, "x", p.X, "y", p.Y)
		d.setPage(t.Page)
	}

	for _, c := range d.layout.Buttons {
		if !c.Button.Contains(p) {
			c.Button.SetSelected(false)
			continue
		}
		c.Button.SetSelected(true)
		cmd := Command{
			Code:  10*d.activePage + c.ID,
			Page:  d.activePage,
			ID:    c.ID,
			Label: c.Button.Label(),
		}
		d.logger.Infow("Button pressed", "label", cmd.Label, "page", cmd.Page, "command", cmd.Code)
		if err := d.sink.Send(cmd); err != nil {
			d.logger.Warnw("Command sink failed", "command", cmd.Code, "error", err)
		}
	}
}

// release returns every command button to its normal palette. Tabs keep
// their state until the next press.
func (d *Dispatcher) release() {
	for _, c := range d.layout.Buttons {
		c.Button.SetSelected(false)
	}
}

func (d *Dispatcher) setPage(page int) {
	d.activePage = page
	if t := d.layout.TabFor(page); t != nil {
		d.layout.Background.SetFill(t.Color)
		d.layout.Background.SetOutline(t.Color)
	}
	for _, c := range d.layout.Buttons {
		if err := relabel(c, page); err != nil {
			d.logger.Warnw("Failed to relabel button", "button", c.Button.Name(), "page", page, "error", err)
		}
	}
}

// Run polls until ctx is cancelled, then returns nil.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Debugw("Dispatcher started", "interval", d.interval, "page", d.activePage)
	for {
		d.Poll()
		if d.onPoll != nil {
			d.onPoll()
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
