// Package coordinator connects a device to the dispatcher and pushes frames
// to the display when the layout changes.
package coordinator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/phinze/pagedeck/internal/device"
	"github.com/phinze/pagedeck/internal/dispatch"
	"github.com/phinze/pagedeck/internal/render"
)

// Coordinator owns the dispatcher and renders its layout onto the device.
type Coordinator struct {
	device     device.Device
	dispatcher *dispatch.Dispatcher
	renderer   *render.Renderer
	logger     *zap.SugaredLogger

	// Layouts waiting to be swapped in on the dispatcher goroutine
	reloads chan *dispatch.PageLayout

	// A full frame is pushed on the next refresh even without damage
	force bool

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type options struct {
	interval time.Duration
	renderer *render.Renderer
}

// Option configures a Coordinator.
type Option func(*options)

// WithInterval sets the touch poll period.
func WithInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithRenderer replaces the default renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// New creates a Coordinator driving layout on dev. Commands go to sink.
func New(dev device.Device, layout *dispatch.PageLayout, sink dispatch.CommandSink, logger *zap.SugaredLogger, opts ...Option) *Coordinator {
	o := options{interval: dispatch.DefaultInterval}
	for _, opt := range opts {
		opt(&o)
	}
	if o.renderer == nil {
		o.renderer = render.New()
	}

	c := &Coordinator{
		device:   dev,
		renderer: o.renderer,
		logger:   logger.Named("coordinator"),
		reloads:  make(chan *dispatch.PageLayout, 1),
		force:    true,
	}
	c.dispatcher = dispatch.New(layout, dev, sink,
		dispatch.WithInterval(o.interval),
		dispatch.WithLogger(logger),
		dispatch.WithOnPoll(c.refresh),
	)
	return c
}

// Device returns the device being driven.
func (c *Coordinator) Device() device.Device {
	return c.device
}

// Start begins polling and rendering. It blocks until ctx is cancelled or the
// device listener returns, and returns the listener's error in that case.
func (c *Coordinator) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	// Start device listener
	listenErr := make(chan error, 1)
	go func() {
		err := c.device.Listen(nil)
		if err != nil {
			listenErr <- err
		}
		close(listenErr)
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.dispatcher.Run(c.ctx); err != nil {
			c.logger.Warnw("Dispatcher stopped", "error", err)
		}
	}()

	// Wait for context cancellation or device disconnect
	select {
	case <-c.ctx.Done():
		return nil
	case err := <-listenErr:
		c.logger.Infow("Device listener exited", "error", err)
		return err
	}
}

// Stop ends polling and waits for the loop to exit.
func (c *Coordinator) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return nil
}

// Reload queues a new layout. It is swapped in before the next render; a
// layout queued earlier but not yet applied is dropped.
func (c *Coordinator) Reload(l *dispatch.PageLayout) {
	for {
		select {
		case c.reloads <- l:
			return
		default:
		}
		select {
		case stale := <-c.reloads:
			stale.Release()
		default:
		}
	}
}

// Step polls once and renders, for callers driving the coordinator without
// Start. It must not be used while Start is running.
func (c *Coordinator) Step() bool {
	edge := c.dispatcher.Poll()
	c.refresh()
	return edge
}

// ActivePage returns the dispatcher's page. Like Step, it must not be used
// while Start is running.
func (c *Coordinator) ActivePage() int {
	return c.dispatcher.ActivePage()
}

// refresh applies a pending reload and pushes a frame if anything changed.
// It runs on the dispatcher goroutine.
func (c *Coordinator) refresh() {
	select {
	case l := <-c.reloads:
		old := c.dispatcher.Layout()
		c.dispatcher.SetLayout(l)
		old.Release()
		c.force = true
		c.logger.Infow("Layout reloaded", "tabs", len(l.Tabs), "buttons", len(l.Buttons), "page", c.dispatcher.ActivePage())
	default:
	}

	l := c.dispatcher.Layout()
	if !c.force && !l.Root.Damaged() {
		return
	}

	frame := c.renderer.Frame(l.Bounds, l.Root)
	if err := c.device.SetImage(frame); err != nil {
		c.logger.Warnw("Failed to set display image", "error", err)
		return
	}
	l.Root.Clean()
	c.force = false
}
