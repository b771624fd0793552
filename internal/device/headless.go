package device

import (
	"errors"
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// ErrClosed is returned by devices used after Close.
var ErrClosed = errors.New("device is not open")

type touchStep struct {
	point image.Point
	ok    bool
}

// Headless is an in-memory device. Frames are kept for inspection and touches
// are replayed from a script, one step per ReadTouch.
type Headless struct {
	mu         sync.Mutex
	bounds     image.Rectangle
	open       bool
	opened     bool
	brightness byte
	frame      *image.RGBA
	frames     int
	script     []touchStep
	done       chan struct{}
}

// NewHeadless creates a headless device with the given display bounds.
func NewHeadless(bounds image.Rectangle) *Headless {
	return &Headless{
		bounds:     bounds,
		brightness: 100,
		frame:      image.NewRGBA(bounds),
		done:       make(chan struct{}),
	}
}

// Open implements Device.
func (h *Headless) Open() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.open {
		return errors.New("headless: device is already open")
	}
	h.open = true
	h.opened = true
	h.done = make(chan struct{})
	return nil
}

// Close implements Device and ends Listen.
func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.open {
		return ErrClosed
	}
	h.open = false
	close(h.done)
	return nil
}

// IsOpen implements Device.
func (h *Headless) IsOpen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.open
}

// GetModelName implements Device.
func (h *Headless) GetModelName() string {
	return "Headless"
}

// GetDisplayRectangle implements Device.
func (h *Headless) GetDisplayRectangle() (image.Rectangle, error) {
	return h.bounds, nil
}

// SetBrightness implements Device.
func (h *Headless) SetBrightness(perc byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if perc > 100 {
		perc = 100
	}
	h.brightness = perc
	return nil
}

// Brightness returns the last brightness set.
func (h *Headless) Brightness() byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.brightness
}

// SetImage implements Device.
func (h *Headless) SetImage(img image.Image) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.open {
		return ErrClosed
	}
	frame := image.NewRGBA(h.bounds)
	draw.Draw(frame, h.bounds, fit(img, h.bounds), h.bounds.Min, draw.Src)
	h.frame = frame
	h.frames++
	return nil
}

// Clear implements Device.
func (h *Headless) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frame = image.NewRGBA(h.bounds)
	return nil
}

// Frame returns the last frame set.
func (h *Headless) Frame() *image.RGBA {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame
}

// FrameCount returns how many frames were set.
func (h *Headless) FrameCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Tap scripts a touch at p for one read followed by one read with no touch.
func (h *Headless) Tap(p image.Point) {
	h.Press(p, 1)
}

// Press scripts a touch at p held for reads reads, then released.
func (h *Headless) Press(p image.Point, reads int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := 0; i < reads; i++ {
		h.script = append(h.script, touchStep{point: p, ok: true})
	}
	h.script = append(h.script, touchStep{})
}

// Pending returns the number of scripted reads left.
func (h *Headless) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.script)
}

// ReadTouch implements Device.
func (h *Headless) ReadTouch() (image.Point, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.script) == 0 {
		return image.Point{}, false
	}
	step := h.script[0]
	h.script = h.script[1:]
	return step.point, step.ok
}

// Listen blocks until the device is closed. It returns at once if the device
// was opened and has since been closed, and ErrClosed if it was never opened.
func (h *Headless) Listen(errCh chan error) error {
	h.mu.Lock()
	if !h.opened {
		h.mu.Unlock()
		return ErrClosed
	}
	done := h.done
	h.mu.Unlock()

	<-done
	return nil
}
