package device

import (
	"errors"
	"image"
	"sync"

	"rafaelmartins.com/p/streamdeck"
)

// ErrNoTouchStrip is returned for Stream Deck models without a touch strip.
var ErrNoTouchStrip = errors.New("device has no touch strip")

// Touch strip touch types, mirroring the streamdeck package.
const (
	touchShort byte = iota + 1
	touchLong
)

// Reads a latched tap is reported for. A long press is reported as a held
// touch so it selects its button without firing twice.
const (
	shortTouchReads = 1
	longTouchReads  = 3
)

// HardwareDevice drives the touch strip of a Stream Deck Plus as the display
// and touch panel.
type HardwareDevice struct {
	dev *streamdeck.Device

	mu    sync.Mutex
	touch latch
}

// NewHardware creates a new hardware device wrapper.
func NewHardware(dev *streamdeck.Device) *HardwareDevice {
	return &HardwareDevice{dev: dev}
}

// Open opens the device for use.
func (h *HardwareDevice) Open() error {
	return h.dev.Open()
}

// Close closes the device.
func (h *HardwareDevice) Close() error {
	return h.dev.Close()
}

// IsOpen returns whether the device is open.
func (h *HardwareDevice) IsOpen() bool {
	return h.dev.IsOpen()
}

// GetModelName returns the device model name.
func (h *HardwareDevice) GetModelName() string {
	return h.dev.GetModelName()
}

// GetDisplayRectangle returns the touch strip dimensions.
func (h *HardwareDevice) GetDisplayRectangle() (image.Rectangle, error) {
	if !h.dev.GetTouchStripSupported() {
		return image.Rectangle{}, ErrNoTouchStrip
	}
	return h.dev.GetTouchStripImageRectangle()
}

// SetBrightness sets the device brightness.
func (h *HardwareDevice) SetBrightness(perc byte) error {
	return h.dev.SetBrightness(perc)
}

// SetImage sends a frame to the touch strip, scaling it if needed.
func (h *HardwareDevice) SetImage(img image.Image) error {
	rect, err := h.GetDisplayRectangle()
	if err != nil {
		return err
	}
	return h.dev.SetTouchStripImage(fit(img, rect))
}

// Clear blanks the keys and the touch strip.
func (h *HardwareDevice) Clear() error {
	if err := h.dev.ForEachKey(func(k streamdeck.KeyID) error {
		return h.dev.ClearKey(k)
	}); err != nil {
		return err
	}
	rect, err := h.GetDisplayRectangle()
	if err != nil {
		return err
	}
	return h.dev.SetTouchStripImage(image.NewRGBA(rect))
}

// ReadTouch returns the last tap on the strip. The strip reports taps rather
// than contact, so each tap is seen for a fixed number of reads.
func (h *HardwareDevice) ReadTouch() (image.Point, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.touch.read()
}

func (h *HardwareDevice) onTouch(t byte, p image.Point) {
	reads := shortTouchReads
	if t == touchLong {
		reads = longTouchReads
	}
	h.mu.Lock()
	h.touch.set(p, reads)
	h.mu.Unlock()
}

// Listen registers the strip handler and runs the device event loop.
func (h *HardwareDevice) Listen(errCh chan error) error {
	if err := h.dev.AddTouchStripTouchHandler(func(d *streamdeck.Device, t streamdeck.TouchStripTouchType, p image.Point) error {
		h.onTouch(byte(t), p)
		return nil
	}); err != nil {
		return err
	}
	return h.dev.Listen(errCh)
}

