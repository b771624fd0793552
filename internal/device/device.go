// Package device defines the display and touch panel the paged UI runs on.
package device

import (
	"image"

	"golang.org/x/image/draw"
)

// DefaultDisplay is the display size used when neither the device nor the
// config provides one: the 320x240 panel the default layout was drawn for.
var DefaultDisplay = image.Rect(0, 0, 320, 240)

// Device is a display with a touch panel. The Stream Deck adapter, the
// emulator window, and the headless device used by tests and the simulate
// command all implement it.
type Device interface {
	// Lifecycle
	Open() error
	Close() error
	IsOpen() bool

	// Device info
	GetModelName() string
	GetDisplayRectangle() (image.Rectangle, error)

	// Display
	SetBrightness(perc byte) error
	SetImage(img image.Image) error
	Clear() error

	// ReadTouch reports the current touch point. A short tap that began and
	// ended between two reads is still reported once.
	ReadTouch() (image.Point, bool)

	// Listen runs the device event loop until the device is closed or
	// disconnected.
	Listen(errCh chan error) error
}

// fit returns img unchanged when it already matches bounds, and a scaled copy
// otherwise.
func fit(img image.Image, bounds image.Rectangle) image.Image {
	if img.Bounds() == bounds {
		return img
	}
	dst := image.NewRGBA(bounds)
	draw.ApproxBiLinear.Scale(dst, bounds, img, img.Bounds(), draw.Src, nil)
	return dst
}

// latch hands touch points from an event callback to the polling loop. It is
// not safe for concurrent use; callers hold their own lock.
type latch struct {
	point   image.Point
	pending int
}

// set records a touch reported for the next reads polls.
func (l *latch) set(p image.Point, reads int) {
	l.point = p
	l.pending = reads
}

func (l *latch) read() (image.Point, bool) {
	if l.pending == 0 {
		return image.Point{}, false
	}
	l.pending--
	return l.point, true
}
