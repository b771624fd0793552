package dispatch

import (
	"image"

	"tinygo.org/x/drivers/touch"
)

// TouchSource reports the current touch point, if any. A read failure is
// reported as no touch.
type TouchSource interface {
	ReadTouch() (image.Point, bool)
}

// TouchFunc adapts a function to TouchSource.
type TouchFunc func() (image.Point, bool)

// ReadTouch implements TouchSource.
func (f TouchFunc) ReadTouch() (image.Point, bool) {
	return f()
}

// DefaultPressure is the Z value a touch.Pointer must exceed to count as a
// touch.
const DefaultPressure = 0

type pointerSource struct {
	p         touch.Pointer
	threshold int
}

// FromPointer adapts a TinyGo touch driver. Points whose pressure is at or
// below threshold are treated as no touch.
func FromPointer(p touch.Pointer, threshold int) TouchSource {
	return &pointerSource{p: p, threshold: threshold}
}

func (s *pointerSource) ReadTouch() (image.Point, bool) {
	pt := s.p.ReadTouchPoint()
	if pt.Z <= s.threshold {
		return image.Point{}, false
	}
	return image.Pt(pt.X, pt.Y), true
}
