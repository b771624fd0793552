package ui

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrMissingFont is returned when label text is set on a button that has
	// no label font.
	ErrMissingFont = errors.New("label font required")

	// ErrLabelTooLarge is returned when a label does not fit strictly inside
	// the button.
	ErrLabelTooLarge = errors.New("button not large enough for label")

	// ErrGeometry matches every GeometryError.
	ErrGeometry = errors.New("invalid button geometry")
)

// ConfigurationError reports a button that cannot be built as configured.
type ConfigurationError struct {
	Button string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Button == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("button %s: %v", e.Button, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// GeometryError reports a margin that leaves no drawable area.
type GeometryError struct {
	Button string
	Size   image.Point
	Margin image.Point
}

func (e *GeometryError) Error() string {
	name := e.Button
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("button %s: size %dx%d with margin %d,%d leaves no area",
		name, e.Size.X, e.Size.Y, e.Margin.X, e.Margin.Y)
}

func (e *GeometryError) Is(target error) bool {
	return target == ErrGeometry
}
