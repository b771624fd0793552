package ui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const rgbMask = 0xFFFFFF

// Color is an optional 24-bit RGB color. The zero value is "no color": shapes
// with no fill are not filled, labels with no color are not drawn.
type Color struct {
	rgb uint32
	set bool
}

// NoColor is the absent color.
var NoColor = Color{}

// RGB24 returns the color for a packed 0xRRGGBB value. Bits above 24 are dropped.
func RGB24(v uint32) Color {
	return Color{rgb: v & rgbMask, set: true}
}

// RGBTriple returns the color for separate red, green and blue bytes.
func RGBTriple(r, g, b uint8) Color {
	return RGB24(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// IsSet reports whether the color is present.
func (c Color) IsSet() bool {
	return c.set
}

// Value returns the packed 0xRRGGBB value, or 0 for an absent color.
func (c Color) Value() uint32 {
	return c.rgb
}

// IsZero reports whether c is absent, so omitempty drops it.
func (c Color) IsZero() bool {
	return !c.set
}

// Complement returns the bitwise complement within 24 bits. The complement of
// an absent color is absent.
func (c Color) Complement() Color {
	if !c.set {
		return NoColor
	}
	return RGB24(^c.rgb)
}

// Or returns c if it is set and fallback otherwise.
func (c Color) Or(fallback Color) Color {
	if c.set {
		return c
	}
	return fallback
}

// RGBA converts the color to an opaque color.RGBA. Absent colors are fully
// transparent.
func (c Color) RGBA() color.RGBA {
	if !c.set {
		return color.RGBA{}
	}
	return color.RGBA{
		R: uint8(c.rgb >> 16),
		G: uint8(c.rgb >> 8),
		B: uint8(c.rgb),
		A: 0xff,
	}
}

// String formats the color as #rrggbb, or "none".
func (c Color) String() string {
	if !c.set {
		return "none"
	}
	return fmt.Sprintf("#%06x", c.rgb)
}

// ParseColor accepts "#rrggbb", "0xrrggbb", a decimal integer, or "none".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || strings.EqualFold(s, "none"):
		return NoColor, nil
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s[1:], s)
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		return parseHexColor(s[2:], s)
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return NoColor, fmt.Errorf("invalid color %q", s)
	}
	if v > rgbMask {
		return NoColor, fmt.Errorf("color %q out of 24-bit range", s)
	}
	return RGB24(uint32(v)), nil
}

func parseHexColor(digits, orig string) (Color, error) {
	if len(digits) == 0 || len(digits) > 6 {
		return NoColor, fmt.Errorf("invalid color %q", orig)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return NoColor, fmt.Errorf("invalid color %q", orig)
	}
	return RGB24(uint32(v)), nil
}

// UnmarshalYAML decodes an integer, a color string, or an [r, g, b] sequence.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!int" {
			var v int64
			if err := value.Decode(&v); err != nil {
				return err
			}
			if v < 0 || v > rgbMask {
				return fmt.Errorf("line %d: color %d out of 24-bit range", value.Line, v)
			}
			*c = RGB24(uint32(v))
			return nil
		}
		if value.Tag == "!!null" {
			*c = NoColor
			return nil
		}
		parsed, err := ParseColor(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var rgb []int
		if err := value.Decode(&rgb); err != nil {
			return err
		}
		if len(rgb) != 3 {
			return fmt.Errorf("line %d: color triple needs 3 components, got %d", value.Line, len(rgb))
		}
		for _, v := range rgb {
			if v < 0 || v > 0xff {
				return fmt.Errorf("line %d: color component %d out of range", value.Line, v)
			}
		}
		*c = RGBTriple(uint8(rgb[0]), uint8(rgb[1]), uint8(rgb[2]))
		return nil
	default:
		return fmt.Errorf("line %d: unsupported color value", value.Line)
	}
}

// MarshalYAML writes the color as "#rrggbb" or "none".
func (c Color) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}
