package ui

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Font measures and draws single lines of text.
type Font interface {
	// Bounds returns the ink box of text relative to a dot at the start of
	// the baseline. Min.Y is negative above the baseline.
	Bounds(text string) image.Rectangle

	// Draw paints text with its baseline starting at dot.
	Draw(dst draw.Image, dot image.Point, text string, c color.RGBA)
}

// FaceFont draws with a golang.org/x/image font face.
type FaceFont struct {
	face font.Face
}

// NewFaceFont wraps face.
func NewFaceFont(face font.Face) *FaceFont {
	return &FaceFont{face: face}
}

// Bounds implements Font.
func (f *FaceFont) Bounds(text string) image.Rectangle {
	b, _ := font.BoundString(f.face, text)
	return image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
}

// Draw implements Font.
func (f *FaceFont) Draw(dst draw.Image, dot image.Point, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f.face,
		Dot:  fixed.Point26_6{X: fixed.I(dot.X), Y: fixed.I(dot.Y)},
	}
	d.DrawString(text)
}

// TinyFont draws with a TinyGo bitmap font.
type TinyFont struct {
	font tinyfont.Fonter
}

// NewTinyFont wraps a tinyfont font.
func NewTinyFont(f tinyfont.Fonter) *TinyFont {
	return &TinyFont{font: f}
}

// Bounds implements Font. tinyfont exposes only the line advance, so the
// ascent is taken as three quarters of it.
func (f *TinyFont) Bounds(text string) image.Rectangle {
	if text == "" {
		return image.Rectangle{}
	}
	w, _ := tinyfont.LineWidth(f.font, text)
	adv := int(f.font.GetYAdvance())
	ascent := adv * 3 / 4
	return image.Rect(0, -ascent, int(w), adv-ascent)
}

// Draw implements Font.
func (f *TinyFont) Draw(dst draw.Image, dot image.Point, text string, c color.RGBA) {
	tinyfont.WriteLine(&imageDisplayer{dst: dst}, f.font, int16(dot.X), int16(dot.Y), text, c)
}

// imageDisplayer lets tinyfont paint into an in-memory image.
type imageDisplayer struct {
	dst draw.Image
}

var _ drivers.Displayer = (*imageDisplayer)(nil)

func (d *imageDisplayer) Size() (x, y int16) {
	b := d.dst.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d *imageDisplayer) SetPixel(x, y int16, c color.RGBA) {
	p := image.Pt(int(x), int(y))
	if !p.In(d.dst.Bounds()) {
		return
	}
	d.dst.Set(p.X, p.Y, c)
}

func (d *imageDisplayer) Display() error {
	return nil
}

// DefaultFont returns the built-in 7x13 fixed font.
func DefaultFont() Font {
	return NewFaceFont(basicfont.Face7x13)
}

// LoadFont resolves a font by name: "basic" (or empty), "go", "go-bold",
// "proggy", or a path to a TrueType/OpenType file. size is in points at 72
// DPI and is ignored by the bitmap fonts.
func LoadFont(name string, size float64) (Font, error) {
	if size <= 0 {
		size = 12
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "basic":
		return DefaultFont(), nil
	case "proggy":
		return NewTinyFont(&proggy.TinySZ8pt7b), nil
	case "go", "go-regular":
		return openTypeFont(goregular.TTF, size)
	case "go-bold":
		return openTypeFont(gobold.TTF, size)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", name, err)
	}
	return openTypeFont(data, size)
}

func openTypeFont(data []byte, size float64) (Font, error) {
	tt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return NewFaceFont(face), nil
}
