// Package render paints ui display lists into images.
package render

import (
	"image"
	"image/color"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"

	"github.com/phinze/pagedeck/internal/ui"
)

// Renderer paints display lists. It holds no per-frame state and may be
// reused.
type Renderer struct {
	background color.RGBA
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBackground sets the color frames are cleared to. An absent color
// leaves frames transparent.
func WithBackground(c ui.Color) Option {
	return func(r *Renderer) {
		r.background = c.RGBA()
	}
}

// New creates a renderer clearing to black.
func New(opts ...Option) *Renderer {
	r := &Renderer{background: color.RGBA{A: 0xff}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Frame paints root into a new image of the given bounds.
func (r *Renderer) Frame(bounds image.Rectangle, root ui.Element) *image.RGBA {
	img := image.NewRGBA(bounds)
	r.Paint(img, root)
	return img
}

// Paint clears dst and paints root over it.
func (r *Renderer) Paint(dst *image.RGBA, root ui.Element) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
	r.paint(dst, root)
}

func (r *Renderer) paint(dst *image.RGBA, e ui.Element) {
	switch e := e.(type) {
	case *ui.Group:
		if e.Hidden() {
			return
		}
		for _, child := range e.Items() {
			r.paint(dst, child)
		}
	case *ui.Shape:
		switch e.Kind() {
		case ui.ShapeRoundRect:
			paintRoundRect(dst, e)
		default:
			paintRect(dst, e)
		}
	case *ui.Label:
		if !e.Color().IsSet() {
			return
		}
		e.Font().Draw(dst, e.Baseline(), e.Text(), e.Color().RGBA())
	case *ui.Icon:
		img := e.Image()
		draw.Draw(dst, e.Bounds(), img, img.Bounds().Min, draw.Over)
	}
}

// paintRect fills the rectangle and draws a one pixel outline inside it.
func paintRect(dst *image.RGBA, s *ui.Shape) {
	rect := s.Bounds()
	if s.Fill().IsSet() {
		draw.Draw(dst, rect, image.NewUniform(s.Fill().RGBA()), image.Point{}, draw.Src)
	}
	if !s.Outline().IsSet() || rect.Empty() {
		return
	}
	src := image.NewUniform(s.Outline().RGBA())
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1),
		image.Rect(rect.Min.X, rect.Max.Y-1, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+1, rect.Max.Y),
		image.Rect(rect.Max.X-1, rect.Min.Y, rect.Max.X, rect.Max.Y),
	}
	for _, edge := range edges {
		draw.Draw(dst, edge, src, image.Point{}, draw.Src)
	}
}

// paintRoundRect rasterizes the rounded rectangle, then strokes its outline
// half a pixel inside the edge so the one pixel line stays within bounds.
func paintRoundRect(dst *image.RGBA, s *ui.Shape) {
	rect := s.Bounds()
	if rect.Empty() {
		return
	}
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	scanner := rasterx.NewScannerGV(w, h, dst, b)

	radius := float64(s.Radius())
	minX, minY := float64(rect.Min.X), float64(rect.Min.Y)
	maxX, maxY := float64(rect.Max.X), float64(rect.Max.Y)

	if s.Fill().IsSet() {
		filler := rasterx.NewFiller(w, h, scanner)
		scanner.SetColor(s.Fill().RGBA())
		rasterx.AddRoundRect(minX, minY, maxX, maxY, radius, radius, 0, rasterx.RoundGap, filler)
		filler.Draw()
	}

	if s.Outline().IsSet() {
		stroker := rasterx.NewStroker(w, h, scanner)
		stroker.SetStroke(fixed.I(1), fixed.I(4), rasterx.ButtCap, nil, rasterx.RoundGap, rasterx.ArcClip)
		scanner.SetColor(s.Outline().RGBA())
		rasterx.AddRoundRect(minX+0.5, minY+0.5, maxX-0.5, maxY-0.5, radius, radius, 0, rasterx.RoundGap, stroker)
		stroker.Draw()
	}
}
