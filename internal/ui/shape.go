package ui

import "image"

// Element is anything that can sit in a display list.
type Element interface {
	// Bounds returns the area the element paints.
	Bounds() image.Rectangle

	// Damaged reports whether the element changed since the last Clean.
	Damaged() bool

	// Clean clears the damage flag.
	Clean()
}

// ShapeKind selects how a Shape is painted.
type ShapeKind uint8

const (
	// ShapeRect is a plain rectangle.
	ShapeRect ShapeKind = iota + 1
	// ShapeRoundRect is a rectangle with rounded corners.
	ShapeRoundRect
)

// Shape is a filled and/or outlined rectangle.
type Shape struct {
	kind    ShapeKind
	rect    image.Rectangle
	radius  int
	fill    Color
	outline Color
	damaged bool
}

// NewRect creates a rectangle shape.
func NewRect(r image.Rectangle, fill, outline Color) *Shape {
	return &Shape{kind: ShapeRect, rect: r.Canon(), fill: fill, outline: outline, damaged: true}
}

// NewRoundRect creates a rounded rectangle shape with the given corner radius.
func NewRoundRect(r image.Rectangle, radius int, fill, outline Color) *Shape {
	return &Shape{kind: ShapeRoundRect, rect: r.Canon(), radius: radius, fill: fill, outline: outline, damaged: true}
}

func (s *Shape) Kind() ShapeKind         { return s.kind }
func (s *Shape) Bounds() image.Rectangle { return s.rect }
func (s *Shape) Radius() int             { return s.radius }
func (s *Shape) Fill() Color             { return s.fill }
func (s *Shape) Outline() Color          { return s.outline }
func (s *Shape) Damaged() bool           { return s.damaged }
func (s *Shape) Clean()                  { s.damaged = false }

// SetFill changes the fill color. Writing the current value is not a change.
func (s *Shape) SetFill(c Color) {
	if s.fill == c {
		return
	}
	s.fill = c
	s.damaged = true
}

// SetOutline changes the outline color.
func (s *Shape) SetOutline(c Color) {
	if s.outline == c {
		return
	}
	s.outline = c
	s.damaged = true
}

// Label is a single line of text. Pos.X is the left edge of the text and Pos.Y
// its vertical center.
type Label struct {
	text    string
	font    Font
	pos     image.Point
	color   Color
	box     image.Rectangle
	damaged bool
}

// NewLabel measures text with font. The label is positioned at the origin
// until SetPos is called.
func NewLabel(font Font, text string) *Label {
	return &Label{text: text, font: font, box: font.Bounds(text), damaged: true}
}

func (l *Label) Text() string     { return l.text }
func (l *Label) Font() Font       { return l.font }
func (l *Label) Pos() image.Point { return l.pos }
func (l *Label) Color() Color     { return l.color }
func (l *Label) Damaged() bool    { return l.damaged }
func (l *Label) Clean()           { l.damaged = false }

// Size returns the width and height of the text bounding box.
func (l *Label) Size() image.Point {
	return l.box.Size()
}

// Bounds returns the painted area in display coordinates.
func (l *Label) Bounds() image.Rectangle {
	h := l.box.Dy()
	return image.Rect(l.pos.X, l.pos.Y-h/2, l.pos.X+l.box.Dx(), l.pos.Y-h/2+h)
}

// Baseline returns the dot to draw the text at so that it is vertically
// centered on Pos.
func (l *Label) Baseline() image.Point {
	return image.Pt(l.pos.X-l.box.Min.X, l.pos.Y-(l.box.Min.Y+l.box.Max.Y)/2)
}

// SetPos moves the label.
func (l *Label) SetPos(p image.Point) {
	if l.pos == p {
		return
	}
	l.pos = p
	l.damaged = true
}

// SetColor changes the text color.
func (l *Label) SetColor(c Color) {
	if l.color == c {
		return
	}
	l.color = c
	l.damaged = true
}

// Icon is a pre-rasterized image placed at a fixed rectangle.
type Icon struct {
	rect    image.Rectangle
	img     image.Image
	damaged bool
}

// NewIcon places img with its top-left corner at at.
func NewIcon(img image.Image, at image.Point) *Icon {
	r := img.Bounds()
	return &Icon{rect: r.Sub(r.Min).Add(at), img: img, damaged: true}
}

func (i *Icon) Image() image.Image      { return i.img }
func (i *Icon) Bounds() image.Rectangle { return i.rect }
func (i *Icon) Damaged() bool           { return i.damaged }
func (i *Icon) Clean()                  { i.damaged = false }

// Group is an ordered display list. Elements are painted in order, so later
// elements are drawn over earlier ones. Only the most recently appended
// element can be removed.
type Group struct {
	items   []Element
	hidden  bool
	damaged bool
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{}
}

// Append adds e on top of the display list.
func (g *Group) Append(e Element) {
	g.items = append(g.items, e)
	g.damaged = true
}

// Pop removes and returns the top element, or nil if the group is empty.
func (g *Group) Pop() Element {
	if len(g.items) == 0 {
		return nil
	}
	last := g.items[len(g.items)-1]
	g.items[len(g.items)-1] = nil
	g.items = g.items[:len(g.items)-1]
	g.damaged = true
	return last
}

// Last returns the top element without removing it.
func (g *Group) Last() Element {
	if len(g.items) == 0 {
		return nil
	}
	return g.items[len(g.items)-1]
}

// Len returns the number of direct children.
func (g *Group) Len() int {
	return len(g.items)
}

// Items returns the direct children in paint order. The slice must not be
// modified.
func (g *Group) Items() []Element {
	return g.items
}

// Hidden reports whether the group is skipped when painting.
func (g *Group) Hidden() bool {
	return g.hidden
}

// SetHidden shows or hides the group and everything in it.
func (g *Group) SetHidden(hidden bool) {
	if g.hidden == hidden {
		return
	}
	g.hidden = hidden
	g.damaged = true
}

// Clear removes every element.
func (g *Group) Clear() {
	if len(g.items) == 0 {
		return
	}
	for i := range g.items {
		g.items[i] = nil
	}
	g.items = g.items[:0]
	g.damaged = true
}

// Bounds returns the union of the children's bounds.
func (g *Group) Bounds() image.Rectangle {
	var r image.Rectangle
	for _, e := range g.items {
		r = r.Union(e.Bounds())
	}
	return r
}

// Damaged reports whether the group or any element below it changed.
func (g *Group) Damaged() bool {
	if g.damaged {
		return true
	}
	for _, e := range g.items {
		if e.Damaged() {
			return true
		}
	}
	return false
}

// Clean clears damage on the group and everything below it.
func (g *Group) Clean() {
	g.damaged = false
	for _, e := range g.items {
		e.Clean()
	}
}
