// Package ui implements the padded button widget and the display list it
// paints into.
package ui

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Style selects the shapes a button is drawn with.
type Style uint8

const (
	StyleRect Style = iota
	StyleRoundRect
	StyleShadowRect
	StyleShadowRoundRect
)

const (
	// CornerRadius is the corner radius of the rounded styles.
	CornerRadius = 10

	// shadowOffset is how far the shadow sticks out below and right of the body.
	shadowOffset = 2
)

var styleNames = map[Style]string{
	StyleRect:            "rect",
	StyleRoundRect:       "roundrect",
	StyleShadowRect:      "shadowrect",
	StyleShadowRoundRect: "shadowroundrect",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return "Style(" + strconv.Itoa(int(s)) + ")"
}

func (s Style) rounded() bool {
	return s == StyleRoundRect || s == StyleShadowRoundRect
}

func (s Style) shadowed() bool {
	return s == StyleShadowRect || s == StyleShadowRoundRect
}

// ParseStyle accepts a style name or its number (0-3).
func ParseStyle(s string) (Style, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StyleRect, nil
	}
	for style, name := range styleNames {
		if name == s {
			return style, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		if _, ok := styleNames[Style(n)]; ok {
			return Style(n), nil
		}
	}
	return StyleRect, fmt.Errorf("unknown button style %q", s)
}

// Offset returns a pointer to v, for the optional label offsets in ButtonConfig.
func Offset(v int) *int {
	return &v
}

// ButtonConfig describes a button. Colors left unset are absent; the selected
// colors default to the complement of their normal counterparts.
type ButtonConfig struct {
	Name string
	ID   int

	// Origin and Size place the button before the margin is applied.
	Origin image.Point
	Size   image.Point

	// Margin shrinks the drawn and touchable area on every side.
	Margin image.Point

	// Padding shrinks only the touchable area.
	Padding image.Point

	Style   Style
	Fill    Color
	Outline Color

	SelectedFill       Color
	SelectedOutline    Color
	SelectedLabelColor Color

	Label      string
	LabelFont  Font
	LabelColor Color

	// LabelX and LabelY place the label relative to the button origin. Nil
	// or negative values center the label on that axis.
	LabelX *int
	LabelY *int

	// Icon is drawn centered in the button, under the label.
	Icon image.Image
}

// Button is a rectangular touch target with a normal and a selected palette.
type Button struct {
	name    string
	id      int
	rect    image.Rectangle
	padding image.Point
	style   Style

	fill       Color
	outline    Color
	labelColor Color

	selectedFill       Color
	selectedOutline    Color
	selectedLabelColor Color

	font   Font
	labelX *int
	labelY *int

	group  *Group
	shadow *Shape
	body   *Shape
	icon   *Icon
	label  *Label

	selected bool
}

// NewButton builds a button and its display primitives.
func NewButton(cfg ButtonConfig) (*Button, error) {
	rect := image.Rectangle{
		Min: cfg.Origin.Add(cfg.Margin),
		Max: cfg.Origin.Add(cfg.Size).Sub(cfg.Margin),
	}
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return nil, &GeometryError{Button: cfg.Name, Size: cfg.Size, Margin: cfg.Margin}
	}
	if _, ok := styleNames[cfg.Style]; !ok {
		return nil, &ConfigurationError{Button: cfg.Name, Err: fmt.Errorf("unknown style %d", cfg.Style)}
	}

	b := &Button{
		name:               cfg.Name,
		id:                 cfg.ID,
		rect:               rect,
		padding:            cfg.Padding,
		style:              cfg.Style,
		fill:               cfg.Fill,
		outline:            cfg.Outline,
		labelColor:         cfg.LabelColor,
		selectedFill:       cfg.SelectedFill,
		selectedOutline:    cfg.SelectedOutline,
		selectedLabelColor: cfg.SelectedLabelColor,
		font:               cfg.LabelFont,
		labelX:             cfg.LabelX,
		labelY:             cfg.LabelY,
		group:              NewGroup(),
	}

	if !b.selectedFill.IsSet() && b.fill.IsSet() {
		b.selectedFill = b.fill.Complement()
	}
	if !b.selectedOutline.IsSet() && b.outline.IsSet() {
		b.selectedOutline = b.outline.Complement()
	}

	if b.fill.IsSet() || b.outline.IsSet() {
		b.buildShapes()
	}

	if cfg.Icon != nil {
		isz := cfg.Icon.Bounds().Size()
		at := image.Pt(rect.Min.X+(rect.Dx()-isz.X)/2, rect.Min.Y+(rect.Dy()-isz.Y)/2)
		b.icon = NewIcon(cfg.Icon, at)
		b.group.Append(b.icon)
	}

	if err := b.SetLabel(cfg.Label); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Button) buildShapes() {
	bodyRect := b.rect
	if b.style.shadowed() {
		bodyRect.Max = bodyRect.Max.Sub(image.Pt(shadowOffset, shadowOffset))
		shadowRect := bodyRect.Add(image.Pt(shadowOffset, shadowOffset))
		if b.style.rounded() {
			b.shadow = NewRoundRect(shadowRect, CornerRadius, b.outline, NoColor)
		} else {
			b.shadow = NewRect(shadowRect, b.outline, NoColor)
		}
		b.group.Append(b.shadow)
	}

	if b.style.rounded() {
		b.body = NewRoundRect(bodyRect, CornerRadius, b.fill, b.outline)
	} else {
		b.body = NewRect(bodyRect, b.fill, b.outline)
	}
	b.group.Append(b.body)
}

// Name returns the button's name.
func (b *Button) Name() string { return b.name }

// ID returns the caller-assigned id.
func (b *Button) ID() int { return b.id }

// Bounds returns the drawn rectangle, after the margin.
func (b *Button) Bounds() image.Rectangle { return b.rect }

// Style returns the button style.
func (b *Button) Style() Style { return b.style }

// Group returns the display list owned by the button.
func (b *Button) Group() *Group { return b.group }

// Padding returns the touch padding.
func (b *Button) Padding() image.Point { return b.padding }

// SetPadding changes the touch padding.
func (b *Button) SetPadding(p image.Point) { b.padding = p }

// HitRect returns the touchable rectangle. Both edges are inclusive, so the
// returned Max is one past the last touchable pixel.
func (b *Button) HitRect() image.Rectangle {
	return image.Rectangle{
		Min: b.rect.Min.Add(b.padding),
		Max: b.rect.Max.Sub(b.padding).Add(image.Pt(1, 1)),
	}
}

// Contains reports whether p lies inside the padded rectangle, edges included.
func (b *Button) Contains(p image.Point) bool {
	xMin := b.rect.Min.X + b.padding.X
	xMax := b.rect.Max.X - b.padding.X
	yMin := b.rect.Min.Y + b.padding.Y
	yMax := b.rect.Max.Y - b.padding.Y
	return xMin <= p.X && p.X <= xMax && yMin <= p.Y && p.Y <= yMax
}

// Selected reports the current visual state.
func (b *Button) Selected() bool { return b.selected }

// SetSelected switches between the normal and selected palette. Setting the
// current state does nothing.
func (b *Button) SetSelected(selected bool) {
	if selected == b.selected {
		return
	}
	b.selected = selected
	b.apply()
}

// apply paints the palette of the current state onto the owned primitives.
func (b *Button) apply() {
	fill, outline, text := b.fill, b.outline, b.labelColor
	if b.selected {
		fill, outline, text = b.selectedFill, b.selectedOutline, b.selectedLabelColor
	}
	if b.body != nil {
		b.body.SetFill(fill)
		b.body.SetOutline(outline)
	}
	if b.label != nil {
		b.label.SetColor(text)
	}
}

// Label returns the label text, or "" when the button has no label.
func (b *Button) Label() string {
	if b.label == nil {
		return ""
	}
	return b.label.Text()
}

// LabelElement returns the label primitive, or nil.
func (b *Button) LabelElement() *Label { return b.label }

// SetLabel replaces the label text. Empty text, or a button without a label
// color, leaves the button without a label.
func (b *Button) SetLabel(text string) error {
	if b.label != nil && b.group.Last() == Element(b.label) {
		b.group.Pop()
	}
	b.label = nil

	if text == "" || !b.labelColor.IsSet() {
		return nil
	}
	l, err := b.newLabel(text)
	if err != nil {
		return err
	}
	size := l.Size()

	x := b.rect.Min.X + (b.rect.Dx()-size.X)/2
	if b.labelX != nil && *b.labelX >= 0 {
		x = b.rect.Min.X + *b.labelX
	}
	y := b.rect.Min.Y + b.rect.Dy()/2
	if b.labelY != nil && *b.labelY >= 0 {
		y = b.rect.Min.Y + *b.labelY
	}
	l.SetPos(image.Pt(x, y))

	if !b.selectedLabelColor.IsSet() {
		b.selectedLabelColor = b.labelColor.Complement()
	}
	if b.selected {
		l.SetColor(b.selectedLabelColor)
	} else {
		l.SetColor(b.labelColor)
	}

	b.group.Append(l)
	b.label = l
	return nil
}

// CheckLabel reports the error SetLabel would return for text, without
// changing the button.
func (b *Button) CheckLabel(text string) error {
	if text == "" || !b.labelColor.IsSet() {
		return nil
	}
	_, err := b.newLabel(text)
	return err
}

func (b *Button) newLabel(text string) (*Label, error) {
	if b.font == nil {
		return nil, &ConfigurationError{Button: b.name, Err: ErrMissingFont}
	}
	l := NewLabel(b.font, text)
	size := l.Size()
	if size.X >= b.rect.Dx() || size.Y >= b.rect.Dy() {
		return nil, &ConfigurationError{
			Button: b.name,
			Err:    fmt.Errorf("%w: %q is %dx%d, button is %dx%d", ErrLabelTooLarge, text, size.X, size.Y, b.rect.Dx(), b.rect.Dy()),
		}
	}
	return l, nil
}

// Fill returns the normal fill color.
func (b *Button) Fill() Color { return b.fill }

// SetFill changes the normal fill color.
func (b *Button) SetFill(c Color) {
	b.fill = c
	b.apply()
}

// Outline returns the normal outline color.
func (b *Button) Outline() Color { return b.outline }

// SetOutline changes the normal outline color.
func (b *Button) SetOutline(c Color) {
	b.outline = c
	b.apply()
}

// LabelColor returns the normal label color.
func (b *Button) LabelColor() Color { return b.labelColor }

// SetLabelColor changes the normal label color. It does not create a label;
// call SetLabel afterwards if the button had none.
func (b *Button) SetLabelColor(c Color) {
	b.labelColor = c
	b.apply()
}

// SelectedFill returns the selected fill color.
func (b *Button) SelectedFill() Color { return b.selectedFill }

// SetSelectedFill changes the selected fill color.
func (b *Button) SetSelectedFill(c Color) {
	b.selectedFill = c
	b.apply()
}

// SelectedOutline returns the selected outline color.
func (b *Button) SelectedOutline() Color { return b.selectedOutline }

// SetSelectedOutline changes the selected outline color.
func (b *Button) SetSelectedOutline(c Color) {
	b.selectedOutline = c
	b.apply()
}

// SelectedLabelColor returns the selected label color.
func (b *Button) SelectedLabelColor() Color { return b.selectedLabelColor }

// SetSelectedLabelColor changes the selected label color.
func (b *Button) SetSelectedLabelColor(c Color) {
	b.selectedLabelColor = c
	b.apply()
}

// Release drops every primitive the button owns. The button keeps answering
// Contains but no longer paints anything.
func (b *Button) Release() {
	b.group.Clear()
	b.shadow = nil
	b.body = nil
	b.icon = nil
	b.label = nil
}
