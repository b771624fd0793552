package ui

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

// fixedFont measures every rune as 6x10 with the baseline 8 pixels down.
type fixedFont struct{}

func (fixedFont) Bounds(text string) image.Rectangle {
	if text == "" {
		return image.Rectangle{}
	}
	return image.Rect(0, -8, 6*len([]rune(text)), 2)
}

func (fixedFont) Draw(dst draw.Image, dot image.Point, text string, c color.RGBA) {
	r := fixedFont{}.Bounds(text).Add(dot)
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func newTestButton(t *testing.T, cfg ButtonConfig) *Button {
	t.Helper()
	b, err := NewButton(cfg)
	if err != nil {
		t.Fatalf("NewButton(%s): %v", cfg.Name, err)
	}
	return b
}

func TestContainsPaddedEdges(t *testing.T) {
	b := newTestButton(t, ButtonConfig{
		Name:    "pad",
		Size:    image.Pt(80, 60),
		Padding: image.Pt(5, 5),
		Fill:    RGB24(0x094A85),
	})

	tcs := []struct {
		p    image.Point
		want bool
	}{
		{p: image.Pt(0, 0), want: false},
		{p: image.Pt(4, 30), want: false},
		{p: image.Pt(5, 5), want: true},
		{p: image.Pt(40, 30), want: true},
		{p: image.Pt(75, 55), want: true},
		{p: image.Pt(75, 5), want: true},
		{p: image.Pt(5, 55), want: true},
		{p: image.Pt(76, 55), want: false},
		{p: image.Pt(80, 60), want: false},
	}
	for _, tc := range tcs {
		if got := b.Contains(tc.p); got != tc.want {
			t.Fatalf("Contains(%v) = %v; want %v", tc.p, got, tc.want)
		}
	}

	hit := b.HitRect()
	if hit != image.Rect(5, 5, 76, 56) {
		t.Fatalf("unexpected hit rect %v", hit)
	}
}

func TestContainsFollowsPaddingChanges(t *testing.T) {
	b := newTestButton(t, ButtonConfig{Size: image.Pt(80, 60)})
	if !b.Contains(image.Pt(0, 0)) {
		t.Fatal("unpadded button should contain its corner")
	}
	b.SetPadding(image.Pt(10, 10))
	if b.Contains(image.Pt(9, 9)) {
		t.Fatal("expected (9,9) outside after padding")
	}
	if got := b.Padding(); got != image.Pt(10, 10) {
		t.Fatalf("Padding() = %v", got)
	}
}

func TestMarginShrinksGeometry(t *testing.T) {
	b := newTestButton(t, ButtonConfig{
		Name:   "margin",
		Origin: image.Pt(10, 20),
		Size:   image.Pt(100, 60),
		Margin: image.Pt(5, 5),
		Fill:   RGB24(0xDB1308),
	})
	if got := b.Bounds(); got != image.Rect(15, 25, 105, 75) {
		t.Fatalf("Bounds() = %v", got)
	}
	if got := b.Bounds().Size(); got != image.Pt(90, 50) {
		t.Fatalf("size = %v; want 90x50", got)
	}
}

func TestMarginTooLarge(t *testing.T) {
	tcs := []struct {
		name   string
		size   image.Point
		margin image.Point
	}{
		{name: "both", size: image.Pt(55, 35), margin: image.Pt(40, 40)},
		{name: "width", size: image.Pt(10, 35), margin: image.Pt(5, 0)},
		{name: "height", size: image.Pt(50, 4), margin: image.Pt(0, 2)},
		{name: "empty", size: image.Pt(0, 0)},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewButton(ButtonConfig{Name: tc.name, Size: tc.size, Margin: tc.margin})
			if !errors.Is(err, ErrGeometry) {
				t.Fatalf("expected ErrGeometry, got %v", err)
			}
			var ge *GeometryError
			if !errors.As(err, &ge) || ge.Size != tc.size {
				t.Fatalf("expected GeometryError carrying size %v, got %v", tc.size, err)
			}
		})
	}
}

func TestSelectedColorsDefaultToComplement(t *testing.T) {
	b := newTestButton(t, ButtonConfig{
		Size:       image.Pt(80, 40),
		Fill:       RGB24(0x102030),
		Outline:    RGB24(0xFFFFFF),
		Label:      "Go",
		LabelFont:  fixedFont{},
		LabelColor: RGB24(0x000000),
	})
	if got := b.SelectedFill(); got != RGB24(0xEFDFCF) {
		t.Fatalf("SelectedFill() = %v", got)
	}
	if got := b.SelectedOutline(); got != RGB24(0x000000) {
		t.Fatalf("SelectedOutline() = %v", got)
	}
	if got := b.SelectedLabelColor(); got != RGB24(0xFFFFFF) {
		t.Fatalf("SelectedLabelColor() = %v", got)
	}
}

func TestExplicitSelectedColorsKept(t *testing.T) {
	b := newTestButton(t, ButtonConfig{
		Size:         image.Pt(80, 40),
		Fill:         RGB24(0x0D2035),
		SelectedFill: RGB24(0x00FF00),
	})
	if got := b.SelectedFill(); got != RGB24(0x00FF00) {
		t.Fatalf("SelectedFill() = %v", got)
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	colors := []Color{NoColor, RGB24(0x123456)}
	for _, fill := range colors {
		for _, outline := range colors {
			for _, text := range colors {
				b := newTestButton(t, ButtonConfig{
					Size:       image.Pt(100, 40),
					Style:      StyleShadowRoundRect,
					Fill:       fill,
					Outline:    outline,
					Label:      "Play",
					LabelFont:  fixedFont{},
					LabelColor: text,
				})

				type snapshot struct{ fill, outline, label Color }
				snap := func() snapshot {
					var s snapshot
					if b.body != nil {
						s.fill, s.outline = b.body.Fill(), b.body.Outline()
					}
					if b.label != nil {
						s.label = b.label.Color()
					}
					return s
				}

				before := snap()
				b.SetSelected(true)
				if !b.Selected() {
					t.Fatal("expected selected")
				}
				b.SetSelected(false)
				if after := snap(); after != before {
					t.Fatalf("fill=%v outline=%v label=%v: round trip changed %+v to %+v", fill, outline, text, before, after)
				}
			}
		}
	}
}

func TestSetSelectedIdempotent(t *testing.T) {
	b := newTestButton(t, ButtonConfig{
		Size:       image.Pt(80, 40),
		Fill:       RGB24(0x094A85),
		Outline:    RGB24(0xFFFFFF),
		Label:      "1",
		LabelFont:  fixedFont{},
		LabelColor: RGB24(0xFFFFFF),
	})
	g := b.Group()
	g.Clean()

	b.SetSelected(false)
	if g.Damaged() {
		t.Fatal("deselecting an unselected button should not change anything")
	}

	b.SetSelected(true)
	if !g.Damaged() {
		t.Fatal("selecting should repaint")
	}
	g.Clean()
	b.SetSelected(true)
	if g.Damaged() {
		t.Fatal("selecting twice should not repaint")
	}
	if got := b.body.Fill(); got != RGB24(0x094A85).Complement() {
		t.Fatalf("body fill = %v", got)
	}
}

func TestStyleShapes(t *testing.T) {
	rect := image.Rect(0, 0, 80, 40)
	tcs := []struct {
		style     Style
		items     int
		bodyKind  ShapeKind
		bodyRect  image.Rectangle
		hasShadow bool
	}{
		{style: StyleRect, items: 1, bodyKind: ShapeRect, bodyRect: rect},
		{style: StyleRoundRect, items: 1, bodyKind: ShapeRoundRect, bodyRect: rect},
		{style: StyleShadowRect, items: 2, bodyKind: ShapeRect, bodyRect: image.Rect(0, 0, 78, 38), hasShadow: true},
		{style: StyleShadowRoundRect, items: 2, bodyKind: ShapeRoundRect, bodyRect: image.Rect(0, 0, 78, 38), hasShadow: true},
	}
	for _, tc := range tcs {
		t.Run(tc.style.String(), func(t *testing.T) {
			b := newTestButton(t, ButtonConfig{
				Size:    rect.Size(),
				Style:   tc.style,
				Fill:    RGB24(0x0D2035),
				Outline: RGB24(0xFFFFFF),
			})
			if got := b.Group().Len(); got != tc.items {
				t.Fatalf("group has %d items; want %d", got, tc.items)
			}
			if b.body.Kind() != tc.bodyKind || b.body.Bounds() != tc.bodyRect {
				t.Fatalf("body = kind %d %v", b.body.Kind(), b.body.Bounds())
			}
			if (b.shadow != nil) != tc.hasShadow {
				t.Fatalf("shadow present = %v", b.shadow != nil)
			}
			if b.shadow != nil {
				if b.shadow.Bounds() != image.Rect(2, 2, 80, 40) {
					t.Fatalf("shadow bounds %v", b.shadow.Bounds())
				}
				if b.shadow.Fill() != RGB24(0xFFFFFF) {
					t.Fatalf("shadow should be filled with the outline color, got %v", b.shadow.Fill())
				}
				b.SetSelected(true)
				if b.shadow.Fill() != RGB24(0xFFFFFF) {
					t.Fatal("shadow should not follow selection")
				}
			}
		})
	}
}

func TestNoFillNoOutlineHasNoShapes(t *testing.T) {
	b := newTestButton(t, ButtonConfig{Size: image.Pt(80, 40), Style: StyleShadowRect})
	if b.Group().Len() != 0 {
		t.Fatalf("expected empty group, got %d items", b.Group().Len())
	}
	b.SetSelected(true)
	if !b.Selected() {
		t.Fatal("selection should still be tracked")
	}
}

func TestSetLabel(t *testing.T) {
	b := newTestButton(t, ButtonConfig{
		Name:       "label",
		Size:       image.Pt(80, 40),
		Fill:       RGB24(0x0D2035),
		LabelFont:  fixedFont{},
		LabelColor: RGB24(0xFFFFFF),
	})
	if b.Label() != "" || b.Group().Len() != 1 {
		t.Fatalf("expected no label, got %q with %d items", b.Label(), b.Group().Len())
	}

	if err := b.SetLabel("One"); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}
	if b.Label() != "One" || b.Group().Len() != 2 {
		t.Fatalf("got label %q with %d items", b.Label(), b.Group().Len())
	}
	// 3 runes at 6px centered in 80px.
	if got := b.LabelElement().Pos(); got != image.Pt(31, 20) {
		t.Fatalf("label pos = %v", got)
	}

	if err := b.SetLabel("Two"); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}
	if b.Group().Len() != 2 {
		t.Fatalf("relabel should replace, got %d items", b.Group().Len())
	}

	if err := b.SetLabel(""); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}
	if b.Label() != "" || b.Group().Len() != 1 {
		t.Fatal("empty text should remove the label")
	}
}

func TestSetLabelExplicitOffsets(t *testing.T) {
	b := newTestButton(t, ButtonConfig{
		Origin:     image.Pt(100, 200),
		Size:       image.Pt(80, 40),
		Label:      "Hi",
		LabelFont:  fixedFont{},
		LabelColor: RGB24(0xFFFFFF),
		LabelX:     Offset(4),
		LabelY:     Offset(-1),
	})
	if got := b.LabelElement().Pos(); got != image.Pt(104, 220) {
		t.Fatalf("label pos = %v", got)
	}
}

func TestSetLabelSelectedUsesSelectedColor(t *testing.T) {
	b := newTestButton(t, ButtonConfig{
		Size:       image.Pt(80, 40),
		LabelFont:  fixedFont{},
		LabelColor: RGB24(0x000000),
	})
	b.SetSelected(true)
	if err := b.SetLabel("A"); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}
	if got := b.LabelElement().Color(); got != RGB24(0xFFFFFF) {
		t.Fatalf("label color = %v", got)
	}
}

func TestSetLabelWithoutLabelColor(t *testing.T) {
	b := newTestButton(t, ButtonConfig{Size: image.Pt(80, 40), Label: "ignored"})
	if b.Label() != "" {
		t.Fatalf("expected no label without a label color, got %q", b.Label())
	}
}

func TestSetLabelMissingFont(t *testing.T) {
	_, err := NewButton(ButtonConfig{
		Name:       "nofont",
		Size:       image.Pt(80, 40),
		Label:      "X",
		LabelColor: RGB24(0xFFFFFF),
	})
	if !errors.Is(err, ErrMissingFont) {
		t.Fatalf("expected ErrMissingFont, got %v", err)
	}
	var ce *ConfigurationError
	if !errors.As(err, &ce) || ce.Button != "nofont" {
		t.Fatalf("expected ConfigurationError for nofont, got %v", err)
	}
}

func TestSetLabelTooLarge(t *testing.T) {
	tcs := []struct {
		name  string
		size  image.Point
		label string
	}{
		{name: "wide", size: image.Pt(30, 40), label: "HelloWorld"},
		{name: "exact width", size: image.Pt(30, 40), label: "Hello"},
		{name: "tall", size: image.Pt(80, 10), label: "Hi"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewButton(ButtonConfig{
				Size:       tc.size,
				Label:      tc.label,
				LabelFont:  fixedFont{},
				LabelColor: RGB24(0xFFFFFF),
			})
			if !errors.Is(err, ErrLabelTooLarge) {
				t.Fatalf("expected ErrLabelTooLarge, got %v", err)
			}
		})
	}

	b := newTestButton(t, ButtonConfig{
		Size:       image.Pt(31, 40),
		LabelFont:  fixedFont{},
		LabelColor: RGB24(0xFFFFFF),
	})
	if err := b.SetLabel("Hello"); err != nil {
		t.Fatalf("30px label should fit a 31px button: %v", err)
	}
}

func TestLabelNotLastIsLeftInPlace(t *testing.T) {
	b := newTestButton(t, ButtonConfig{
		Size:       image.Pt(80, 40),
		Label:      "A",
		LabelFont:  fixedFont{},
		LabelColor: RGB24(0xFFFFFF),
	})
	b.Group().Append(NewRect(image.Rect(0, 0, 1, 1), RGB24(0), NoColor))
	if err := b.SetLabel("B"); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}
	if got := b.Group().Len(); got != 3 {
		t.Fatalf("expected old label kept below the foreign element, got %d items", got)
	}
	if b.Label() != "B" {
		t.Fatalf("Label() = %q", b.Label())
	}
}

func TestPaletteSetterRepaintsActiveState(t *testing.T) {
	b := newTestButton(t, ButtonConfig{Size: image.Pt(80, 40), Fill: RGB24(0x0D2035)})
	b.SetSelected(true)
	b.SetSelectedFill(RGB24(0x00FF00))
	if got := b.body.Fill(); got != RGB24(0x00FF00) {
		t.Fatalf("body fill = %v", got)
	}
	b.SetFill(RGB24(0xDB1308))
	if got := b.body.Fill(); got != RGB24(0x00FF00) {
		t.Fatalf("normal fill change should not show while selected, got %v", got)
	}
	b.SetSelected(false)
	if got := b.body.Fill(); got != RGB24(0xDB1308) {
		t.Fatalf("body fill = %v", got)
	}
}

func TestRelease(t *testing.T) {
	b := newTestButton(t, ButtonConfig{
		Size:       image.Pt(80, 40),
		Fill:       RGB24(0x0D2035),
		Label:      "A",
		LabelFont:  fixedFont{},
		LabelColor: RGB24(0xFFFFFF),
	})
	b.Release()
	if b.Group().Len() != 0 || b.Label() != "" {
		t.Fatal("release should drop every primitive")
	}
	b.SetSelected(true)
	if !b.Contains(image.Pt(10, 10)) {
		t.Fatal("released button should still hit test")
	}
}

func TestParseStyle(t *testing.T) {
	tcs := []struct {
		in   string
		want Style
	}{
		{in: "", want: StyleRect},
		{in: "rect", want: StyleRect},
		{in: "RoundRect", want: StyleRoundRect},
		{in: "shadowrect", want: StyleShadowRect},
		{in: "3", want: StyleShadowRoundRect},
	}
	for _, tc := range tcs {
		got, err := ParseStyle(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseStyle(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
	}
	if _, err := ParseStyle("oval"); err == nil {
		t.Fatal("expected error for unknown style")
	}
	if _, err := ParseStyle("4"); err == nil {
		t.Fatal("expected error for out of range style")
	}
}

func TestCheckLabelLeavesButtonAlone(t *testing.T) {
	b := newTestButton(t, ButtonConfig{
		Size:       image.Pt(40, 40),
		Label:      "A",
		LabelFont:  fixedFont{},
		LabelColor: RGB24(0xFFFFFF),
	})
	if err := b.CheckLabel("TooLongForIt"); !errors.Is(err, ErrLabelTooLarge) {
		t.Fatalf("expected ErrLabelTooLarge, got %v", err)
	}
	if err := b.CheckLabel("B"); err != nil {
		t.Fatalf("CheckLabel: %v", err)
	}
	if b.Label() != "A" {
		t.Fatalf("CheckLabel changed the label to %q", b.Label())
	}
}
