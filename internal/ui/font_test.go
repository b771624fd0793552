package ui

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"tinygo.org/x/tinyfont/proggy"
)

func TestDefaultFontBounds(t *testing.T) {
	f := DefaultFont()
	b := f.Bounds("Hi")
	// Ink box, so narrower than the two 7px advances.
	if b.Dx() != 13 {
		t.Fatalf("expected ink width 13, got %d", b.Dx())
	}
	if adv := font.MeasureString(basicfont.Face7x13, "Hi").Ceil(); b.Dx() > adv {
		t.Fatalf("ink width %d exceeds advance %d", b.Dx(), adv)
	}
	if b.Min.Y >= 0 || b.Max.Y < 0 {
		t.Fatalf("bounds should straddle the baseline, got %v", b)
	}
}

func TestLabelAsWideAsButton(t *testing.T) {
	w := DefaultFont().Bounds("Hi").Dx()
	tcs := []struct {
		width   int
		wantErr bool
	}{
		{width: w, wantErr: true},
		{width: w + 1, wantErr: false},
	}
	for _, tc := range tcs {
		b := newTestButton(t, ButtonConfig{
			Size:       image.Pt(tc.width, 40),
			LabelFont:  DefaultFont(),
			LabelColor: RGB24(0xFFFFFF),
		})
		err := b.CheckLabel("Hi")
		if tc.wantErr && !errors.Is(err, ErrLabelTooLarge) {
			t.Fatalf("width %d: expected ErrLabelTooLarge, got %v", tc.width, err)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("width %d: CheckLabel: %v", tc.width, err)
		}
	}
}

func inked(img *image.RGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestFontsDraw(t *testing.T) {
	fonts := map[string]Font{
		"basic":  DefaultFont(),
		"proggy": NewTinyFont(&proggy.TinySZ8pt7b),
	}
	for name, f := range fonts {
		t.Run(name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 64, 24))
			f.Draw(img, image.Pt(2, 16), "Wx", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
			if inked(img) == 0 {
				t.Fatal("expected text pixels")
			}
		})
	}
}

func TestTinyFontClipsOffscreen(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	NewTinyFont(&proggy.TinySZ8pt7b).Draw(img, image.Pt(100, 100), "W", color.RGBA{A: 0xff})
	if inked(img) != 0 {
		t.Fatal("offscreen text should not paint")
	}
}

func TestLoadFont(t *testing.T) {
	for _, name := range []string{"", "basic", "proggy", "go", "go-bold"} {
		f, err := LoadFont(name, 14)
		if err != nil {
			t.Fatalf("LoadFont(%q): %v", name, err)
		}
		if f.Bounds("A").Dx() <= 0 {
			t.Fatalf("LoadFont(%q) measures nothing", name)
		}
	}
	if _, err := LoadFont("/nonexistent/font.ttf", 12); err == nil {
		t.Fatal("expected error for missing font file")
	}
}
