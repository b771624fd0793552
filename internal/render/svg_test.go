package render

import (
	"image"
	"testing"

	"github.com/phinze/pagedeck/internal/ui"
)

func opaquePixels(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				n++
			}
		}
	}
	return n
}

func TestBuiltinIconsRasterize(t *testing.T) {
	names := BuiltinIcons()
	if len(names) == 0 || names[0] > names[len(names)-1] {
		t.Fatalf("unexpected icon names %v", names)
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			img, err := LoadIcon(name, 24, ui.RGB24(0x00FF00))
			if err != nil {
				t.Fatalf("LoadIcon: %v", err)
			}
			if img.Bounds() != image.Rect(0, 0, 24, 24) {
				t.Fatalf("bounds = %v", img.Bounds())
			}
			if opaquePixels(img) == 0 {
				t.Fatal("icon painted nothing")
			}
		})
	}
}

func TestRasterizeSVGErrors(t *testing.T) {
	if _, err := RasterizeSVG(builtinIcons["play"], 0, ui.NoColor); err == nil {
		t.Fatal("expected error for zero size")
	}
	if _, err := RasterizeSVG("<svg><path d=", 16, ui.NoColor); err == nil {
		t.Fatal("expected error for malformed svg")
	}
	if _, err := LoadIcon("/nonexistent/icon.svg", 16, ui.NoColor); err == nil {
		t.Fatal("expected error for missing file")
	}
}
