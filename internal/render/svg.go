package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sort"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"

	"github.com/phinze/pagedeck/internal/ui"
)

// Built-in icons, stroked with currentColor on a 24x24 grid.
var builtinIcons = map[string]string{
	"play": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M5 3 L19 12 L5 21 Z"/></svg>`,
	"pause": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><rect x="6" y="4" width="4" height="16"/><rect x="14" y="4" width="4" height="16"/></svg>`,
	"next": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M5 4 L15 12 L5 20 Z"/><path d="M19 5 L19 19"/></svg>`,
	"prev": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M19 20 L9 12 L19 4 Z"/><path d="M5 19 L5 5"/></svg>`,
	"volume": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M11 5 L6 9 L2 9 L2 15 L6 15 L11 19 Z"/><path d="M15.5 8.5 A5 5 0 0 1 15.5 15.5"/></svg>`,
	"mute": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M11 5 L6 9 L2 9 L2 15 L6 15 L11 19 Z"/><path d="M23 9 L17 15"/><path d="M17 9 L23 15"/></svg>`,
	"power": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><path d="M18.4 6.6 A9 9 0 1 1 5.6 6.6"/><path d="M12 2 L12 12"/></svg>`,
	"square": `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><rect x="3" y="3" width="18" height="18" rx="2" ry="2"/></svg>`,
}

// BuiltinIcons returns the names accepted by LoadIcon without a file.
func BuiltinIcons() []string {
	names := make([]string, 0, len(builtinIcons))
	for name := range builtinIcons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadIcon rasterizes a built-in icon by name, or an SVG file by path.
func LoadIcon(ref string, size int, tint ui.Color) (image.Image, error) {
	svg, ok := builtinIcons[strings.ToLower(ref)]
	if !ok {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("read icon %s: %w", ref, err)
		}
		svg = string(data)
	}
	img, err := RasterizeSVG(svg, size, tint)
	if err != nil {
		return nil, fmt.Errorf("icon %s: %w", ref, err)
	}
	return img, nil
}

// RasterizeSVG renders svg into a size x size image on a transparent
// background. currentColor is replaced with tint, or white when tint is
// absent.
func RasterizeSVG(svg string, size int, tint ui.Color) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid icon size %d", size)
	}
	svg = strings.ReplaceAll(svg, "currentColor", tint.Or(ui.RGB24(0xFFFFFF)).String())

	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Transparent}, image.Point{}, draw.Src)

	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}
