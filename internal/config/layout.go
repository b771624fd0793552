package config

import (
	"fmt"
	"image"

	"github.com/phinze/pagedeck/internal/dispatch"
	"github.com/phinze/pagedeck/internal/render"
	"github.com/phinze/pagedeck/internal/ui"
)

// Colors of the default layout.
var (
	PageColors = []ui.Color{
		ui.RGB24(0x0D2035), // dark blue
		ui.RGB24(0xDB1308), // red
		ui.RGB24(0x094A85), // blue
		ui.RGB24(0xDF550F), // orange
	}

	white = ui.RGB24(0xFFFFFF)
	green = ui.RGB24(0x00FF00)
)

// Renderer returns a renderer clearing frames to the configured background.
func (c *Config) Renderer() *render.Renderer {
	if c.Display.Background.IsZero() {
		return render.New()
	}
	return render.New(render.WithBackground(c.Display.Background))
}

// LayoutConfig is the YAML form of a dispatch.PageLayout.
type LayoutConfig struct {
	Background  BackgroundConfig `yaml:"background"`
	InitialPage int              `yaml:"initial_page"`
	Tabs        []TabConfig      `yaml:"tabs"`
	Buttons     []ButtonConfig   `yaml:"buttons"`
}

// Rect is a rectangle in display coordinates.
type Rect struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Rectangle converts r to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Pair is an (x, y) amount, written [x, y].
type Pair [2]int

// Point converts p to an image.Point.
func (p Pair) Point() image.Point {
	return image.Pt(p[0], p[1])
}

// BackgroundConfig is the rectangle recolored by the tabs.
type BackgroundConfig struct {
	Rect    `yaml:",inline"`
	Fill    ui.Color `yaml:"fill,omitempty"`
	Outline ui.Color `yaml:"outline,omitempty"`
}

// ButtonSpec holds the fields shared by tabs and command buttons.
type ButtonSpec struct {
	Name string `yaml:"name,omitempty"`
	Rect `yaml:",inline"`

	Margin  Pair   `yaml:"margin,omitempty"`
	Padding Pair   `yaml:"padding,omitempty"`
	Style   string `yaml:"style,omitempty"`

	Fill               ui.Color `yaml:"fill,omitempty"`
	Outline            ui.Color `yaml:"outline,omitempty"`
	SelectedFill       ui.Color `yaml:"selected_fill,omitempty"`
	SelectedOutline    ui.Color `yaml:"selected_outline,omitempty"`
	SelectedLabelColor ui.Color `yaml:"selected_label_color,omitempty"`

	Label      string   `yaml:"label,omitempty"`
	LabelColor ui.Color `yaml:"label_color,omitempty"`
	LabelX     *int     `yaml:"label_x,omitempty"`
	LabelY     *int     `yaml:"label_y,omitempty"`

	// Icon is a built-in icon name or an SVG file path.
	Icon     string `yaml:"icon,omitempty"`
	IconSize int    `yaml:"icon_size,omitempty"`
}

// TabConfig is a button selecting a page. Unset fill and outline colors take
// the tab color.
type TabConfig struct {
	Page       int      `yaml:"page"`
	Color      ui.Color `yaml:"color"`
	ButtonSpec `yaml:",inline"`
}

// ButtonConfig is a button emitting commands. Labels overrides the label on
// the listed pages.
type ButtonConfig struct {
	ID         int            `yaml:"id"`
	Labels     map[int]string `yaml:"labels,omitempty"`
	ButtonSpec `yaml:",inline"`
}

// DefaultLayout returns four tabs along the bottom and two rows of four
// command buttons above them, scaled to bounds.
func DefaultLayout(bounds image.Rectangle) *LayoutConfig {
	w, h := bounds.Dx(), bounds.Dy()
	ox, oy := bounds.Min.X, bounds.Min.Y
	cellW, cellH := w/4, h/4

	lc := &LayoutConfig{
		Background: BackgroundConfig{
			Rect:    Rect{X: ox, Y: oy, Width: w, Height: h * 5 / 6},
			Fill:    PageColors[0],
			Outline: PageColors[0],
		},
	}

	for i, c := range PageColors {
		lc.Tabs = append(lc.Tabs, TabConfig{
			Page:  i,
			Color: c,
			ButtonSpec: ButtonSpec{
				Name:       fmt.Sprintf("tab%d", i),
				Rect:       Rect{X: ox + cellW*i, Y: oy + h*3/4, Width: cellW, Height: cellH},
				Style:      ui.StyleRoundRect.String(),
				Label:      fmt.Sprint(i),
				LabelColor: white,
				LabelY:     ui.Offset(cellH * 2 / 3),
			},
		})
	}

	rows := []int{0, h * 11 / 24}
	for id := 0; id < 8; id++ {
		lc.Buttons = append(lc.Buttons, ButtonConfig{
			ID: id,
			ButtonSpec: ButtonSpec{
				Name:            fmt.Sprintf("cmd%02d", id),
				Rect:            Rect{X: ox + cellW*(id%4), Y: oy + rows[id/4], Width: cellW, Height: cellH},
				Margin:          Pair{2, 2},
				Padding:         Pair{5, 5},
				Style:           ui.StyleRoundRect.String(),
				Outline:         white,
				SelectedFill:    green,
				SelectedOutline: green,
				Label:           fmt.Sprintf("CMD %d", id),
				LabelColor:      white,
			},
		})
	}
	return lc
}

// BuildLayout turns lc into a layout ready for the dispatcher. A nil lc
// builds DefaultLayout(bounds).
func BuildLayout(lc *LayoutConfig, bounds image.Rectangle, font ui.Font) (*dispatch.PageLayout, error) {
	if lc == nil {
		lc = DefaultLayout(bounds)
	}

	lb := dispatch.NewLayoutBuilder(bounds).
		Background(lc.Background.Rectangle(), lc.Background.Fill, lc.Background.Outline).
		InitialPage(lc.InitialPage)

	for i, tc := range lc.Tabs {
		spec := tc.ButtonSpec
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("tab%d", i)
		}
		spec.Fill = spec.Fill.Or(tc.Color)
		spec.Outline = spec.Outline.Or(tc.Color)
		spec.SelectedFill = spec.SelectedFill.Or(tc.Color)
		spec.SelectedOutline = spec.SelectedOutline.Or(tc.Color)

		btn, err := newButton(spec, 0, font)
		if err != nil {
			return nil, fmt.Errorf("tab %d: %w", i, err)
		}
		lb.Tab(btn, dispatch.TabRole{Page: tc.Page, Color: tc.Color})
	}

	for i, bc := range lc.Buttons {
		spec := bc.ButtonSpec
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("button%d", i)
		}
		btn, err := newButton(spec, bc.ID, font)
		if err != nil {
			return nil, fmt.Errorf("button %d: %w", i, err)
		}
		lb.Button(btn, dispatch.CommandRole{ID: bc.ID, Labels: bc.Labels})
	}

	l, err := lb.Build()
	if err != nil {
		return nil, fmt.Errorf("building layout: %w", err)
	}
	return l, nil
}

func newButton(spec ButtonSpec, id int, font ui.Font) (*ui.Button, error) {
	style, err := ui.ParseStyle(spec.Style)
	if err != nil {
		return nil, &ui.ConfigurationError{Button: spec.Name, Err: err}
	}

	cfg := ui.ButtonConfig{
		Name:               spec.Name,
		ID:                 id,
		Origin:             image.Pt(spec.X, spec.Y),
		Size:               image.Pt(spec.Width, spec.Height),
		Margin:             spec.Margin.Point(),
		Padding:            spec.Padding.Point(),
		Style:              style,
		Fill:               spec.Fill,
		Outline:            spec.Outline,
		SelectedFill:       spec.SelectedFill,
		SelectedOutline:    spec.SelectedOutline,
		SelectedLabelColor: spec.SelectedLabelColor,
		Label:              spec.Label,
		LabelFont:          font,
		LabelColor:         spec.LabelColor,
		LabelX:             spec.LabelX,
		LabelY:             spec.LabelY,
	}

	if spec.Icon != "" {
		size := spec.IconSize
		if size <= 0 {
			size = min(spec.Width, spec.Height) / 2
		}
		icon, err := render.LoadIcon(spec.Icon, size, spec.LabelColor)
		if err != nil {
			return nil, &ui.ConfigurationError{Button: spec.Name, Err: err}
		}
		cfg.Icon = icon
	}

	return ui.NewButton(cfg)
}

// BuildLayout builds the configured layout, or the default one, for a display
// of the given bounds using the configured label font.
func (c *Config) BuildLayout(bounds image.Rectangle) (*dispatch.PageLayout, error) {
	f, err := c.LabelFont()
	if err != nil {
		return nil, err
	}
	return BuildLayout(c.Layout, bounds, f)
}
