package dispatch

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/phinze/pagedeck/internal/ui"
)

var (
	// ErrNoBackground is returned by Build when no background was set.
	ErrNoBackground = errors.New("layout has no background")

	// ErrDuplicatePage is returned by Build when two tabs select the same page.
	ErrDuplicatePage = errors.New("two tabs select the same page")
)

// TabRole marks a touchable that switches the active page and recolors the
// background.
type TabRole struct {
	Page  int
	Color ui.Color
}

// CommandRole marks a touchable that emits a command code. Labels optionally
// overrides the button label per page.
type CommandRole struct {
	ID     int
	Labels map[int]string
}

// Tab is a button with a tab role.
type Tab struct {
	Button *ui.Button
	TabRole
}

// CommandButton is a button with a command role.
type CommandButton struct {
	Button *ui.Button
	CommandRole

	// Default is the label shown on pages without an entry in Labels.
	Default string
}

// LabelFor returns the label the button shows on page.
func (c *CommandButton) LabelFor(page int) string {
	if text, ok := c.Labels[page]; ok {
		return text
	}
	return c.Default
}

// PageLayout is everything the dispatcher drives: the touchables, the
// background that follows the active tab, and the display list painting them.
type PageLayout struct {
	Bounds      image.Rectangle
	Background  *ui.Shape
	Tabs        []*Tab
	Buttons     []*CommandButton
	InitialPage int

	// Root paints tabs first, then the background, then the command buttons.
	Root *ui.Group
}

// TabFor returns the tab selecting page, or nil.
func (l *PageLayout) TabFor(page int) *Tab {
	for _, t := range l.Tabs {
		if t.Page == page {
			return t
		}
	}
	return nil
}

// Pages returns the pages selectable by tabs, in ascending order.
func (l *PageLayout) Pages() []int {
	pages := make([]int, 0, len(l.Tabs))
	for _, t := range l.Tabs {
		pages = append(pages, t.Page)
	}
	sort.Ints(pages)
	return pages
}

// Release drops the primitives of every button in the layout.
func (l *PageLayout) Release() {
	for _, t := range l.Tabs {
		t.Button.Release()
	}
	for _, c := range l.Buttons {
		c.Button.Release()
	}
	l.Root.Clear()
}

// LayoutBuilder assembles a PageLayout. Touchables are matched in the order
// they are added, tabs before command buttons.
type LayoutBuilder struct {
	bounds     image.Rectangle
	background *ui.Shape
	tabs       []*Tab
	buttons    []*CommandButton
	page       int
}

// NewLayoutBuilder starts a layout for a display of the given bounds.
func NewLayoutBuilder(bounds image.Rectangle) *LayoutBuilder {
	return &LayoutBuilder{bounds: bounds}
}

// Background sets the rectangle recolored by tabs.
func (b *LayoutBuilder) Background(r image.Rectangle, fill, outline ui.Color) *LayoutBuilder {
	b.background = ui.NewRect(r, fill, outline)
	return b
}

// Tab registers a tab.
func (b *LayoutBuilder) Tab(btn *ui.Button, role TabRole) *LayoutBuilder {
	b.tabs = append(b.tabs, &Tab{Button: btn, TabRole: role})
	return b
}

// Button registers a command button. Its current label becomes the default
// for pages without an override.
func (b *LayoutBuilder) Button(btn *ui.Button, role CommandRole) *LayoutBuilder {
	b.buttons = append(b.buttons, &CommandButton{Button: btn, CommandRole: role, Default: btn.Label()})
	return b
}

// InitialPage sets the page active when the dispatcher starts.
func (b *LayoutBuilder) InitialPage(page int) *LayoutBuilder {
	b.page = page
	return b
}

// Build validates the layout and assembles its display list. Buttons are
// relabeled for the initial page and the background takes the color of the
// initial page's tab, if there is one.
func (b *LayoutBuilder) Build() (*PageLayout, error) {
	if b.background == nil {
		return nil, ErrNoBackground
	}

	seen := make(map[int]bool, len(b.tabs))
	for _, t := range b.tabs {
		if seen[t.Page] {
			return nil, fmt.Errorf("page %d: %w", t.Page, ErrDuplicatePage)
		}
		seen[t.Page] = true
	}

	for _, c := range b.buttons {
		for page, text := range c.Labels {
			if err := c.Button.CheckLabel(text); err != nil {
				return nil, fmt.Errorf("label for page %d: %w", page, err)
			}
		}
	}

	l := &PageLayout{
		Bounds:      b.bounds,
		Background:  b.background,
		Tabs:        b.tabs,
		Buttons:     b.buttons,
		InitialPage: b.page,
		Root:        ui.NewGroup(),
	}
	for _, t := range l.Tabs {
		l.Root.Append(t.Button.Group())
	}
	l.Root.Append(l.Background)
	for _, c := range l.Buttons {
		l.Root.Append(c.Button.Group())
	}

	if t := l.TabFor(l.InitialPage); t != nil {
		l.Background.SetFill(t.Color)
		l.Background.SetOutline(t.Color)
	}
	for _, c := range l.Buttons {
		if err := relabel(c, l.InitialPage); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func relabel(c *CommandButton, page int) error {
	text := c.LabelFor(page)
	if text == c.Button.Label() {
		return nil
	}
	return c.Button.SetLabel(text)
}
