// Package emulator provides a GUI window standing in for a touch display.
package emulator

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/draw"

	"github.com/phinze/pagedeck/internal/device"
)

// Window layout
const (
	displayScale = 2  // Clean 2x scale for crisp rendering
	marginX      = 20 // Left/right margin
	marginY      = 20 // Top margin
	headerHeight = 30 // Title bar height
	footerHeight = 30 // Instruction line height
)

// Emulator implements device.Device with an Ebitengine window. The left mouse
// button is the finger.
type Emulator struct {
	mu sync.RWMutex

	// State
	open       bool
	brightness byte
	display    image.Rectangle
	frame      *image.RGBA
	dirty      bool

	// Touch state, written by the game loop
	touching bool
	point    image.Point
	tap      bool

	// Ebitengine state
	game       *emulatorGame
	stopCh     chan struct{}
	listenDone chan struct{}
}

var _ device.Device = (*Emulator)(nil)

// New creates a new emulator instance with a display of the given size, or
// device.DefaultDisplay when it is empty.
func New(display image.Rectangle) *Emulator {
	if display.Empty() {
		display = device.DefaultDisplay
	}
	display = display.Sub(display.Min)
	return &Emulator{
		brightness: 80,
		display:    display,
		frame:      image.NewRGBA(display),
		dirty:      true,
		stopCh:     make(chan struct{}),
	}
}

// Open initializes the emulator.
func (e *Emulator) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.open {
		return fmt.Errorf("emulator: device is already open")
	}

	e.open = true
	e.stopCh = make(chan struct{})
	return nil
}

// Close shuts down the emulator.
func (e *Emulator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.open {
		return fmt.Errorf("emulator: device is not open")
	}

	e.open = false

	// Signal the game loop to stop
	close(e.stopCh)

	return nil
}

// IsOpen returns whether the emulator is open.
func (e *Emulator) IsOpen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.open
}

// GetModelName returns the emulated model name.
func (e *Emulator) GetModelName() string {
	return fmt.Sprintf("Touch Display %dx%d (Emulator)", e.display.Dx(), e.display.Dy())
}

// GetDisplayRectangle returns the display dimensions.
func (e *Emulator) GetDisplayRectangle() (image.Rectangle, error) {
	return e.display, nil
}

// SetBrightness sets the display brightness.
func (e *Emulator) SetBrightness(perc byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.brightness = perc
	return nil
}

// SetImage replaces the displayed frame.
func (e *Emulator) SetImage(img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rgba := image.NewRGBA(e.display)
	if img.Bounds().Size() == e.display.Size() {
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	} else {
		draw.NearestNeighbor.Scale(rgba, rgba.Bounds(), img, img.Bounds(), draw.Src, nil)
	}
	e.frame = rgba
	e.dirty = true

	return nil
}

// Clear blanks the display.
func (e *Emulator) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frame = image.NewRGBA(e.display)
	e.dirty = true
	return nil
}

// ReadTouch returns the cursor position while the left button is held. A
// click shorter than the poll interval is reported once.
func (e *Emulator) ReadTouch() (image.Point, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.touching {
		e.tap = false
		return e.point, true
	}
	if e.tap {
		e.tap = false
		return e.point, true
	}
	return image.Point{}, false
}

// Listen blocks until the emulator window is closed.
// For the emulator, the actual event loop runs via RunGUI() which must be called from main.
func (e *Emulator) Listen(errCh chan error) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: device is not open")
	}
	if e.listenDone == nil {
		e.listenDone = make(chan struct{})
	}
	done := e.listenDone
	e.mu.Unlock()

	// Block until GUI is closed
	<-done
	return nil
}

// RunGUI starts the Ebitengine GUI loop. This MUST be called from the main goroutine
// on macOS due to Cocoa threading requirements. This method blocks until the window is closed.
func (e *Emulator) RunGUI() error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return fmt.Errorf("emulator: device is not open")
	}
	if e.listenDone == nil {
		e.listenDone = make(chan struct{})
	}
	e.game = &emulatorGame{emu: e}
	w, h := e.windowSize()
	e.mu.Unlock()

	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("pagedeck emulator")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	// Run the game loop (this blocks until the window is closed)
	err := ebiten.RunGame(e.game)

	// Signal Listen() to unblock
	close(e.listenDone)
	return err
}

func (e *Emulator) windowSize() (int, int) {
	return 2*marginX + e.display.Dx()*displayScale,
		headerHeight + marginY + e.display.Dy()*displayScale + footerHeight
}

// displayOrigin is the window position of the display's top-left pixel.
func displayOrigin() image.Point {
	return image.Pt(marginX, headerHeight+marginY)
}

// toDisplay maps a window position to display coordinates.
func (e *Emulator) toDisplay(mx, my int) (image.Point, bool) {
	o := displayOrigin()
	p := image.Pt((mx-o.X)/displayScale, (my-o.Y)/displayScale)
	if mx < o.X || my < o.Y || !p.In(e.display) {
		return image.Point{}, false
	}
	return p, true
}

// emulatorGame implements ebiten.Game for the emulator.
type emulatorGame struct {
	emu    *Emulator
	screen *ebiten.Image
}

func (g *emulatorGame) Update() error {
	// Check for stop signal
	select {
	case <-g.emu.stopCh:
		return ebiten.Termination
	default:
	}

	g.handleInput()
	return nil
}

func (g *emulatorGame) handleInput() {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	e := g.emu
	e.mu.Lock()
	defer e.mu.Unlock()

	p, inside := e.toDisplay(mx, my)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && inside {
		e.tap = true
		e.point = p
	}
	e.touching = pressed && inside
	if e.touching {
		e.point = p
	}
}

func (g *emulatorGame) Draw(screen *ebiten.Image) {
	// Background
	screen.Fill(color.RGBA{30, 30, 30, 255})

	e := g.emu
	e.mu.Lock()
	if e.dirty || g.screen == nil {
		if g.screen != nil {
			g.screen.Deallocate()
		}
		g.screen = ebiten.NewImageFromImage(e.frame)
		e.dirty = false
	}
	brightness := float64(e.brightness) / 100.0
	size := e.display.Size()
	e.mu.Unlock()

	w, h := e.windowSize()
	o := displayOrigin()

	ebitenutil.DebugPrintAt(screen, "pagedeck emulator", w/2-50, 8)

	// Display border
	drawRect(screen, o.X-2, o.Y-2, size.X*displayScale+4, size.Y*displayScale+4, color.RGBA{60, 60, 60, 255})

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(displayScale, displayScale)
	op.GeoM.Translate(float64(o.X), float64(o.Y))
	op.ColorScale.Scale(float32(brightness), float32(brightness), float32(brightness), 1)
	screen.DrawImage(g.screen, op)

	ebitenutil.DebugPrintAt(screen, "Click or hold to touch", 10, h-18)
}

func (g *emulatorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.emu.windowSize()
}

// Helper function to draw a filled rectangle
func drawRect(screen *ebiten.Image, x, y, w, h int, c color.Color) {
	rect := ebiten.NewImage(w, h)
	rect.Fill(c)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(rect, op)
}
