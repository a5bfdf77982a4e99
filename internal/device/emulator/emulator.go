// Package emulator provides a GUI-based Stream Deck touch strip emulator.
package emulator

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phinze/gesturedeck/internal/device"
	"github.com/phinze/gesturedeck/internal/touch"
)

// Layout constants for the emulated strip
const (
	marginX       = 20 // Left/right margin
	marginY       = 20 // Top margin
	headerHeight  = 30 // Title bar height
	footerHeight  = 40 // Status + instructions
	stripWidth    = 800
	stripHeight   = 100
	stripStartX   = marginX
	stripStartY   = headerHeight + marginY
	windowWidth   = 2*marginX + stripWidth
	windowHeight  = stripStartY + stripHeight + marginY + footerHeight
	mouseFinger   = touch.FingerID(0)
	touchFingerID = touch.FingerID(1)
)

// Emulator implements the device.Device interface using Ebitengine for GUI rendering.
type Emulator struct {
	mu sync.RWMutex

	// State
	open       bool
	brightness byte
	stripImage *image.RGBA
	lastSample touch.State

	touches *touch.Queue

	// Ebitengine state
	game       *emulatorGame
	stopCh     chan struct{}
	listenDone chan struct{}
}

// New creates a new emulator instance.
func New() *Emulator {
	return &Emulator{
		brightness: 80,
		stripImage: image.NewRGBA(image.Rect(0, 0, stripWidth, stripHeight)),
		touches:    touch.NewQueue(0),
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
	return "Stream Deck Plus (Emulator)"
}

// GetTouchStripSupported returns true as the emulated device supports touch strip.
func (e *Emulator) GetTouchStripSupported() bool {
	return true
}

// GetTouchStripImageRectangle returns the touch strip dimensions.
func (e *Emulator) GetTouchStripImageRectangle() (image.Rectangle, error) {
	return image.Rect(0, 0, stripWidth, stripHeight), nil
}

// SetBrightness sets the display brightness.
func (e *Emulator) SetBrightness(perc byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.brightness = perc
	return nil
}

// SetTouchStripImage sets the touch strip image.
func (e *Emulator) SetTouchStripImage(img image.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Create new RGBA image and draw the provided image onto it
	rgba := image.NewRGBA(image.Rect(0, 0, stripWidth, stripHeight))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	e.stripImage = rgba

	return nil
}

// Touches returns the samples produced by mouse and touchscreen input.
func (e *Emulator) Touches() touch.Source {
	return e.touches
}

// Listen blocks until the emulator is closed.
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
	e.game = newGame(e)
	e.mu.Unlock()

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Stream Deck Touch Strip Emulator")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	// Run the game loop (this blocks until the window is closed)
	err := ebiten.RunGame(e.game)

	// Signal Listen() to unblock
	close(e.listenDone)
	return err
}

// emulatorGame implements ebiten.Game for the emulator.
type emulatorGame struct {
	emu *Emulator

	mouse *touch.Tracker
	touch *touch.Tracker

	// Set while a mouse press that began outside the strip is held.
	mouseIgnored bool

	// The touchscreen contact being followed; only one is emulated.
	touchID     ebiten.TouchID
	touchActive bool
	touchIDs    []ebiten.TouchID
}

func newGame(e *Emulator) *emulatorGame {
	return &emulatorGame{
		emu:   e,
		mouse: touch.NewTracker(mouseFinger),
		touch: touch.NewTracker(touchFingerID),
	}
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

func (g *emulatorGame) Draw(screen *ebiten.Image) {
	// Background
	screen.Fill(color.RGBA{30, 30, 30, 255})

	g.emu.mu.RLock()
	defer g.emu.mu.RUnlock()

	// Draw title
	ebitenutil.DebugPrintAt(screen, "Stream Deck Touch Strip Emulator", windowWidth/2-110, 8)

	// Draw touch strip background
	drawRect(screen, stripStartX-2, stripStartY-2, stripWidth+4, stripHeight+4, color.RGBA{60, 60, 60, 255})

	// Draw touch strip image at native resolution
	if g.emu.stripImage != nil {
		stripImg := ebiten.NewImageFromImage(g.emu.stripImage)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(stripStartX), float64(stripStartY))
		brightness := float64(g.emu.brightness) / 100.0
		op.ColorScale.Scale(float32(brightness), float32(brightness), float32(brightness), 1)
		screen.DrawImage(stripImg, op)
	}

	// Draw status and instructions
	status := fmt.Sprintf("last sample: %s", g.emu.lastSample)
	ebitenutil.DebugPrintAt(screen, status, 10, windowHeight-36)
	ebitenutil.DebugPrintAt(screen, "Click, double-click, hold or drag on the strip", 10, windowHeight-18)
}

func (g *emulatorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}

// handleInput turns this frame's mouse and touchscreen state into samples.
// A contact only starts inside the strip; once started it is followed
// anywhere in the window and clamped to the strip.
func (g *emulatorGame) handleInput() {
	mx, my := ebiten.CursorPosition()
	mousePressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if !g.mouse.Down() && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !inStrip(mx, my) {
		g.mouseIgnored = true
	}
	if g.mouseIgnored {
		g.mouseIgnored = mousePressed
	} else if mousePressed || g.mouse.Down() {
		g.push(g.mouse.Update(mousePressed, stripPoint(mx, my)))
	}

	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	if !g.touchActive {
		for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
			tx, ty := ebiten.TouchPosition(id)
			if inStrip(tx, ty) {
				g.touchID = id
				g.touchActive = true
				break
			}
		}
	}
	if g.touchActive {
		pressed := false
		var tx, ty int
		for _, id := range g.touchIDs {
			if id == g.touchID {
				pressed = true
				tx, ty = ebiten.TouchPosition(id)
				break
			}
		}
		g.push(g.touch.Update(pressed, stripPoint(tx, ty)))
		if !pressed {
			g.touchActive = false
		}
	}
}

func (g *emulatorGame) push(s touch.State) {
	if s.Phase == touch.None {
		return
	}
	if !g.emu.touches.Push(s) {
		log.Printf("emulator: touch queue full, dropped %s", s)
	}

	g.emu.mu.Lock()
	g.emu.lastSample = s
	g.emu.mu.Unlock()
}

func inStrip(x, y int) bool {
	return x >= stripStartX && x < stripStartX+stripWidth && y >= stripStartY && y < stripStartY+stripHeight
}

// stripPoint converts window coordinates into clamped strip coordinates.
func stripPoint(x, y int) touch.Point {
	sx := clamp(x-stripStartX, 0, stripWidth-1)
	sy := clamp(y-stripStartY, 0, stripHeight-1)
	return touch.Point{X: float64(sx), Y: float64(sy)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Helper function to draw a filled rectangle
func drawRect(screen *ebiten.Image, x, y, w, h int, c color.Color) {
	rect := ebiten.NewImage(w, h)
	rect.Fill(c)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(rect, op)
}

// Compile-time interface check.
var _ device.Device = (*Emulator)(nil)
