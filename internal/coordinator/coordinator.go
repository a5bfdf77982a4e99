// Package coordinator drives gesture recognition for the strip surfaces and
// renders their feedback.
package coordinator

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/phinze/gesturedeck/internal/device"
	"github.com/phinze/gesturedeck/internal/gesture"
	"github.com/phinze/gesturedeck/internal/render"
	"github.com/phinze/gesturedeck/internal/surface"
	"github.com/phinze/gesturedeck/internal/touch"
)

// renderInterval is how often strip feedback is redrawn. Frames identical to
// the previous one are not sent to the device.
const renderInterval = 100 * time.Millisecond

// Coordinator owns the surfaces, feeds them one touch sample per tick and
// routes each contact to the surface it started on.
type Coordinator struct {
	device   device.Device
	renderer *render.Renderer
	tickRate int

	surfaces []*surface.Surface
	ids      map[string]bool

	// Routing state, owned by the tick loop
	active       *surface.Surface
	activeFinger touch.FingerID
	last         *surface.Surface

	// Strip compositing
	stripRect  image.Rectangle
	lastFrame  []render.Feedback
	frameValid bool

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// State tracking
	mu sync.RWMutex
}

// New creates a new Coordinator for the given device. renderer may be nil to
// disable strip feedback.
func New(dev device.Device, renderer *render.Renderer, tickRate int) *Coordinator {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Coordinator{
		device:   dev,
		renderer: renderer,
		tickRate: tickRate,
		surfaces: make([]*surface.Surface, 0),
		ids:      make(map[string]bool),
	}
}

// RegisterSurface registers a surface behind the ones already registered.
// Earlier surfaces win hit tests where regions overlap. Must be called before Start.
func (c *Coordinator) RegisterSurface(s *surface.Surface) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ids[s.ID()] {
		return fmt.Errorf("surface %q already registered", s.ID())
	}
	c.ids[s.ID()] = true

	s.OnGesture(func(ev surface.Event) {
		if ev.Type == surface.EventPan && ev.Pan.Phase == gesture.PanChanged {
			return
		}
		log.Printf("gesture: %s", ev)
	})
	c.surfaces = append(c.surfaces, s)

	return nil
}

// Surfaces returns the registered surfaces in priority order.
func (c *Coordinator) Surfaces() []*surface.Surface {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*surface.Surface(nil), c.surfaces...)
}

// Start begins the tick and render loops and blocks until the context is
// cancelled or the device listener fails.
func (c *Coordinator) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	// Get full strip rectangle for compositing
	if c.device.GetTouchStripSupported() {
		rect, err := c.device.GetTouchStripImageRectangle()
		if err == nil {
			c.stripRect = rect
		}
	} else {
		log.Printf("%s has no touch strip; gestures will never fire", c.device.GetModelName())
	}

	// Start device listener
	listenErr := make(chan error, 1)
	go func() {
		err := c.device.Listen(nil) // errors logged to stderr
		if err != nil {
			listenErr <- err
		}
		close(listenErr)
	}()

	c.wg.Add(2)
	go c.tickLoop()
	go c.renderLoop()

	// Wait for context cancellation or device disconnect
	select {
	case <-c.ctx.Done():
		return nil
	case err := <-listenErr:
		// Device disconnected or listener error
		return err
	}
}

// Stop ends the loops and abandons any gestures in progress.
func (c *Coordinator) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()

	for _, s := range c.Surfaces() {
		s.Cancel()
	}
	return nil
}

// tickLoop runs one recognition tick per period.
func (c *Coordinator) tickLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(c.tickRate))
	defer ticker.Stop()

	source := c.device.Touches()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.Step(source.Sample())
		}
	}
}

// Step runs one recognition tick with a sample in strip coordinates.
//
// A Start is hit-tested against the surfaces in registration order and the
// contact stays with that surface until it ends. Starting a contact on a
// different surface than the previous one cancels whatever the previous
// surface was still waiting for, such as the second tap of a double tap.
// None samples reach every surface.
func (c *Coordinator) Step(st touch.State) {
	c.mu.RLock()
	surfaces := c.surfaces
	c.mu.RUnlock()

	switch st.Phase {
	case touch.Start:
		if c.active != nil && st.Finger != c.activeFinger {
			// Only one contact is followed at a time.
			return
		}
		target := c.hitTest(surfaces, st.Position)
		if c.last != nil && c.last != target {
			c.last.Cancel()
		}
		c.active = target
		c.activeFinger = st.Finger
		if target != nil {
			c.last = target
			target.Tick(target.Local(st))
		}

	case touch.Stay, touch.End:
		if c.active == nil || st.Finger != c.activeFinger {
			return
		}
		c.active.Tick(c.active.Local(st))
		if st.Phase == touch.End {
			c.active = nil
		}

	default:
		for _, s := range surfaces {
			s.Tick(s.Local(st))
		}
	}
}

func (c *Coordinator) hitTest(surfaces []*surface.Surface, p touch.Point) *surface.Surface {
	for _, s := range surfaces {
		if s.Contains(p) {
			return s
		}
	}
	return nil
}

// renderLoop runs the periodic render cycle.
func (c *Coordinator) renderLoop() {
	defer c.wg.Done()

	if c.renderer == nil || c.stripRect.Empty() {
		return
	}

	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	// Initial render
	c.renderStrip()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.renderStrip()
		}
	}
}

// renderStrip composites every surface's feedback and applies it to the device.
func (c *Coordinator) renderStrip() {
	surfaces := c.Surfaces()
	frame := make([]render.Feedback, len(surfaces))
	for i, s := range surfaces {
		frame[i] = s.Feedback()
	}

	if c.frameValid && sameFrame(frame, c.lastFrame) {
		return
	}

	img := c.renderer.Strip(c.stripRect, frame)
	if err := c.device.SetTouchStripImage(img); err != nil {
		log.Printf("render: set strip image: %v", err)
		return
	}
	c.lastFrame = frame
	c.frameValid = true
}

func sameFrame(a, b []render.Feedback) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Device returns the underlying device.
func (c *Coordinator) Device() device.Device {
	return c.device
}
