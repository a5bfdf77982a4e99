// Package surface groups gesture recognizers into interactive regions of the
// touch strip.
package surface

import (
	"image"
	"sync"

	"github.com/phinze/gesturedeck/internal/gesture"
	"github.com/phinze/gesturedeck/internal/render"
	"github.com/phinze/gesturedeck/internal/touch"
)

// Surface is a rectangular region of the strip with its own recognizers.
// Tick, Cancel and the Add methods must be called from the tick loop; the
// accessors used for rendering are safe to call from any goroutine.
type Surface struct {
	id    string
	label string
	rect  image.Rectangle

	dispatcher *gesture.Dispatcher
	taps       []*gesture.Tap
	listeners  []func(Event)

	// Render-side snapshot, guarded by mu.
	mu       sync.Mutex
	last     Event
	hasLast  bool
	pressed  bool
	progress int
	target   int
}

// New creates an empty surface. rect is in strip coordinates.
func New(id, label string, rect image.Rectangle) *Surface {
	return &Surface{
		id:         id,
		label:      label,
		rect:       rect,
		dispatcher: gesture.NewDispatcher(),
	}
}

// ID returns the surface's identifier.
func (s *Surface) ID() string {
	return s.id
}

// Label returns the surface's display label.
func (s *Surface) Label() string {
	return s.label
}

// Rect returns the surface region in strip coordinates.
func (s *Surface) Rect() image.Rectangle {
	return s.rect
}

// Dispatcher returns the surface's recognizer dispatcher.
func (s *Surface) Dispatcher() *gesture.Dispatcher {
	return s.dispatcher
}

// OnGesture registers a listener called synchronously for every gesture on
// this surface. Listeners must not call back into the surface.
func (s *Surface) OnGesture(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

// Contains reports whether a strip position lies inside the surface.
func (s *Surface) Contains(p touch.Point) bool {
	return p.X >= float64(s.rect.Min.X) && p.X < float64(s.rect.Max.X) &&
		p.Y >= float64(s.rect.Min.Y) && p.Y < float64(s.rect.Max.Y)
}

// Local translates a strip sample into surface coordinates.
func (s *Surface) Local(st touch.State) touch.State {
	st.Position = st.Position.Sub(touch.Point{X: float64(s.rect.Min.X), Y: float64(s.rect.Min.Y)})
	return st
}

// AddTap registers a tap recognizer firing after target taps.
func (s *Surface) AddTap(target int, maxDelta float64, respond gesture.Response) *gesture.Tap {
	var tap *gesture.Tap
	tap = gesture.NewTap(func() {
		s.emit(Event{Type: EventTap, Taps: tap.Target()})
		if respond != nil {
			respond()
		}
	}, target)
	if maxDelta > 0 {
		tap.SetMaxDelta(maxDelta)
	}
	s.taps = append(s.taps, tap)
	s.dispatcher.Add(tap)
	return tap
}

// AddLongPress registers a long press recognizer.
func (s *Surface) AddLongPress(holdTicks int, maxDelta float64, respond gesture.Response) *gesture.LongPress {
	lp := gesture.NewLongPress(func() {
		s.emit(Event{Type: EventLongPress})
		if respond != nil {
			respond()
		}
	}, holdTicks)
	if maxDelta > 0 {
		lp.SetMaxDelta(maxDelta)
	}
	s.dispatcher.Add(lp)
	return lp
}

// AddPan registers a pan recognizer. onEnd, if set, runs when a pan ends
// normally.
func (s *Surface) AddPan(threshold float64, onEnd gesture.Response) *gesture.Pan {
	if threshold <= 0 {
		threshold = gesture.MaxDeltaMovement
	}
	pan := gesture.NewPan(func(ev gesture.PanEvent) {
		s.emit(Event{Type: EventPan, Pan: ev})
		if ev.Phase == gesture.PanEnded && onEnd != nil {
			onEnd()
		}
	}, threshold)
	s.dispatcher.Add(pan)
	return pan
}

// Tick runs one recognition tick with a sample already in surface coordinates.
func (s *Surface) Tick(st touch.State) {
	s.dispatcher.Tick(st)
	s.snapshot()
}

// Cancel abandons every gesture in progress on this surface.
func (s *Surface) Cancel() {
	s.dispatcher.Cancel()
	s.snapshot()
}

// Last returns the most recent gesture, if any.
func (s *Surface) Last() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Feedback returns the surface's current render state.
func (s *Surface) Feedback() render.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()

	fb := render.Feedback{
		Label:   s.label,
		Rect:    s.rect,
		Pressed: s.pressed,
		Taps:    s.progress,
		Target:  s.target,
	}
	if s.hasLast {
		fb.Gesture = s.last.Type.Kind()
		fb.Detail = s.last.Detail()
	}
	return fb
}

func (s *Surface) emit(ev Event) {
	ev.Surface = s.id

	s.mu.Lock()
	s.last = ev
	s.hasLast = true
	s.mu.Unlock()

	for _, fn := range s.listeners {
		fn(ev)
	}
}

// snapshot copies tick-loop state that the renderer reads. The multi-tap with
// the most progress is shown.
func (s *Surface) snapshot() {
	progress, target := 0, 0
	for _, t := range s.taps {
		if t.Target() < 2 {
			continue
		}
		if target == 0 || t.Count() > progress {
			progress, target = t.Count(), t.Target()
		}
	}

	s.mu.Lock()
	s.pressed = s.dispatcher.InContact()
	s.progress = progress
	s.target = target
	s.mu.Unlock()
}
