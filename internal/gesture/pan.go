package gesture

import "github.com/phinze/gesturedeck/internal/touch"

// PanPhase is the stage of a pan gesture reported to its handler.
type PanPhase uint8

const (
	PanBegan PanPhase = iota + 1
	PanChanged
	PanEnded
	// PanCancelled is reported when another recognizer takes the touch
	// sequence away from a pan in progress.
	PanCancelled
)

func (p PanPhase) String() string {
	switch p {
	case PanBegan:
		return "began"
	case PanChanged:
		return "changed"
	case PanEnded:
		return "ended"
	case PanCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PanEvent describes one step of a pan.
type PanEvent struct {
	Phase PanPhase

	// Start is where the contact went down.
	Start touch.Point

	// Position is the current contact position.
	Position touch.Point

	// Delta is the movement since the previous event.
	Delta touch.Point
}

// Translation returns the total movement since the contact went down.
func (e PanEvent) Translation() touch.Point {
	return e.Position.Sub(e.Start)
}

// PanHandler receives pan events. Like Response it must not re-enter the
// recognizer.
type PanHandler func(PanEvent)

// Pan recognizes a dragging contact. It begins once the contact moves further
// than its threshold on either axis and owns the touch sequence from then on.
type Pan struct {
	handle    PanHandler
	threshold float64

	start  touch.Point
	last   touch.Point
	down   bool
	active bool
}

// NewPan creates a pan recognizer. A negative threshold uses MaxDeltaMovement.
func NewPan(handle PanHandler, threshold float64) *Pan {
	if threshold < 0 {
		threshold = MaxDeltaMovement
	}
	return &Pan{handle: handle, threshold: threshold}
}

// Claimed reports whether a pan is in progress.
func (p *Pan) Claimed() bool {
	return p.active
}

// RecognitionLoop implements Recognizer.
func (p *Pan) RecognitionLoop(s touch.State, locked bool) bool {
	if locked {
		if p.active {
			p.emit(PanCancelled, p.last)
		}
		p.reset()
		return false
	}

	switch s.Phase {
	case touch.Start:
		p.start = s.Position
		p.last = s.Position
		p.down = true
		p.active = false
		return true

	case touch.Stay:
		if !p.down {
			return true
		}
		if !p.active {
			if !exceeds(p.start, s.Position, p.threshold) {
				return true
			}
			p.active = true
			p.emit(PanBegan, s.Position)
			return true
		}
		if s.Position != p.last {
			p.emit(PanChanged, s.Position)
		}
		return true

	case touch.End:
		if !p.down {
			return true
		}
		if p.active {
			p.emit(PanEnded, s.Position)
		}
		p.reset()
		return false
	}

	return true
}

func (p *Pan) emit(phase PanPhase, pos touch.Point) {
	ev := PanEvent{
		Phase:    phase,
		Start:    p.start,
		Position: pos,
		Delta:    pos.Sub(p.last),
	}
	p.last = pos
	if p.handle != nil {
		p.handle(ev)
	}
}

func (p *Pan) reset() {
	p.down = false
	p.active = false
}
