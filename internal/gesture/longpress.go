package gesture

import "github.com/phinze/gesturedeck/internal/touch"

// DefaultHoldTicks is how many Stay ticks a long press needs by default,
// half a second at 60 ticks per second.
const DefaultHoldTicks = 30

// LongPress recognizes a contact held in place for a number of ticks. It fires
// while the contact is still down and claims the touch sequence.
type LongPress struct {
	respond  Response
	hold     int
	maxDelta float64

	origin touch.Point
	ticks  int
	down   bool
	fired  bool
}

// NewLongPress creates a recognizer that calls respond once a contact has been
// held for hold ticks.
func NewLongPress(respond Response, hold int) *LongPress {
	if hold < 1 {
		hold = DefaultHoldTicks
	}
	return &LongPress{
		respond:  respond,
		hold:     hold,
		maxDelta: MaxDeltaMovement,
	}
}

// SetMaxDelta overrides the per-axis movement bound.
func (l *LongPress) SetMaxDelta(d float64) {
	if d >= 0 {
		l.maxDelta = d
	}
}

// Claimed reports whether the previous call fired the response.
func (l *LongPress) Claimed() bool {
	return l.fired
}

// RecognitionLoop implements Recognizer.
func (l *LongPress) RecognitionLoop(s touch.State, locked bool) bool {
	l.fired = false

	if locked {
		l.reset()
		return false
	}

	switch s.Phase {
	case touch.Start:
		l.origin = s.Position
		l.ticks = 0
		l.down = true
		return true

	case touch.Stay:
		if !l.down {
			return true
		}
		if exceeds(l.origin, s.Position, l.maxDelta) {
			l.reset()
			return false
		}
		l.ticks++
		if l.ticks < l.hold {
			return true
		}
		l.reset()
		l.fired = true
		if l.respond != nil {
			l.respond()
		}
		return false

	case touch.End:
		if !l.down {
			return true
		}
		// Released before the hold elapsed.
		l.reset()
		return false
	}

	return true
}

func (l *LongPress) reset() {
	l.ticks = 0
	l.down = false
}
