package gesture

import "github.com/phinze/gesturedeck/internal/touch"

// Tap recognizes n consecutive taps that each stay within a movement bound.
type Tap struct {
	respond  Response
	target   int
	maxDelta float64

	x, y    float64
	counter int

	// down is set between a Start and its End; an End arriving without it is
	// a stray sample and is ignored.
	down  bool
	moved bool
	fired bool
}

// NewTap creates a recognizer that calls respond after target taps. A target
// below 1 is treated as a single tap.
func NewTap(respond Response, target int) *Tap {
	if target < 1 {
		target = 1
	}
	return &Tap{
		respond:  respond,
		target:   target,
		maxDelta: MaxDeltaMovement,
	}
}

// SetMaxDelta overrides the per-axis movement bound.
func (t *Tap) SetMaxDelta(d float64) {
	if d >= 0 {
		t.maxDelta = d
	}
}

// Target returns the number of taps required to fire.
func (t *Tap) Target() int {
	return t.target
}

// Count returns the number of taps completed in the current sequence.
func (t *Tap) Count() int {
	return t.counter
}

// Claimed reports whether the previous call fired the response.
func (t *Tap) Claimed() bool {
	return t.fired
}

// RecognitionLoop implements Recognizer.
func (t *Tap) RecognitionLoop(s touch.State, locked bool) bool {
	t.fired = false

	if locked {
		t.reset()
		return false
	}

	switch s.Phase {
	case touch.Start:
		t.x, t.y = s.Position.X, s.Position.Y
		t.down = true
		t.moved = false
		return true

	case touch.Stay:
		if t.down && t.outOfBounds(s.Position) {
			t.counter = 0
			t.moved = true
		}
		return true

	case touch.End:
		if !t.down {
			return true
		}
		t.down = false
		if t.moved || t.outOfBounds(s.Position) {
			t.counter = 0
			t.moved = false
			return false
		}

		t.counter++
		if t.counter < t.target {
			return true
		}
		t.counter = 0
		t.fired = true
		if t.respond != nil {
			t.respond()
		}
		return false
	}

	return true
}

func (t *Tap) outOfBounds(p touch.Point) bool {
	return exceeds(touch.Point{X: t.x, Y: t.y}, p, t.maxDelta)
}

func (t *Tap) reset() {
	t.counter = 0
	t.down = false
	t.moved = false
}
