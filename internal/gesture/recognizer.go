// Package gesture turns a stream of touch samples into discrete gestures.
//
// Every recognizer is a small state machine polled once per tick by a
// Dispatcher. Recognizers never block and never fail loudly: they either keep
// asking to be polled, or they stop, optionally after invoking their response.
package gesture

import (
	"math"

	"github.com/phinze/gesturedeck/internal/touch"
)

// MaxDeltaMovement is the default per-axis distance a contact may travel before
// it stops counting as stationary.
const MaxDeltaMovement = 10

// Recognizer is a polymorphic gesture state machine.
type Recognizer interface {
	// RecognitionLoop consumes one sample. locked reports that another
	// recognizer owns the current touch sequence, in which case the
	// recognizer must abandon its attempt. The return value reports whether
	// the recognizer wants to be polled on following ticks.
	RecognitionLoop(touch touch.State, locked bool) bool
}

// Claimer is implemented by recognizers that take ownership of a touch
// sequence once they recognize it.
type Claimer interface {
	// Claimed reports whether the last RecognitionLoop call claimed the
	// current touch sequence.
	Claimed() bool
}

// Response is invoked once per successful recognition. It must not call back
// into the recognizer that invokes it.
type Response func()

// exceeds reports whether a and b are more than max apart on either axis.
func exceeds(a, b touch.Point, max float64) bool {
	return math.Abs(a.X-b.X) > max || math.Abs(a.Y-b.Y) > max
}
