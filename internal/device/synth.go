package device

import (
	"image"

	"github.com/phinze/gesturedeck/internal/touch"
)

// The Stream Deck firmware classifies strip contacts itself and only reports
// finished taps, long taps and swipes. These helpers expand each report back
// into a phased sample sequence so the gesture recognizers see the same kind
// of input a raw touchscreen would produce.

// Synth expands hardware touch reports into sample sequences.
type Synth struct {
	// LongHoldTicks is how many Stay samples a long tap produces. It must reach
	// the hold of every configured long press; see ForHold.
	LongHoldTicks int

	// SwipeSteps is how many intermediate Stay samples a swipe produces.
	SwipeSteps int
}

// DefaultSynth matches the recognizer defaults at 60 ticks per second.
var DefaultSynth = Synth{LongHoldTicks: 40, SwipeSteps: 8}

// ForHold returns s with LongHoldTicks raised so a long tap outlasts a long
// press holding for hold ticks.
func (s Synth) ForHold(hold int) Synth {
	if s.LongHoldTicks <= hold {
		s.LongHoldTicks = hold + 1
	}
	return s
}

// Tap expands a short or long tap at p.
func (s Synth) Tap(t TouchStripTouchType, p image.Point) []touch.State {
	pos := toPoint(p)
	out := []touch.State{{Position: pos, Phase: touch.Start}}
	if t == TOUCH_STRIP_TOUCH_TYPE_LONG {
		for i := 0; i < s.LongHoldTicks; i++ {
			out = append(out, touch.State{Position: pos, Phase: touch.Stay})
		}
	}
	return append(out, touch.State{Position: pos, Phase: touch.End})
}

// Swipe expands a swipe from origin to destination, interpolating linearly.
func (s Synth) Swipe(origin, destination image.Point) []touch.State {
	from, to := toPoint(origin), toPoint(destination)
	steps := s.SwipeSteps
	if steps < 1 {
		steps = 1
	}

	out := []touch.State{{Position: from, Phase: touch.Start}}
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		out = append(out, touch.State{
			Position: touch.Point{
				X: from.X + (to.X-from.X)*f,
				Y: from.Y + (to.Y-from.Y)*f,
			},
			Phase: touch.Stay,
		})
	}
	return append(out, touch.State{Position: to, Phase: touch.End})
}

func toPoint(p image.Point) touch.Point {
	return touch.Point{X: float64(p.X), Y: float64(p.Y)}
}
