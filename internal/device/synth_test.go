package device

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phinze/gesturedeck/internal/gesture"
	"github.com/phinze/gesturedeck/internal/touch"
)

func phases(states []touch.State) []touch.Phase {
	out := make([]touch.Phase, len(states))
	for i, s := range states {
		out[i] = s.Phase
	}
	return out
}

func TestSynthShortTap(t *testing.T) {
	got := DefaultSynth.Tap(TOUCH_STRIP_TOUCH_TYPE_SHORT, image.Pt(120, 40))

	assert.Equal(t, []touch.Phase{touch.Start, touch.End}, phases(got))
	for _, s := range got {
		assert.Equal(t, touch.Point{X: 120, Y: 40}, s.Position)
	}
}

func TestSynthLongTap(t *testing.T) {
	s := Synth{LongHoldTicks: 3}
	got := s.Tap(TOUCH_STRIP_TOUCH_TYPE_LONG, image.Pt(1, 2))

	assert.Equal(t, []touch.Phase{touch.Start, touch.Stay, touch.Stay, touch.Stay, touch.End}, phases(got))
}

func TestSynthSwipe(t *testing.T) {
	s := Synth{SwipeSteps: 4}
	got := s.Swipe(image.Pt(0, 50), image.Pt(100, 50))

	require.Len(t, got, 6)
	assert.Equal(t, touch.Start, got[0].Phase)
	assert.Equal(t, touch.Point{X: 25, Y: 50}, got[1].Position)
	assert.Equal(t, touch.Point{X: 100, Y: 50}, got[4].Position)
	assert.Equal(t, touch.End, got[5].Phase)

	// Zero steps still produce one intermediate sample.
	assert.Len(t, Synth{}.Swipe(image.Pt(0, 0), image.Pt(1, 1)), 3)
}

// The synthesized sequences must drive the recognizers the way real contacts
// would: a short tap is a tap, a long tap is a long press, a swipe is a pan.
func TestSynthDrivesRecognizers(t *testing.T) {
	var taps, presses int
	var pans []gesture.PanPhase

	d := gesture.NewDispatcher()
	d.Add(gesture.NewLongPress(func() { presses++ }, gesture.DefaultHoldTicks))
	d.Add(gesture.NewPan(func(ev gesture.PanEvent) { pans = append(pans, ev.Phase) }, gesture.MaxDeltaMovement))
	d.Add(gesture.NewTap(func() { taps++ }, 1))

	run := func(states []touch.State) {
		for _, s := range states {
			d.Tick(s)
		}
	}

	run(DefaultSynth.Tap(TOUCH_STRIP_TOUCH_TYPE_SHORT, image.Pt(10, 10)))
	assert.Equal(t, 1, taps)

	run(DefaultSynth.Tap(TOUCH_STRIP_TOUCH_TYPE_LONG, image.Pt(10, 10)))
	assert.Equal(t, 1, presses)
	assert.Equal(t, 1, taps, "a long tap is not also a tap")

	run(DefaultSynth.Swipe(image.Pt(10, 10), image.Pt(300, 10)))
	require.NotEmpty(t, pans)
	assert.Equal(t, gesture.PanBegan, pans[0])
	assert.Equal(t, gesture.PanEnded, pans[len(pans)-1])
	assert.Equal(t, 1, taps)
}

func TestSynthForHold(t *testing.T) {
	assert.Equal(t, DefaultSynth, DefaultSynth.ForHold(0))
	assert.Equal(t, DefaultSynth, DefaultSynth.ForHold(gesture.DefaultHoldTicks))

	raised := DefaultSynth.ForHold(60)
	assert.Equal(t, 61, raised.LongHoldTicks)
	assert.Equal(t, DefaultSynth.SwipeSteps, raised.SwipeSteps)
}

// A long press holding longer than the default long tap only fires once the
// synth is raised to match it.
func TestSynthLongTapReachesConfiguredHold(t *testing.T) {
	var presses int
	d := gesture.NewDispatcher()
	d.Add(gesture.NewLongPress(func() { presses++ }, 60))

	run := func(s Synth) {
		for _, st := range s.Tap(TOUCH_STRIP_TOUCH_TYPE_LONG, image.Pt(10, 10)) {
			d.Tick(st)
		}
	}

	run(DefaultSynth)
	assert.Equal(t, 0, presses)

	run(DefaultSynth.ForHold(60))
	assert.Equal(t, 1, presses)
}
