package surface

import (
	"context"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phinze/gesturedeck/internal/action"
	"github.com/phinze/gesturedeck/internal/config"
	"github.com/phinze/gesturedeck/internal/gesture"
	"github.com/phinze/gesturedeck/internal/touch"
)

func sample(phase touch.Phase, x, y float64) touch.State {
	return touch.State{Position: touch.Point{X: x, Y: y}, Phase: phase}
}

func TestContainsAndLocal(t *testing.T) {
	s := New("right", "Right", image.Rect(400, 0, 800, 100))

	assert.True(t, s.Contains(touch.Point{X: 400, Y: 0}))
	assert.True(t, s.Contains(touch.Point{X: 799.5, Y: 99}))
	assert.False(t, s.Contains(touch.Point{X: 800, Y: 50}))
	assert.False(t, s.Contains(touch.Point{X: 399, Y: 50}))

	local := s.Local(sample(touch.Stay, 450, 20))
	assert.Equal(t, touch.Point{X: 50, Y: 20}, local.Position)
	assert.Equal(t, touch.Stay, local.Phase)
}

func TestTapEventsAndFeedback(t *testing.T) {
	s := New("left", "Left", image.Rect(0, 0, 400, 100))

	var events []Event
	s.OnGesture(func(ev Event) { events = append(events, ev) })

	responded := 0
	s.AddTap(2, 0, func() { responded++ })

	s.Tick(sample(touch.Start, 10, 10))
	fb := s.Feedback()
	assert.True(t, fb.Pressed)
	assert.Equal(t, 2, fb.Target)

	s.Tick(sample(touch.End, 10, 10))
	fb = s.Feedback()
	assert.False(t, fb.Pressed)
	assert.Equal(t, 1, fb.Taps)
	assert.Empty(t, fb.Gesture)

	s.Tick(sample(touch.Start, 11, 9))
	s.Tick(sample(touch.End, 11, 9))

	require.Len(t, events, 1)
	assert.Equal(t, "left", events[0].Surface)
	assert.Equal(t, EventTap, events[0].Type)
	assert.Equal(t, 2, events[0].Taps)
	assert.Equal(t, 1, responded)

	fb = s.Feedback()
	assert.Equal(t, "tap", fb.Gesture)
	assert.Equal(t, "2x tap", fb.Detail)
	assert.Equal(t, 0, fb.Taps)

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "left: 2x tap", last.String())
}

func TestPanEndRunsResponse(t *testing.T) {
	s := New("p", "", image.Rect(0, 0, 100, 100))
	ended := 0
	s.AddPan(0, func() { ended++ })

	var phases []gesture.PanPhase
	s.OnGesture(func(ev Event) { phases = append(phases, ev.Pan.Phase) })

	s.Tick(sample(touch.Start, 0, 0))
	s.Tick(sample(touch.Stay, 30, 0))
	s.Tick(sample(touch.End, 40, 0))

	assert.Equal(t, []gesture.PanPhase{gesture.PanBegan, gesture.PanEnded}, phases)
	assert.Equal(t, 1, ended)

	last, _ := s.Last()
	assert.Equal(t, "pan ended +40,+0", last.Detail())
}

func TestLongPressEvent(t *testing.T) {
	s := New("h", "", image.Rect(0, 0, 100, 100))
	s.AddLongPress(2, 0, nil)

	s.Tick(sample(touch.Start, 0, 0))
	s.Tick(sample(touch.Stay, 0, 0))
	s.Tick(sample(touch.Stay, 0, 0))

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, EventLongPress, last.Type)
	assert.Equal(t, "long_press", s.Feedback().Gesture)
}

func TestCancelClearsProgress(t *testing.T) {
	s := New("c", "", image.Rect(0, 0, 100, 100))
	s.AddTap(3, 0, nil)

	s.Tick(sample(touch.Start, 0, 0))
	s.Tick(sample(touch.End, 0, 0))
	require.Equal(t, 1, s.Feedback().Taps)

	s.Cancel()
	assert.Equal(t, 0, s.Feedback().Taps)
}

func TestBuild(t *testing.T) {
	var mu sync.Mutex
	var ran []string
	runner := action.NewRunner(context.Background())
	runner.OnResult = func(r action.Result) {
		mu.Lock()
		defer mu.Unlock()
		ran = append(ran, r.Output)
	}

	s, err := Build(config.SurfaceConfig{
		Label: "Built",
		Rect:  [4]int{0, 0, 200, 100},
		Gestures: []config.GestureConfig{
			{Type: config.GestureTap, Taps: 1, Command: []string{"echo", "tapped"}},
			{Type: config.GestureLongPress, HoldTicks: 5},
			{Type: config.GesturePan, MaxDelta: 20},
		},
	}, runner)
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID(), "missing IDs are generated")
	assert.Equal(t, 3, s.Dispatcher().Len())

	s.Tick(sample(touch.Start, 5, 5))
	s.Tick(sample(touch.End, 5, 5))
	runner.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"tapped"}, ran)
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(config.SurfaceConfig{ID: "x"}, nil)
	assert.ErrorContains(t, err, "empty rect")

	_, err = Build(config.SurfaceConfig{
		ID:       "x",
		Rect:     [4]int{0, 0, 1, 1},
		Gestures: []config.GestureConfig{{Type: "swirl"}},
	}, nil)
	assert.ErrorContains(t, err, `unknown type "swirl"`)
}

func TestBuildAll(t *testing.T) {
	surfaces, err := BuildAll(config.Default().Surfaces, nil)
	require.NoError(t, err)
	require.Len(t, surfaces, 2)
	assert.Equal(t, "left", surfaces[0].ID())
	assert.Equal(t, "right", surfaces[1].ID())
}

func TestDefaultLeftSurfaceDoubleTapFiresBoth(t *testing.T) {
	surfaces, err := BuildAll(config.Default().Surfaces, nil)
	require.NoError(t, err)
	left := surfaces[0]

	var got []string
	left.OnGesture(func(ev Event) { got = append(got, ev.Detail()) })

	left.Tick(sample(touch.Start, 10, 10))
	left.Tick(sample(touch.End, 10, 10))
	left.Tick(sample(touch.None, 10, 10))
	left.Tick(sample(touch.Start, 10, 10))
	left.Tick(sample(touch.End, 10, 10))

	assert.Equal(t, []string{"tap", "2x tap"}, got)
}
