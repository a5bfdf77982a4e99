package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phinze/gesturedeck/internal/touch"
)

// probe records every call it receives and claims on demand.
type probe struct {
	calls   []bool
	claimOn touch.Phase
	claimed bool
}

func (p *probe) RecognitionLoop(s touch.State, locked bool) bool {
	p.calls = append(p.calls, locked)
	p.claimed = !locked && p.claimOn != touch.None && s.Phase == p.claimOn
	return !locked
}

func (p *probe) Claimed() bool { return p.claimed }

func feed(d *Dispatcher, states ...touch.State) {
	for _, s := range states {
		d.Tick(s)
	}
}

func TestDispatcherPollsAllWithSameSample(t *testing.T) {
	d := NewDispatcher()
	a, b := &probe{}, &probe{}
	d.Add(a)
	d.Add(b)

	feed(d, start(0, 0), stay(1, 1), end(1, 1))

	assert.Equal(t, []bool{false, false, false}, a.calls)
	assert.Equal(t, []bool{false, false, false}, b.calls)
	assert.False(t, d.InContact())
}

func TestDispatcherLockThreadsWithinTick(t *testing.T) {
	d := NewDispatcher()
	first := &probe{}
	winner := &probe{claimOn: touch.Stay}
	after := &probe{}
	d.Add(first)
	d.Add(winner)
	d.Add(after)

	feed(d, start(0, 0), stay(0, 0))

	owner, ok := d.Owner()
	require.True(t, ok)
	assert.Same(t, winner, owner)

	// Recognizers polled before the claim saw locked=false this tick, the
	// ones after it saw locked=true.
	assert.Equal(t, []bool{false, false}, first.calls)
	assert.Equal(t, []bool{false, true}, after.calls)
	assert.False(t, d.Polling(2))

	// For the rest of the sequence every non-owner is locked.
	first.calls, winner.calls = nil, nil
	feed(d, stay(0, 0))
	assert.Equal(t, []bool{true}, first.calls)
	assert.Equal(t, []bool{false}, winner.calls)

	feed(d, end(0, 0))
	_, ok = d.Owner()
	assert.False(t, ok, "ownership clears when the sequence ends")
}

func TestDispatcherStartReactivates(t *testing.T) {
	d := NewDispatcher()
	winner := &probe{claimOn: touch.Start}
	loser := &probe{}
	d.Add(winner)
	d.Add(loser)

	feed(d, start(0, 0), end(0, 0))
	require.False(t, d.Polling(1))

	loser.calls = nil
	winner.claimOn = touch.None
	feed(d, start(0, 0))
	assert.True(t, d.Polling(1))
	assert.Equal(t, []bool{false}, loser.calls)
}

func TestDispatcherIgnoresOtherFingers(t *testing.T) {
	d := NewDispatcher()
	p := &probe{}
	d.Add(p)

	second := start(50, 50)
	second.Finger = 1
	other := end(50, 50)
	other.Finger = 1

	feed(d, start(0, 0), second, other, end(0, 0))
	assert.Len(t, p.calls, 2)

	// Stray samples outside any sequence never reach recognizers.
	feed(d, stay(0, 0), end(0, 0))
	assert.Len(t, p.calls, 2)
}

func TestDispatcherSingleTapBeatsDoubleTap(t *testing.T) {
	var single, double counter
	d := NewDispatcher()
	d.Add(NewTap(single.inc, 1))
	d.Add(NewTap(double.inc, 2))

	feed(d, start(0, 0), end(0, 0), start(0, 0), end(0, 0))

	assert.Equal(t, 2, single.n)
	assert.Equal(t, 0, double.n, "the higher priority single tap locks the double tap out")
}

func TestDispatcherDoubleTapFirst(t *testing.T) {
	var single, double counter
	d := NewDispatcher()
	d.Add(NewTap(double.inc, 2))
	d.Add(NewTap(single.inc, 1))

	feed(d, start(0, 0), end(0, 0), idle(), start(0, 0), end(0, 0))

	assert.Equal(t, 1, double.n)
	// The first tap fires the single tap; the second is locked by the double tap.
	assert.Equal(t, 1, single.n)
}

func TestDispatcherPanLocksTap(t *testing.T) {
	var taps counter
	var pans panLog
	d := NewDispatcher()
	d.Add(NewPan(pans.handle, 10))
	d.Add(NewTap(taps.inc, 1))

	feed(d, start(0, 0), stay(20, 0), stay(5, 0), end(0, 0))

	assert.Equal(t, 0, taps.n)
	assert.Equal(t, []PanPhase{PanBegan, PanChanged, PanEnded}, pans.phases())
}

func TestDispatcherLongPressLocksPan(t *testing.T) {
	var presses counter
	var pans panLog
	d := NewDispatcher()
	d.Add(NewLongPress(presses.inc, 2))
	d.Add(NewPan(pans.handle, 10))

	feed(d, start(0, 0), stay(0, 0), stay(0, 0), stay(40, 0), end(40, 0))

	assert.Equal(t, 1, presses.n)
	assert.Empty(t, pans.events, "pan never began before it was locked")
}

func TestDispatcherCancel(t *testing.T) {
	var fired counter
	tap := NewTap(fired.inc, 2)
	d := NewDispatcher()
	d.Add(tap)

	feed(d, start(0, 0), end(0, 0))
	require.Equal(t, 1, tap.Count())

	d.Cancel()
	assert.Equal(t, 0, tap.Count())
	assert.False(t, d.Polling(0))

	feed(d, start(0, 0), end(0, 0))
	assert.Equal(t, 0, fired.n, "the cancelled tap does not count toward the double tap")
	assert.Equal(t, 1, tap.Count())
}

func TestDispatcherAddDuringContact(t *testing.T) {
	d := NewDispatcher()
	feed(d, start(0, 0))

	late := &probe{}
	d.Add(late)
	feed(d, stay(0, 0), end(0, 0))
	assert.Empty(t, late.calls)

	feed(d, start(0, 0))
	assert.Len(t, late.calls, 1)
	assert.Equal(t, 1, d.Len())
	assert.Len(t, d.Recognizers(), 1)
}
