package touch

// Tracker converts level-triggered input (is the contact pressed, and where)
// into phased samples. It guarantees the Start -> Stay* -> End ordering even
// when the underlying input only reports button or finger state.
type Tracker struct {
	finger FingerID
	down   bool
	last   Point
}

// NewTracker creates a tracker that stamps samples with the given finger.
func NewTracker(finger FingerID) *Tracker {
	return &Tracker{finger: finger}
}

// Update records the current input level and returns the sample for this tick.
func (t *Tracker) Update(pressed bool, pos Point) State {
	switch {
	case pressed && !t.down:
		t.down = true
		t.last = pos
		return State{Position: pos, Phase: Start, Finger: t.finger}
	case pressed && t.down:
		t.last = pos
		return State{Position: pos, Phase: Stay, Finger: t.finger}
	case !pressed && t.down:
		t.down = false
		// Releases are reported where the contact was last seen; some inputs
		// stop reporting a position once the contact lifts.
		return State{Position: t.last, Phase: End, Finger: t.finger}
	default:
		return State{Position: pos, Phase: None, Finger: t.finger}
	}
}

// Down reports whether a contact is currently in progress.
func (t *Tracker) Down() bool {
	return t.down
}

// Release ends an in-progress contact, if any. ok is false when there was
// nothing to release.
func (t *Tracker) Release() (s State, ok bool) {
	if !t.down {
		return State{}, false
	}
	return t.Update(false, t.last), true
}
