package gesture

import "github.com/phinze/gesturedeck/internal/touch"

const noOwner = -1

type entry struct {
	r      Recognizer
	active bool
}

// Dispatcher feeds one touch sample per tick to a set of recognizers and
// resolves which of them owns the touch sequence.
//
// Registration order is priority order. Every recognizer is polled with the
// same sample; the first one to claim the sequence becomes its owner and all
// others are polled with locked=true, both later in that tick and for the rest
// of the sequence. Ownership clears when the sequence ends.
//
// A Dispatcher is not safe for concurrent use; it is driven from a single tick
// loop.
type Dispatcher struct {
	entries []*entry
	owner   int

	// The finger that started the current sequence; samples from other
	// fingers are ignored until it ends.
	finger    touch.FingerID
	inContact bool
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{owner: noOwner}
}

// Add registers a recognizer behind the ones already registered.
func (d *Dispatcher) Add(r Recognizer) {
	// New recognizers wait for the next Start like everyone else.
	d.entries = append(d.entries, &entry{r: r, active: !d.inContact})
}

// Len returns the number of registered recognizers.
func (d *Dispatcher) Len() int {
	return len(d.entries)
}

// Recognizers returns the registered recognizers in priority order.
func (d *Dispatcher) Recognizers() []Recognizer {
	out := make([]Recognizer, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.r
	}
	return out
}

// Polling reports whether the recognizer at index i is still being polled.
func (d *Dispatcher) Polling(i int) bool {
	if i < 0 || i >= len(d.entries) {
		return false
	}
	return d.entries[i].active
}

// Owner returns the recognizer that claimed the current touch sequence.
func (d *Dispatcher) Owner() (Recognizer, bool) {
	if d.owner == noOwner {
		return nil, false
	}
	return d.entries[d.owner].r, true
}

// InContact reports whether a touch sequence is in progress.
func (d *Dispatcher) InContact() bool {
	return d.inContact
}

// Tick runs one recognition tick.
func (d *Dispatcher) Tick(s touch.State) {
	switch s.Phase {
	case touch.Start:
		if d.inContact && s.Finger != d.finger {
			return
		}
		d.inContact = true
		d.finger = s.Finger
		d.owner = noOwner
		for _, e := range d.entries {
			e.active = true
		}
	case touch.Stay, touch.End:
		if !d.inContact || s.Finger != d.finger {
			return
		}
	}

	for i, e := range d.entries {
		if !e.active {
			continue
		}
		locked := d.owner != noOwner && d.owner != i
		e.active = e.r.RecognitionLoop(s, locked)

		if d.owner == noOwner {
			if c, ok := e.r.(Claimer); ok && c.Claimed() {
				d.owner = i
			}
		}
	}

	if s.Phase == touch.End {
		d.inContact = false
		d.owner = noOwner
	}
}

// Cancel abandons the current attempt of every recognizer. Recognizers are
// polled once with locked=true and then skipped until the next Start.
func (d *Dispatcher) Cancel() {
	cancel := touch.State{Phase: touch.None, Finger: d.finger}
	for _, e := range d.entries {
		if !e.active {
			continue
		}
		e.r.RecognitionLoop(cancel, true)
		e.active = false
	}
	d.owner = noOwner
	d.inContact = false
}
