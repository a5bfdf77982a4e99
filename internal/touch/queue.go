package touch

import "sync"

// Queue is a Source fed by asynchronous producers such as device callbacks or a
// GUI loop. Each Sample call pops one sample; an empty queue yields a None sample
// at the last known position.
type Queue struct {
	mu      sync.Mutex
	pending []State
	last    State
	limit   int

	// open holds fingers whose Start was queued and whose End was not yet.
	// dropped holds fingers whose Start was discarded; their Stay and End
	// samples are discarded until the next Start.
	open    map[FingerID]bool
	dropped map[FingerID]bool
}

// DefaultQueueLimit bounds how many samples a Queue buffers before dropping.
const DefaultQueueLimit = 256

// NewQueue creates a queue holding at most limit samples. A non-positive limit
// uses DefaultQueueLimit.
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}
	return &Queue{
		limit:   limit,
		open:    make(map[FingerID]bool),
		dropped: make(map[FingerID]bool),
	}
}

// Push appends samples and reports whether all of them were kept.
//
// A sequence that does not fit is dropped as a whole, so the queue never
// emits Stay or End without the Start of the same contact. The exceptions
// keep contacts consistent across calls: once a Start is dropped, the rest of
// that contact is dropped too, and an End closing a contact whose Start was
// queued is always kept, even past the limit.
func (q *Queue) Push(states ...State) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := make([]State, 0, len(states))
	for _, s := range states {
		switch {
		case s.Phase == Start:
			delete(q.dropped, s.Finger)
		case q.dropped[s.Finger] && (s.Phase == Stay || s.Phase == End):
			if s.Phase == End {
				delete(q.dropped, s.Finger)
			}
			continue
		}
		kept = append(kept, s)
	}
	whole := len(kept) == len(states)

	if len(q.pending)+len(kept) <= q.limit {
		for _, s := range kept {
			q.track(s)
		}
		q.pending = append(q.pending, kept...)
		return whole
	}

	for _, s := range kept {
		switch {
		case s.Phase == Start:
			q.dropped[s.Finger] = true
		case s.Phase == End && q.dropped[s.Finger]:
			delete(q.dropped, s.Finger)
		case s.Phase == End && q.open[s.Finger]:
			q.track(s)
			q.pending = append(q.pending, s)
			continue
		}
		whole = false
	}
	return whole
}

func (q *Queue) track(s State) {
	switch s.Phase {
	case Start:
		q.open[s.Finger] = true
	case End:
		delete(q.open, s.Finger)
	}
}

// Sample implements Source.
func (q *Queue) Sample() State {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return State{Position: q.last.Position, Phase: None, Finger: q.last.Finger}
	}
	s := q.pending[0]
	q.pending = q.pending[1:]
	q.last = s
	return s
}

// Len returns the number of buffered samples.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
