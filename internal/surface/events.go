package surface

import (
	"fmt"

	"github.com/phinze/gesturedeck/internal/gesture"
)

// EventType indicates which recognizer fired.
type EventType uint8

const (
	// EventTap is a completed tap or multi-tap.
	EventTap EventType = iota + 1
	// EventLongPress is a contact held in place.
	EventLongPress
	// EventPan is one step of a pan gesture.
	EventPan
)

// Kind returns the gesture kind name used in configuration and rendering.
func (t EventType) Kind() string {
	switch t {
	case EventTap:
		return "tap"
	case EventLongPress:
		return "long_press"
	case EventPan:
		return "pan"
	default:
		return ""
	}
}

// Event is a recognized gesture on a surface.
type Event struct {
	// Surface is the ID of the surface the gesture happened on.
	Surface string

	Type EventType

	// Taps is the tap count of a tap gesture.
	// Only meaningful for EventTap.
	Taps int

	// Pan is the pan step.
	// Only meaningful for EventPan.
	Pan gesture.PanEvent
}

// Detail is a short human-readable description for on-strip feedback.
func (e Event) Detail() string {
	switch e.Type {
	case EventTap:
		if e.Taps == 1 {
			return "tap"
		}
		return fmt.Sprintf("%dx tap", e.Taps)
	case EventLongPress:
		return "long press"
	case EventPan:
		tr := e.Pan.Translation()
		return fmt.Sprintf("pan %s %+.0f,%+.0f", e.Pan.Phase, tr.X, tr.Y)
	default:
		return ""
	}
}

func (e Event) String() string {
	return fmt.Sprintf("%s: %s", e.Surface, e.Detail())
}
