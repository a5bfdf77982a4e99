// Package touch defines the per-tick touch samples that feed gesture recognition.
package touch

import "fmt"

// Phase is the lifecycle stage of a single contact.
type Phase uint8

const (
	// None means no contact is being reported this tick.
	None Phase = iota
	// Start is the first sample of a contact (finger down).
	Start
	// Stay is reported while the contact is held, moving or not.
	Stay
	// End is the last sample of a contact (finger up).
	End
)

func (p Phase) String() string {
	switch p {
	case None:
		return "none"
	case Start:
		return "start"
	case Stay:
		return "stay"
	case End:
		return "end"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// FingerID identifies a contact for multi-touch sources. Single-touch sources use 0.
type FingerID int

// Point is a position in surface coordinates.
type Point struct {
	X, Y float64
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// State is a single sample of touch input for one recognition tick.
type State struct {
	Position Point
	Phase    Phase
	Finger   FingerID
}

func (s State) String() string {
	return fmt.Sprintf("%s(%g,%g)#%d", s.Phase, s.Position.X, s.Position.Y, s.Finger)
}

// Source supplies exactly one sample per recognition tick.
type Source interface {
	Sample() State
}
