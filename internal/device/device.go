// Package device defines the abstraction layer for Stream Deck hardware.
package device

import (
	"image"

	"github.com/phinze/gesturedeck/internal/touch"
)

// Device is the interface that abstracts a Stream Deck with a touch strip.
// Both the real hardware adapter and the emulator implement this interface.
type Device interface {
	// Lifecycle
	Open() error
	Close() error
	IsOpen() bool

	// Device info
	GetModelName() string
	GetTouchStripSupported() bool
	GetTouchStripImageRectangle() (image.Rectangle, error)

	// Display
	SetBrightness(perc byte) error
	SetTouchStripImage(img image.Image) error

	// Touches returns the strip's touch samples in strip coordinates, one per
	// recognition tick.
	Touches() touch.Source

	// Event loop
	Listen(errCh chan error) error
}

// TouchStripTouchType represents the type of touch the hardware reports.
type TouchStripTouchType byte

// Touch strip touch types
const (
	TOUCH_STRIP_TOUCH_TYPE_SHORT TouchStripTouchType = iota + 1
	TOUCH_STRIP_TOUCH_TYPE_LONG
)
