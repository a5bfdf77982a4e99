package device

import (
	"image"
	"log"

	"rafaelmartins.com/p/streamdeck"

	"github.com/phinze/gesturedeck/internal/touch"
)

// HardwareDevice wraps the real streamdeck.Device to implement the Device interface.
type HardwareDevice struct {
	dev     *streamdeck.Device
	touches *touch.Queue
	synth   Synth
}

// NewHardware creates a new hardware device wrapper and subscribes to its
// touch strip reports.
func NewHardware(dev *streamdeck.Device) *HardwareDevice {
	h := &HardwareDevice{
		dev:     dev,
		touches: touch.NewQueue(0),
		synth:   DefaultSynth,
	}
	if dev.GetTouchStripSupported() {
		h.subscribe()
	}
	return h
}

// SetSynth overrides how strip reports are expanded into samples.
func (h *HardwareDevice) SetSynth(s Synth) {
	h.synth = s
}

func (h *HardwareDevice) subscribe() {
	err := h.dev.AddTouchStripTouchHandler(func(d *streamdeck.Device, t streamdeck.TouchStripTouchType, p image.Point) error {
		h.push(h.synth.Tap(TouchStripTouchType(t), p))
		return nil
	})
	if err != nil {
		log.Printf("device: touch strip tap handler: %v", err)
	}

	err = h.dev.AddTouchStripSwipeHandler(func(d *streamdeck.Device, origin, destination image.Point) error {
		h.push(h.synth.Swipe(origin, destination))
		return nil
	})
	if err != nil {
		log.Printf("device: touch strip swipe handler: %v", err)
	}
}

func (h *HardwareDevice) push(states []touch.State) {
	if !h.touches.Push(states...) {
		log.Printf("device: touch queue full, dropped %d samples", len(states))
	}
}

// Open opens the device for use.
func (h *HardwareDevice) Open() error {
	return h.dev.Open()
}

// Close closes the device.
func (h *HardwareDevice) Close() error {
	return h.dev.Close()
}

// IsOpen returns whether the device is open.
func (h *HardwareDevice) IsOpen() bool {
	return h.dev.IsOpen()
}

// GetModelName returns the device model name.
func (h *HardwareDevice) GetModelName() string {
	return h.dev.GetModelName()
}

// GetTouchStripSupported returns whether the device has a touch strip.
func (h *HardwareDevice) GetTouchStripSupported() bool {
	return h.dev.GetTouchStripSupported()
}

// GetTouchStripImageRectangle returns the dimensions for the touch strip image.
func (h *HardwareDevice) GetTouchStripImageRectangle() (image.Rectangle, error) {
	return h.dev.GetTouchStripImageRectangle()
}

// SetBrightness sets the device brightness.
func (h *HardwareDevice) SetBrightness(perc byte) error {
	return h.dev.SetBrightness(perc)
}

// SetTouchStripImage sets the touch strip image.
func (h *HardwareDevice) SetTouchStripImage(img image.Image) error {
	return h.dev.SetTouchStripImage(img)
}

// Touches returns the synthesized strip samples.
func (h *HardwareDevice) Touches() touch.Source {
	return h.touches
}

// Listen starts the device event loop.
func (h *HardwareDevice) Listen(errCh chan error) error {
	return h.dev.Listen(errCh)
}
