//go:build !darwin

package usbwatch

import "context"

// Watch is only implemented on macOS. Elsewhere the returned channel never
// fires and callers fall back to polling.
func Watch(ctx context.Context, filter Filter) <-chan Arrival {
	return make(chan Arrival)
}
