package usbwatch

import (
	"context"
	"log"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	loadOnce sync.Once
	loadErr  error

	// active is the package-level reference to the running watch. Kept here
	// so the GC doesn't collect it while the callback is registered. Only one
	// watch is supported at a time.
	activeMu sync.Mutex
	active   *watch

	matchingCallback uintptr
)

type watch struct {
	ch     chan Arrival
	filter Filter
}

func deviceMatchingCallback(_ unsafe.Pointer, _ ioReturn, _ uintptr, device ioHIDDeviceRef) {
	activeMu.Lock()
	w := active
	activeMu.Unlock()
	if w == nil {
		return
	}

	vid, ok := intProperty(device, "VendorID")
	if !ok {
		return
	}
	pid, _ := intProperty(device, "ProductID")
	if !w.filter.Match(vid, pid) {
		return
	}

	log.Printf("usbwatch: device arrived (vendor 0x%04x product 0x%04x)", vid, pid)
	select {
	case w.ch <- Arrival{VendorID: vid, ProductID: pid}:
	default:
	}
}

// Watch returns a channel that receives an Arrival each time a USB HID device
// passing the filter appears on the bus. Uses IOKit's device matching callback
// for zero-CPU-cost waiting. The watcher stops when ctx is cancelled. If IOKit
// cannot be loaded the returned channel never fires.
func Watch(ctx context.Context, filter Filter) <-chan Arrival {
	ch := make(chan Arrival, 1)

	loadOnce.Do(func() {
		if loadErr = loadFrameworks(); loadErr == nil {
			matchingCallback = purego.NewCallback(deviceMatchingCallback)
		}
	})
	if loadErr != nil {
		log.Printf("usbwatch: IOKit unavailable: %v", loadErr)
		return ch
	}

	w := &watch{ch: ch, filter: filter}
	activeMu.Lock()
	active = w
	activeMu.Unlock()

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		mgr := ioHIDManagerCreate(kCFAllocatorDefault, kIOHIDOptionsTypeNone)
		if rv := ioHIDManagerOpen(mgr, kIOHIDOptionsTypeNone); rv != kIOReturnSuccess {
			log.Printf("usbwatch: failed to open IOHIDManager: 0x%08x", rv)
			return
		}

		// Match all HID devices; the filter runs in the callback.
		ioHIDManagerSetDeviceMatching(mgr, 0)

		rl := cfRunLoopGetCurrent()
		ioHIDManagerScheduleWithRunLoop(mgr, rl, **(**cfStringRef)(unsafe.Pointer(&kCFRunLoopDefaultMode)))
		ioHIDManagerRegisterDeviceMatchingCallback(mgr, matchingCallback, nil)

		// Stop the run loop when the context is cancelled.
		go func() {
			<-ctx.Done()
			cfRunLoopStop(rl)
		}()

		log.Println("usbwatch: listening for USB HID device arrivals")
		cfRunLoopRun()

		ioHIDManagerClose(mgr, kIOHIDOptionsTypeNone)
		cfRelease(cfTypeRef(mgr))

		activeMu.Lock()
		if active == w {
			active = nil
		}
		activeMu.Unlock()
		log.Println("usbwatch: stopped")
	}()

	return ch
}
