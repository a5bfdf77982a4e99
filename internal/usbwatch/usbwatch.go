// Package usbwatch signals when a matching USB HID device is plugged in, so
// the daemon can stop polling and reconnect right away.
package usbwatch

// ElgatoVendorID is the USB vendor ID of every Stream Deck model.
const ElgatoVendorID uint16 = 0x0fd9

// Arrival describes a matching device that appeared on the bus.
type Arrival struct {
	VendorID  uint16
	ProductID uint16
}

// Filter selects which arrivals are reported.
type Filter struct {
	VendorID uint16

	// ProductIDs restricts matches to these products. Empty matches every
	// product of the vendor.
	ProductIDs []uint16
}

// Match reports whether a device with the given IDs passes the filter.
func (f Filter) Match(vendorID, productID uint16) bool {
	if vendorID != f.VendorID {
		return false
	}
	if len(f.ProductIDs) == 0 {
		return true
	}
	for _, p := range f.ProductIDs {
		if p == productID {
			return true
		}
	}
	return false
}
