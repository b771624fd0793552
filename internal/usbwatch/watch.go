// Package usbwatch signals when a USB HID device from a given vendor is
// plugged in, so a process waiting for its panel can retry at once instead of
// on a timer.
package usbwatch

import "time"

// ElgatoVendorID is the USB vendor ID of Stream Deck panels.
const ElgatoVendorID uint16 = 0x0fd9

// FallbackInterval is how often the watcher fires on platforms without
// arrival notifications.
const FallbackInterval = 2 * time.Second

// notify performs a non-blocking send; one pending signal is enough.
func notify(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
