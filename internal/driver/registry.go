// Package driver keeps the set of registered HID drivers and answers
// "does anyone else want this device" queries for fallback matching.
package driver

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/hidgeneric/internal/hid"
)

// ErrAlreadyRegistered is returned when a driver name is registered twice.
var ErrAlreadyRegistered = errors.New("driver already registered")

// Driver is the registry-facing surface of a HID driver.
type Driver interface {
	Name() string
	// Match reports whether this driver wants the device.
	Match(dev *hid.Device) bool
}

// Registry holds registered drivers. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	drivers []Driver
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a driver. Names must be unique.
func (r *Registry) Register(d Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.drivers {
		if existing.Name() == d.Name() {
			return fmt.Errorf("%w: %s", ErrAlreadyRegistered, d.Name())
		}
	}
	r.drivers = append(r.drivers, d)
	return nil
}

// Unregister removes the driver with the given name, if present.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, d := range r.drivers {
		if d.Name() == name {
			r.drivers = append(r.drivers[:i], r.drivers[i+1:]...)
			return
		}
	}
}

// Drivers returns a snapshot of the registered drivers.
func (r *Registry) Drivers() []Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Driver, len(r.drivers))
	copy(out, r.drivers)
	return out
}

// AnyOtherMatch reports whether any registered driver other than except
// claims the device. This is how a fallback driver yields to more specific
// ones.
func (r *Registry) AnyOtherMatch(dev *hid.Device, except Driver) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.drivers {
		if d == except {
			continue
		}
		if d.Match(dev) {
			return true
		}
	}
	return false
}
