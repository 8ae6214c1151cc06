package generic

import (
	"sync"

	"github.com/bnema/hidgeneric/internal/hid"
	"github.com/bnema/hidgeneric/internal/sink"
)

// multiplierSlot remembers where a discovered resolution-multiplier field
// lives in the feature-report space, so it can be written back later.
type multiplierSlot struct {
	reportID   int
	fieldIndex int
}

// DeviceContext is the per-device state of the generic driver. It is created
// at probe, fully populated before the device starts, and read on every event
// and resume. Resume may run concurrently with event delivery on some
// transports, so the multipliers are guarded by the mutex.
type DeviceContext struct {
	dev  *hid.Device
	sink sink.EventSink

	mu               sync.Mutex
	wheelMultiplier  int32
	hwheelMultiplier int32

	// Up to two slots, one per scrolling axis. nil means empty.
	slots [2]*multiplierSlot
	// badMultipliers is set when the firmware describes more qualifying
	// multiplier fields than axes; high-resolution support is then
	// disabled for good.
	badMultipliers bool
}

// Device returns the device this context belongs to.
func (ctx *DeviceContext) Device() *hid.Device { return ctx.dev }

// Sink returns the event sink, or nil before input capabilities are
// configured.
func (ctx *DeviceContext) Sink() sink.EventSink { return ctx.sink }

// WheelMultiplier returns the discovered vertical wheel multiplier (1 when
// no multiplier field was found).
func (ctx *DeviceContext) WheelMultiplier() int32 {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.wheelMultiplier
}

// HWheelMultiplier returns the discovered horizontal wheel multiplier.
func (ctx *DeviceContext) HWheelMultiplier() int32 {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.hwheelMultiplier
}

// multipliers reads both values in one critical section.
func (ctx *DeviceContext) multipliers() (wheel, hwheel int32) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.wheelMultiplier, ctx.hwheelMultiplier
}
