// Package generic implements the fallback HID driver: it claims any device no
// specialized driver wants, discovers resolution-multiplier controls for the
// scroll wheels, programs them for maximum resolution and translates wheel
// rotation into legacy plus high-resolution scroll events.
package generic

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/bnema/hidgeneric/internal/driver"
	"github.com/bnema/hidgeneric/internal/hid"
	"github.com/bnema/hidgeneric/internal/logger"
	"github.com/bnema/hidgeneric/internal/sink"
)

// DriverName is the name the driver registers under.
const DriverName = "hid-generic"

// ErrStartFailed wraps transport start errors during probe.
var ErrStartFailed = errors.New("failed to start device")

// GrabbedUsages maps the usages this driver claims for translation to the
// legacy event code they produce. Upstream routing can prefer this driver for
// events carrying these usages.
var GrabbedUsages = map[uint32]sink.Code{
	hid.UsageWheel: sink.RelWheel,
	hid.UsageACPan: sink.RelHWheel,
}

// Driver is the generic fallback driver. One instance serves all devices;
// per-device state lives in DeviceContext.
type Driver struct {
	registry *driver.Registry
	force    bool
	log      *log.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithForce makes the driver claim devices even when another driver wants
// them or the device is flagged for a specialized driver.
func WithForce(force bool) Option {
	return func(d *Driver) { d.force = force }
}

// New creates the generic driver. The registry is consulted at match time to
// yield to more specific drivers; it may be nil, in which case nothing else
// can claim a device.
func New(registry *driver.Registry, opts ...Option) *Driver {
	d := &Driver{
		registry: registry,
		log:      logger.Logger.With("driver", DriverName),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Name() string { return DriverName }

// Match implements driver.Driver using the configured force flag.
func (d *Driver) Match(dev *hid.Device) bool {
	return d.MatchDevice(dev, d.force)
}

// MatchDevice decides whether the generic driver should own the device.
// Forced handling always wins; otherwise the device must neither demand a
// specialized driver nor be claimed by any other registered driver.
func (d *Driver) MatchDevice(dev *hid.Device, ignoreSpecialDriver bool) bool {
	if ignoreSpecialDriver {
		return true
	}

	if dev.Quirks&hid.QuirkHaveSpecialDriver != 0 {
		return false
	}

	// If any other driver wants the device, leave the device to this
	// other driver.
	if d.registry != nil && d.registry.AnyOtherMatch(dev, d) {
		return false
	}

	return true
}

// Probe attaches the driver to an already-parsed device: it allocates the
// context, discovers resolution multipliers, starts the device and programs
// the multipliers. A start failure is fatal to the attachment; multiplier
// programming failures are not.
func (d *Driver) Probe(dev *hid.Device) (*DeviceContext, error) {
	if dev.Transport() == nil {
		return nil, fmt.Errorf("%s: %w", dev.Name, hid.ErrNoTransport)
	}

	ctx := &DeviceContext{
		dev:              dev,
		wheelMultiplier:  1,
		hwheelMultiplier: 1,
	}

	dev.Quirks |= hid.QuirkInputPerApp

	d.fetchResolutionMultipliers(ctx)

	if err := dev.Transport().Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStartFailed, dev.Name, err)
	}

	d.setResolutionMultipliers(ctx)

	return ctx, nil
}

// Remove detaches the driver from the device. There is no teardown beyond
// stopping event delivery and releasing the sink.
func (d *Driver) Remove(ctx *DeviceContext) {
	if t := ctx.dev.Transport(); t != nil {
		t.Stop()
	}
	ctx.sink = nil
}

// Resume re-programs the resolution multipliers after a power cycle; the
// device forgets the feature-report values across suspend.
func (d *Driver) Resume(ctx *DeviceContext) error {
	d.setResolutionMultipliers(ctx)
	return nil
}

// InputConfigured records the event sink and advertises the high-resolution
// event kinds, but only for axes where a multiplier was actually discovered.
func (d *Driver) InputConfigured(ctx *DeviceContext, s sink.EventSink) {
	ctx.sink = s

	wheel, hwheel := ctx.multipliers()
	if wheel > 1 {
		s.DeclareRel(sink.RelWheelHiRes)
	}
	if hwheel > 1 {
		s.DeclareRel(sink.RelHWheelHiRes)
	}
}

// usageInCollection reports whether any usage of any field in the device's
// input reports carries both the given usage id and collection index.
func usageInCollection(dev *hid.Device, usageID uint32, collection int) bool {
	for _, rep := range dev.Reports(hid.InputReport) {
		for _, field := range rep.Fields {
			for _, usage := range field.Usages {
				if usage.ID == usageID && usage.CollectionIndex == collection {
					return true
				}
			}
		}
	}
	return false
}

// handleResolutionMultiplier records one qualifying multiplier field. The
// multiplier only applies to wheel usages in the same collection; fields
// scaling unrelated axes are ignored.
func (d *Driver) handleResolutionMultiplier(ctx *DeviceContext, rep *hid.Report, field *hid.Field, usage hid.Usage) {
	if ctx.badMultipliers {
		return
	}

	multiplier := field.PhysicalMaximum

	w := usageInCollection(ctx.dev, hid.UsageWheel, usage.CollectionIndex)
	h := usageInCollection(ctx.dev, hid.UsageACPan, usage.CollectionIndex)

	if !w && !h {
		return
	}

	// The discovery order isn't guaranteed, but only the field location
	// matters, not which axis landed in which slot.
	var which int
	switch {
	case ctx.slots[0] == nil:
		which = 0
	case ctx.slots[1] == nil:
		which = 1
	default:
		// Firmware bug: three resolution multipliers sharing a
		// collection with the wheel axes.
		d.log.Error("invalid resolution multipliers", "device", ctx.dev.Name)
		ctx.wheelMultiplier = 1
		ctx.hwheelMultiplier = 1
		ctx.badMultipliers = true
		return
	}

	if w {
		ctx.wheelMultiplier = multiplier
	}
	if h {
		ctx.hwheelMultiplier = multiplier
	}
	ctx.slots[which] = &multiplierSlot{reportID: rep.ID, fieldIndex: field.Index}
}

// fetchResolutionMultipliers walks the feature reports looking for resolution
// multiplier controls. Runs once per attach, before the device starts.
func (d *Driver) fetchResolutionMultipliers(ctx *DeviceContext) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	for _, rep := range ctx.dev.Reports(hid.FeatureReport) {
		for _, field := range rep.Fields {
			for _, usage := range field.Usages {
				if usage.ID == hid.UsageResolutionMultiplier {
					d.handleResolutionMultiplier(ctx, rep, field, usage)
					break
				}
			}
		}
	}

	if ctx.wheelMultiplier > 1 || ctx.hwheelMultiplier > 1 {
		d.log.Debug("resolution multipliers discovered",
			"device", ctx.dev.Name,
			"wheel", ctx.wheelMultiplier,
			"hwheel", ctx.hwheelMultiplier)
	}
}

// setResolutionMultipliers writes every discovered multiplier field and
// issues one configuration request per occupied slot. Devices that honor the
// Resolution Multiplier feature expect the logical maximum, not the
// multiplier itself; on hardware checked so far logical min/max is 0/1.
// Write failures are logged and skipped, the device stays usable at
// notch resolution.
func (d *Driver) setResolutionMultipliers(ctx *DeviceContext) {
	wheel, hwheel := ctx.multipliers()
	if wheel == 1 && hwheel == 1 {
		return
	}

	for _, slot := range ctx.slots {
		if slot == nil {
			break
		}

		rep, err := ctx.dev.ReportByID(hid.FeatureReport, slot.reportID)
		if err != nil {
			d.log.Error("lost multiplier report", "device", ctx.dev.Name, "err", err)
			continue
		}
		field := rep.Fields[slot.fieldIndex]

		usage := field.Usages[0]
		for _, u := range field.Usages {
			if u.ID == hid.UsageResolutionMultiplier {
				usage = u
				break
			}
		}

		field.Values[usage.ValueIndex] = field.LogicalMaximum
		if err := ctx.dev.Transport().Request(rep, hid.RequestSetReport); err != nil {
			d.log.Error("failed to set resolution multiplier",
				"device", ctx.dev.Name,
				"report", rep.ID,
				"err", err)
		}
	}
}

// Event translates one wheel rotation into a high-resolution scroll event,
// the matching legacy event and a sync marker. Returns false for usages this
// driver does not consume.
func (d *Driver) Event(ctx *DeviceContext, field *hid.Field, usage hid.Usage, value int32) bool {
	s := ctx.sink
	if s == nil {
		return false
	}

	switch usage.ID {
	case hid.UsageWheel:
		wheel, _ := ctx.multipliers()
		d.emit(ctx, sink.RelWheelHiRes, value*wheel)
		d.emit(ctx, sink.RelWheel, value)
		d.sync(ctx)
		return true
	case hid.UsageACPan:
		_, hwheel := ctx.multipliers()
		d.emit(ctx, sink.RelHWheelHiRes, value*hwheel)
		d.emit(ctx, sink.RelHWheel, value)
		d.sync(ctx)
		return true
	}

	return false
}

func (d *Driver) emit(ctx *DeviceContext, code sink.Code, value int32) {
	if err := ctx.sink.SendRel(code, value); err != nil {
		d.log.Debug("dropped event", "device", ctx.dev.Name, "code", code, "err", err)
	}
}

func (d *Driver) sync(ctx *DeviceContext) {
	if err := ctx.sink.Sync(); err != nil {
		d.log.Debug("dropped sync", "device", ctx.dev.Name, "err", err)
	}
}
