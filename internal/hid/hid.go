// Package hid holds the parsed form of a device capability report and the
// device handle the driver core operates on. Descriptor parsing itself happens
// elsewhere; this package only consumes its output.
package hid

import (
	"errors"
	"fmt"
)

// Usage pages, as in the HID usage tables.
const (
	PageGenericDesktop uint32 = 0x0001
	PageConsumer       uint32 = 0x000c
)

// Full 32-bit usage identifiers (page << 16 | usage).
const (
	UsageWheel                = PageGenericDesktop<<16 | 0x38
	UsageResolutionMultiplier = PageGenericDesktop<<16 | 0x48
	UsageACPan                = PageConsumer<<16 | 0x238
)

// ReportType distinguishes the three report directions of a HID device.
type ReportType int

const (
	InputReport ReportType = iota
	OutputReport
	FeatureReport
	reportTypeCount
)

func (t ReportType) String() string {
	switch t {
	case InputReport:
		return "input"
	case OutputReport:
		return "output"
	case FeatureReport:
		return "feature"
	default:
		return fmt.Sprintf("reporttype(%d)", int(t))
	}
}

// Quirk flags set on a device before the driver core sees it.
type Quirk uint32

const (
	// QuirkHaveSpecialDriver marks devices that must be left to a
	// vendor-specific driver even when nothing else claims them.
	QuirkHaveSpecialDriver Quirk = 1 << iota
	// QuirkInputPerApp asks consumers to split input nodes per application
	// collection.
	QuirkInputPerApp
)

// Usage is a semantic tag carried by a field.
type Usage struct {
	// ID is the full page|usage identifier.
	ID uint32
	// CollectionIndex identifies the collection this usage belongs to.
	CollectionIndex int
	// ValueIndex is the position of this usage's value inside the owning
	// field's value array.
	ValueIndex int
}

// Field is a value slot within a report.
type Field struct {
	Index           int
	Usages          []Usage
	Values          []int32
	LogicalMinimum  int32
	LogicalMaximum  int32
	PhysicalMinimum int32
	PhysicalMaximum int32

	report *Report
}

// Report returns the report this field belongs to.
func (f *Field) Report() *Report { return f.report }

// Report groups fields travelling together in one report direction.
type Report struct {
	ID     int
	Type   ReportType
	Fields []*Field
}

// AddField appends a field to the report and assigns its index.
func (r *Report) AddField(f *Field) *Field {
	f.Index = len(r.Fields)
	f.report = r
	r.Fields = append(r.Fields, f)
	return f
}

// reportEnum tracks every report of one direction, with by-ID lookup.
type reportEnum struct {
	reports []*Report
	byID    map[int]*Report
}

// Device is the handle for one attached HID device. The descriptor parser
// populates the report enums before any driver is probed.
type Device struct {
	Name    string
	Bus     uint16
	Vendor  uint16
	Product uint16
	Quirks  Quirk

	enums     [reportTypeCount]reportEnum
	transport Transport
}

// Errors surfaced by device operations.
var (
	ErrNoTransport   = errors.New("device has no transport")
	ErrUnknownReport = errors.New("unknown report id")
)

// NewDevice creates an empty device handle.
func NewDevice(name string) *Device {
	return &Device{Name: name}
}

// AddReport registers a report of the given direction and id.
func (d *Device) AddReport(typ ReportType, id int) *Report {
	rep := &Report{ID: id, Type: typ}
	enum := &d.enums[typ]
	if enum.byID == nil {
		enum.byID = make(map[int]*Report)
	}
	enum.reports = append(enum.reports, rep)
	enum.byID[id] = rep
	return rep
}

// Reports returns every report of the given direction, in registration order.
func (d *Device) Reports(typ ReportType) []*Report {
	return d.enums[typ].reports
}

// ReportByID looks up a report of the given direction by its id.
func (d *Device) ReportByID(typ ReportType, id int) (*Report, error) {
	rep, ok := d.enums[typ].byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s report %d on %s", ErrUnknownReport, typ, id, d.Name)
	}
	return rep, nil
}

// FindUsage locates the first field carrying the given usage id in reports of
// the given direction.
func (d *Device) FindUsage(typ ReportType, usageID uint32) (*Field, Usage, bool) {
	for _, rep := range d.enums[typ].reports {
		for _, field := range rep.Fields {
			for _, usage := range field.Usages {
				if usage.ID == usageID {
					return field, usage, true
				}
			}
		}
	}
	return nil, Usage{}, false
}

// SetTransport attaches the bus transport used for configuration requests.
func (d *Device) SetTransport(t Transport) {
	d.transport = t
}

// Transport returns the attached transport, or nil.
func (d *Device) Transport() Transport {
	return d.transport
}
