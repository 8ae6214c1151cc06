package hid

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DescriptorDump is the JSON form of a parsed capability report, as captured
// from a real device. It exists so dumps can be inspected and replayed without
// the device present; it is a fixture format, not a wire protocol.
type DescriptorDump struct {
	Name    string       `json:"name"`
	Bus     uint16       `json:"bus,omitempty"`
	Vendor  uint16       `json:"vendor,omitempty"`
	Product uint16       `json:"product,omitempty"`
	Reports []ReportDump `json:"reports"`
}

type ReportDump struct {
	Type   string      `json:"type"`
	ID     int         `json:"id"`
	Fields []FieldDump `json:"fields"`
}

type FieldDump struct {
	LogicalMinimum  int32       `json:"logical_min"`
	LogicalMaximum  int32       `json:"logical_max"`
	PhysicalMinimum int32       `json:"physical_min,omitempty"`
	PhysicalMaximum int32       `json:"physical_max,omitempty"`
	Usages          []UsageDump `json:"usages"`
}

type UsageDump struct {
	// ID is the full page|usage identifier.
	ID         uint32 `json:"id"`
	Collection int    `json:"collection"`
}

func reportTypeFromString(s string) (ReportType, error) {
	switch s {
	case "input":
		return InputReport, nil
	case "output":
		return OutputReport, nil
	case "feature":
		return FeatureReport, nil
	default:
		return 0, fmt.Errorf("unknown report type %q", s)
	}
}

// Device builds a device handle from the dump. One value slot is allocated
// per usage, in usage order.
func (d *DescriptorDump) Device() (*Device, error) {
	dev := NewDevice(d.Name)
	dev.Bus = d.Bus
	dev.Vendor = d.Vendor
	dev.Product = d.Product

	for _, rd := range d.Reports {
		typ, err := reportTypeFromString(rd.Type)
		if err != nil {
			return nil, fmt.Errorf("report %d: %w", rd.ID, err)
		}
		rep := dev.AddReport(typ, rd.ID)
		for _, fd := range rd.Fields {
			field := &Field{
				LogicalMinimum:  fd.LogicalMinimum,
				LogicalMaximum:  fd.LogicalMaximum,
				PhysicalMinimum: fd.PhysicalMinimum,
				PhysicalMaximum: fd.PhysicalMaximum,
				Values:          make([]int32, len(fd.Usages)),
			}
			for i, ud := range fd.Usages {
				field.Usages = append(field.Usages, Usage{
					ID:              ud.ID,
					CollectionIndex: ud.Collection,
					ValueIndex:      i,
				})
			}
			rep.AddField(field)
		}
	}
	return dev, nil
}

// ReadDescriptorDump decodes a dump from r.
func ReadDescriptorDump(r io.Reader) (*DescriptorDump, error) {
	var dump DescriptorDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor dump: %w", err)
	}
	return &dump, nil
}

// LoadDevice reads a descriptor dump file and builds a device from it.
func LoadDevice(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open descriptor dump: %w", err)
	}
	defer f.Close()

	dump, err := ReadDescriptorDump(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dump.Device()
}
