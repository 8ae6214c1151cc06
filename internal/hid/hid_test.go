package hid

import (
	"errors"
	"testing"
)

func buildDevice() *Device {
	dev := NewDevice("test device")

	in := dev.AddReport(InputReport, 1)
	in.AddField(&Field{
		LogicalMinimum: -127,
		LogicalMaximum: 127,
		Usages:         []Usage{{ID: UsageWheel, CollectionIndex: 1}},
		Values:         make([]int32, 1),
	})

	feat := dev.AddReport(FeatureReport, 2)
	feat.AddField(&Field{
		LogicalMaximum:  1,
		PhysicalMaximum: 8,
		Usages:          []Usage{{ID: UsageResolutionMultiplier, CollectionIndex: 1}},
		Values:          make([]int32, 1),
	})

	return dev
}

func TestUsageConstants(t *testing.T) {
	// Full page|usage encoding.
	if UsageWheel != 0x00010038 {
		t.Errorf("UsageWheel = %#x", UsageWheel)
	}
	if UsageResolutionMultiplier != 0x00010048 {
		t.Errorf("UsageResolutionMultiplier = %#x", UsageResolutionMultiplier)
	}
	if UsageACPan != 0x000c0238 {
		t.Errorf("UsageACPan = %#x", UsageACPan)
	}
}

func TestReportEnum(t *testing.T) {
	dev := buildDevice()

	if got := len(dev.Reports(InputReport)); got != 1 {
		t.Fatalf("input reports = %d, want 1", got)
	}
	if got := len(dev.Reports(FeatureReport)); got != 1 {
		t.Fatalf("feature reports = %d, want 1", got)
	}
	if got := len(dev.Reports(OutputReport)); got != 0 {
		t.Fatalf("output reports = %d, want 0", got)
	}

	rep, err := dev.ReportByID(FeatureReport, 2)
	if err != nil {
		t.Fatalf("ReportByID failed: %v", err)
	}
	if rep.Type != FeatureReport || rep.ID != 2 {
		t.Errorf("unexpected report %+v", rep)
	}

	if _, err := dev.ReportByID(InputReport, 99); !errors.Is(err, ErrUnknownReport) {
		t.Errorf("expected ErrUnknownReport, got %v", err)
	}
}

func TestAddFieldAssignsIndexes(t *testing.T) {
	rep := &Report{ID: 1, Type: InputReport}
	a := rep.AddField(&Field{})
	b := rep.AddField(&Field{})

	if a.Index != 0 || b.Index != 1 {
		t.Errorf("field indexes = %d, %d", a.Index, b.Index)
	}
	if a.Report() != rep {
		t.Error("field lost its report back-reference")
	}
}

func TestFindUsage(t *testing.T) {
	dev := buildDevice()

	field, usage, ok := dev.FindUsage(InputReport, UsageWheel)
	if !ok {
		t.Fatal("wheel usage not found")
	}
	if usage.ID != UsageWheel || field.LogicalMaximum != 127 {
		t.Errorf("found wrong field/usage: %+v %+v", field, usage)
	}

	if _, _, ok := dev.FindUsage(InputReport, UsageACPan); ok {
		t.Error("found a usage the device does not have")
	}
}

func TestMemoryTransport(t *testing.T) {
	dev := buildDevice()
	transport := &MemoryTransport{}

	if err := transport.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !transport.Started() {
		t.Error("transport not started")
	}

	rep, err := dev.ReportByID(FeatureReport, 2)
	if err != nil {
		t.Fatal(err)
	}
	rep.Fields[0].Values[0] = 1
	if err := transport.Request(rep, RequestSetReport); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	// Mutating the field afterwards must not change the recording.
	rep.Fields[0].Values[0] = 7

	requests := transport.Requests()
	if len(requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(requests))
	}
	req := requests[0]
	if req.ReportID != 2 || req.Type != RequestSetReport {
		t.Errorf("unexpected request %+v", req)
	}
	if len(req.Values) != 1 || req.Values[0][0] != 1 {
		t.Errorf("recorded values = %v, want [[1]]", req.Values)
	}

	transport.Stop()
	if transport.Started() {
		t.Error("transport still started after Stop")
	}
}
