package hid

import "sync"

// RequestType selects the direction of a transport configuration request.
type RequestType int

const (
	RequestSetReport RequestType = iota
	RequestGetReport
)

func (t RequestType) String() string {
	if t == RequestSetReport {
		return "set_report"
	}
	return "get_report"
}

// Transport is the bus layer under a device. Requests are synchronous and
// bounded by the transport itself; the driver core adds no timeouts.
type Transport interface {
	// Start makes the device deliver events. Called once per attach.
	Start() error
	// Stop ceases event delivery.
	Stop()
	// Request sends a configuration request for the given report. For
	// RequestSetReport the report's current field values are written out.
	Request(rep *Report, typ RequestType) error
}

// RecordedRequest is one Request call captured by a MemoryTransport.
type RecordedRequest struct {
	ReportID int
	Type     RequestType
	// Values snapshots the flattened field values at request time.
	Values [][]int32
}

// MemoryTransport is an in-process Transport that records every request.
// Used by tests and by the CLI when probing descriptor dumps.
type MemoryTransport struct {
	mu sync.Mutex

	started  bool
	requests []RecordedRequest

	// StartErr and RequestErr, when set, are returned by the respective
	// calls to simulate bus failures.
	StartErr   error
	RequestErr error
}

func (t *MemoryTransport) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.StartErr != nil {
		return t.StartErr
	}
	t.started = true
	return nil
}

func (t *MemoryTransport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.started = false
}

func (t *MemoryTransport) Started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started
}

func (t *MemoryTransport) Request(rep *Report, typ RequestType) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.RequestErr != nil {
		return t.RequestErr
	}
	req := RecordedRequest{ReportID: rep.ID, Type: typ}
	for _, field := range rep.Fields {
		values := make([]int32, len(field.Values))
		copy(values, field.Values)
		req.Values = append(req.Values, values)
	}
	t.requests = append(t.requests, req)
	return nil
}

// Requests returns a copy of all recorded requests.
func (t *MemoryTransport) Requests() []RecordedRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]RecordedRequest, len(t.requests))
	copy(out, t.requests)
	return out
}
