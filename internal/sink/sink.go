// Package sink delivers translated input events to whatever consumes them,
// with a uinput-backed implementation for injection into the local system.
package sink

import (
	"errors"
	"sync"
)

var (
	// ErrSinkClosed is returned when sending to a closed sink
	ErrSinkClosed = errors.New("sink is closed")
	// ErrUnsupportedCode is returned for event codes a sink cannot emit
	ErrUnsupportedCode = errors.New("unsupported event code")
)

// Code identifies a relative-event axis, numbered as Linux REL_* codes.
type Code uint16

const (
	RelHWheel      Code = 0x06
	RelWheel       Code = 0x08
	RelWheelHiRes  Code = 0x0b
	RelHWheelHiRes Code = 0x0c
)

func (c Code) String() string {
	switch c {
	case RelHWheel:
		return "REL_HWHEEL"
	case RelWheel:
		return "REL_WHEEL"
	case RelWheelHiRes:
		return "REL_WHEEL_HI_RES"
	case RelHWheelHiRes:
		return "REL_HWHEEL_HI_RES"
	default:
		return "REL_UNKNOWN"
	}
}

// EventSink receives translated events from the driver core.
type EventSink interface {
	// DeclareRel advertises that events with this code may be emitted.
	DeclareRel(code Code)
	// SendRel emits one relative event.
	SendRel(code Code, value int32) error
	// Sync marks the end of one coherent event group.
	Sync() error
	Close() error
}

// RecordedEvent is one SendRel or Sync call captured by a Recorder.
type RecordedEvent struct {
	Code  Code
	Value int32
	Sync  bool
}

// Recorder is an EventSink that captures everything sent to it, in order.
// Used by tests and the simulate command.
type Recorder struct {
	mu       sync.Mutex
	closed   bool
	events   []RecordedEvent
	declared map[Code]bool
}

func (r *Recorder) DeclareRel(code Code) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.declared == nil {
		r.declared = make(map[Code]bool)
	}
	r.declared[code] = true
}

// Declared reports whether the code was advertised via DeclareRel.
func (r *Recorder) Declared(code Code) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.declared[code]
}

func (r *Recorder) SendRel(code Code, value int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrSinkClosed
	}
	r.events = append(r.events, RecordedEvent{Code: code, Value: value})
	return nil
}

func (r *Recorder) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrSinkClosed
	}
	r.events = append(r.events, RecordedEvent{Sync: true})
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
