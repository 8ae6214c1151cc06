package sink

import (
	"fmt"
	"sync"

	"github.com/ThomasT75/uinput"

	"github.com/bnema/hidgeneric/internal/logger"
)

// Uinput injects translated scroll events into the local system through a
// virtual mouse. High-resolution codes are accepted but not forwarded; the
// uinput mouse only exposes notch-granularity wheels, so consumers get the
// legacy events that always accompany them.
type Uinput struct {
	mouse  uinput.Mouse
	mu     sync.Mutex
	closed bool
}

// NewUinput creates a uinput-backed sink. Requires access to /dev/uinput.
func NewUinput(name string) (*Uinput, error) {
	if name == "" {
		name = "hidgeneric virtual mouse"
	}
	mouse, err := uinput.CreateMouse("/dev/uinput", []byte(name))
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual mouse: %w", err)
	}
	return &Uinput{mouse: mouse}, nil
}

// DeclareRel is a no-op: the virtual mouse declares its own capabilities at
// creation time.
func (u *Uinput) DeclareRel(code Code) {
	logger.Debugf("uinput sink: capability %s requested", code)
}

func (u *Uinput) SendRel(code Code, value int32) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return ErrSinkClosed
	}

	switch code {
	case RelWheel:
		return u.mouse.Wheel(false, value)
	case RelHWheel:
		return u.mouse.Wheel(true, value)
	case RelWheelHiRes, RelHWheelHiRes:
		// Dropped, see type comment.
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedCode, code)
	}
}

// Sync is a no-op: the uinput library syncs after each write.
func (u *Uinput) Sync() error {
	return nil
}

func (u *Uinput) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return nil
	}
	u.closed = true
	return u.mouse.Close()
}
