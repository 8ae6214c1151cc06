package driver

import (
	"errors"
	"sync"
	"testing"

	"github.com/bnema/hidgeneric/internal/hid"
)

type stubDriver struct {
	name   string
	claims bool
}

func (d *stubDriver) Name() string           { return d.name }
func (d *stubDriver) Match(*hid.Device) bool { return d.claims }

func TestRegister(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&stubDriver{name: "a"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&stubDriver{name: "b"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if got := len(r.Drivers()); got != 2 {
		t.Errorf("drivers = %d, want 2", got)
	}

	err := r.Register(&stubDriver{name: "a"})
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubDriver{name: "a"}); err != nil {
		t.Fatal(err)
	}

	r.Unregister("a")
	r.Unregister("missing") // no-op

	if got := len(r.Drivers()); got != 0 {
		t.Errorf("drivers = %d, want 0", got)
	}
}

func TestAnyOtherMatch(t *testing.T) {
	fallback := &stubDriver{name: "fallback", claims: true}
	vendor := &stubDriver{name: "vendor"}

	r := NewRegistry()
	for _, d := range []Driver{fallback, vendor} {
		if err := r.Register(d); err != nil {
			t.Fatal(err)
		}
	}

	dev := hid.NewDevice("mouse")

	// Only the fallback claims it: from the fallback's point of view
	// nobody else wants the device.
	if r.AnyOtherMatch(dev, fallback) {
		t.Error("fallback's own match must not count")
	}

	vendor.claims = true
	if !r.AnyOtherMatch(dev, fallback) {
		t.Error("vendor driver claim not seen")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	dev := hid.NewDevice("mouse")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		name := string(rune('a' + i))
		go func() {
			defer wg.Done()
			_ = r.Register(&stubDriver{name: name})
		}()
		go func() {
			defer wg.Done()
			r.AnyOtherMatch(dev, nil)
		}()
	}
	wg.Wait()

	if got := len(r.Drivers()); got != 8 {
		t.Errorf("drivers = %d, want 8", got)
	}
}
