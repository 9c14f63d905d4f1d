package gpio

import (
	"fmt"
	"sync"
)

// Level is a digital logic level.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// String returns "high" or "low"
func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// Reader reads digital input states by pin name.
type Reader interface {
	// Read returns the logic level of the named pin (e.g. "GPIO4")
	Read(pin string) (Level, error)

	// Close releases any held hardware resources
	Close() error
}

// Fake is an in-memory Reader for tests and machines without GPIO hardware.
// Unset pins read Low.
type Fake struct {
	mu     sync.Mutex
	levels map[string]Level
	errs   map[string]error
}

// NewFake creates an empty fake reader
func NewFake() *Fake {
	return &Fake{
		levels: make(map[string]Level),
		errs:   make(map[string]error),
	}
}

// Set fixes the level a pin will read
func (f *Fake) Set(pin string, level Level) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levels[pin] = level
}

// Fail makes reads of a pin return the given error
func (f *Fake) Fail(pin string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[pin] = err
}

// Read implements Reader
func (f *Fake) Read(pin string) (Level, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.errs[pin]; err != nil {
		return Low, fmt.Errorf("pin %s: %w", pin, err)
	}
	return f.levels[pin], nil
}

// Close implements Reader
func (f *Fake) Close() error {
	return nil
}
