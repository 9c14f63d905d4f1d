package gpio

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PeriphReader reads real GPIO pins through periph.io. Pins are addressed by
// their periph.io names, which on a Raspberry Pi are the BCM numbers
// ("GPIO4").
type PeriphReader struct {
	mu   sync.Mutex
	pins map[string]gpio.PinIO
}

// NewPeriphReader initialises the periph.io host and returns a hardware
// reader. host.Init is safe to call more than once; subsequent calls are
// no-ops.
func NewPeriphReader() (*PeriphReader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise GPIO host: %w", err)
	}
	return &PeriphReader{pins: make(map[string]gpio.PinIO)}, nil
}

// Read implements Reader
func (r *PeriphReader) Read(pin string) (Level, error) {
	p, err := r.pin(pin)
	if err != nil {
		return Low, err
	}
	if p.Read() == gpio.High {
		return High, nil
	}
	return Low, nil
}

// pin resolves and configures a pin on first use. The pull is left as the
// board wires it; input circuits on this device carry their own resistors.
func (r *PeriphReader) pin(name string) (gpio.PinIO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pins[name]; ok {
		return p, nil
	}

	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown GPIO pin %q", name)
	}
	if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure pin %s as input: %w", name, err)
	}

	r.pins[name] = p
	return p, nil
}

// Close implements Reader
func (r *PeriphReader) Close() error {
	return nil
}
