// Package serial opens the port a board writes its scheduler trace to. The
// port is read-only: the firmware never takes input on it.
package serial

import (
	"errors"
	"io"
	"sync"
)

// DefaultBaud matches the rp2350 debug UART. USB CDC ignores the rate.
const DefaultBaud = 115200

var (
	ErrNoDevice    = errors.New("serial: no device given")
	ErrInvalidBaud = errors.New("serial: baud rate must be positive")
)

// Config selects the trace port
type Config struct {
	Device string // e.g. "/dev/ttyACM0", "COM3"
	Baud   int    // 0 means DefaultBaud
}

// DefaultConfig returns the configuration for a board on device
func DefaultConfig(device string) Config {
	return Config{Device: device, Baud: DefaultBaud}
}

// normalize fills in defaults and rejects unusable settings
func (c Config) normalize() (Config, error) {
	if c.Device == "" {
		return c, ErrNoDevice
	}
	switch {
	case c.Baud == 0:
		c.Baud = DefaultBaud
	case c.Baud < 0:
		return c, ErrInvalidBaud
	}
	return c, nil
}

// tracePort exposes only the reading side of an open device. Close may be
// called from several goroutines; only the first reaches the device.
type tracePort struct {
	dev io.ReadCloser

	once     sync.Once
	closeErr error
}

func newTracePort(dev io.ReadCloser) *tracePort {
	return &tracePort{dev: dev}
}

func (p *tracePort) Read(b []byte) (int, error) {
	return p.dev.Read(b)
}

func (p *tracePort) Close() error {
	p.once.Do(func() {
		p.closeErr = p.dev.Close()
	})
	return p.closeErr
}
