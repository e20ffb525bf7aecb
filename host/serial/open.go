package serial

import (
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// Open opens the trace port described by cfg. Reads block until the board
// writes something: with a read timeout an idle tty reads as EOF, which
// would end a line scanner. Close the port to unblock a pending Read.
func Open(cfg Config) (io.ReadCloser, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	port, err := serial.OpenPort(&serial.Config{
		Name: cfg.Device,
		Baud: cfg.Baud,
	})
	if err != nil {
		return nil, fmt.Errorf("open trace port %s: %w", cfg.Device, err)
	}
	return newTracePort(port), nil
}
