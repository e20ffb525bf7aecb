//go:build rp2040

package main

import (
	"machine"
)

// InitUSB initializes USB serial communication
// TinyGo automatically sets up USB CDC-ACM on RP2040
func InitUSB() {
	// Configure machine.Serial (which is USB CDC on RP2040)
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

var crlf = []byte("\r\n")

// USBWriteLine writes one trace line to USB, dropping it on error.
// The host monitor reads these lines.
func USBWriteLine(line []byte) {
	_, err := machine.Serial.Write(line)
	if err != nil {
		return
	}
	_, _ = machine.Serial.Write(crlf)
}
