//go:build rp2350

package main

import (
	"machine"
)

var (
	debugUART    *machine.UART
	debugEnabled bool
)

// InitDebugUART initializes UART1 on GPIO36 (TX) and GPIO37 (RX) for the
// scheduler trace. Baud rate: 115200
func InitDebugUART() {
	debugUART = machine.UART1

	err := debugUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO36, // UART1 TX
		RX:       machine.GPIO37, // UART1 RX
	})

	if err != nil {
		debugEnabled = false
		return
	}

	debugEnabled = true
}

var crlf = []byte("\r\n")

// DebugWriteLine writes one trace line to the debug UART with CRLF
func DebugWriteLine(line []byte) {
	if !debugEnabled || debugUART == nil {
		return
	}
	debugUART.Write(line)
	debugUART.Write(crlf)
}
