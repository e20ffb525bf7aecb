//go:build rp2040 || rp2350

package board

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

var (
	colorHealthy = color.RGBA{R: 0x00, G: 0x10, B: 0x00}
	colorOverrun = color.RGBA{R: 0x20, G: 0x00, B: 0x00}
)

// StatusPixel shows scheduler health on a single WS2812 LED:
// green until the first overrun, red afterwards.
type StatusPixel struct {
	dev     ws2812.Device
	buf     [1]color.RGBA
	overrun bool
}

// NewStatusPixel configures pin and lights the pixel green
func NewStatusPixel(pin machine.Pin) *StatusPixel {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	s := &StatusPixel{dev: ws2812.New(pin)}
	s.show(colorHealthy)
	return s
}

// Overrun latches the pixel red. Only the first call writes to the LED and
// reports true.
func (s *StatusPixel) Overrun() bool {
	if s.overrun {
		return false
	}
	s.overrun = true
	s.show(colorOverrun)
	return true
}

func (s *StatusPixel) show(c color.RGBA) {
	s.buf[0] = c
	_ = s.dev.WriteColors(s.buf[:])
}
