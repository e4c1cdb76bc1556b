// internal/indicator/palette.go
package indicator

import "fmt"

// Color is a 24-bit 0xRRGGBB value.
type Color uint32

// ---- RAW COLORS ----

const (
	Black   Color = 0x000000
	Blue    Color = 0x0000ff
	Green   Color = 0x00ff00
	Cyan    Color = 0x00ffff
	Red     Color = 0xff0000
	Magenta Color = 0xff00ff
	Yellow  Color = 0xffff00
	White   Color = 0xffffff
)

// ---- SENSOR SLOT MEANINGS ----
// These values are what field staff read off the strip and MUST NOT be configurable.

// Init is shown while a sensor is being constructed.
const Init = Cyan

// Disabled marks a sensor that failed initialization.
const Disabled = Red

// Idle marks a powered-down sensor between reads.
const Idle = Black

// Reading is shown for the duration of one detection call.
const Reading = White

// Fault marks a failed detection call or a failed send.
const Fault = Yellow

// Unrecognized marks a tag with no directory entry.
const Unrecognized = Magenta

// Matched marks a tag resolved to a coordinate.
const Matched = Green

// ---- WHOLE-STRIP MEANINGS ----

const (
	Booting   = Green
	Connected = Blue
	Off       = Black
	Touched   = Green
)

// RGB splits a color into channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Scale applies a brightness percentage (0..100) per channel.
func (c Color) Scale(percent int) Color {
	if percent >= 100 {
		return c
	}
	if percent <= 0 {
		return Black
	}
	r, g, b := c.RGB()
	s := func(v uint8) Color { return Color(uint32(v) * uint32(percent) / 100) }
	return s(r)<<16 | s(g)<<8 | s(b)
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}
