package voxel

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a packed 0xRRGGBBAA value.
type Color uint32

// Transparent is the default voxel color.
const Transparent Color = 0x00000000

func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

func (c Color) R() uint8 { return uint8(c >> 24) }
func (c Color) G() uint8 { return uint8(c >> 16) }
func (c Color) B() uint8 { return uint8(c >> 8) }
func (c Color) A() uint8 { return uint8(c) }

// Hex formats the color as #rrggbbaa.
func (c Color) Hex() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

func (c Color) String() string { return c.Hex() }

// Linear returns the color as float RGBA with every channel squared, the
// cheap gamma approximation the editor viewports use for materials.
func (c Color) Linear() [4]float32 {
	sq := func(v uint8) float32 {
		f := float32(v) / 255
		return f * f
	}
	return [4]float32{sq(c.R()), sq(c.G()), sq(c.B()), sq(c.A())}
}

// ParseColor parses #rgb, #rgba, #rrggbb and #rrggbbaa. The leading '#' is
// optional and forms without alpha are fully opaque.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	case 6, 8:
	default:
		return 0, fmt.Errorf("invalid color length: %q", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(v), nil
}
