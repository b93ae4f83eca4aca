// Package colour provides colour conversion, WCAG contrast analysis and
// accessible palette generation.
package colour

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ErrInvalidHex is returned by ParseHex when the input is not a 6-digit hex colour.
var ErrInvalidHex = errors.New("invalid hex colour")

// hexPattern matches an optional leading '#' followed by exactly three hex pairs.
var hexPattern = regexp.MustCompile(`^#?([a-fA-F\d]{2})([a-fA-F\d]{2})([a-fA-F\d]{2})$`)

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return RGBToHex(int(rgb.R), int(rgb.G), int(rgb.B))
}

// HSL returns the colour in HSL space.
func (rgb RGB) HSL() HSL {
	return RGBToHSL(int(rgb.R), int(rgb.G), int(rgb.B))
}

// Luminance returns the WCAG relative luminance of the colour.
func (rgb RGB) Luminance() float64 {
	return Luminance(int(rgb.R), int(rgb.G), int(rgb.B))
}

// HSL represents a colour in HSL space.
// H is in degrees [0, 360), S and L are percentages [0, 100].
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// String returns the HSL colour in CSS notation.
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%.0f, %.0f%%, %.0f%%)", c.H, c.S, c.L)
}

// RGB converts the colour back to RGB.
func (c HSL) RGB() RGB {
	return HSLToRGB(c.H, c.S, c.L)
}

// HexToRGB parses a 6-digit hex colour with an optional '#' prefix.
// Input that does not match yields black; use ParseHex to detect that case.
func HexToRGB(hex string) RGB {
	rgb, err := ParseHex(hex)
	if err != nil {
		return RGB{}
	}
	return rgb
}

// ParseHex parses a 6-digit hex colour with an optional '#' prefix.
func ParseHex(hex string) (RGB, error) {
	m := hexPattern.FindStringSubmatch(hex)
	if m == nil {
		return RGB{}, fmt.Errorf("%w: %q (expected #rrggbb)", ErrInvalidHex, hex)
	}

	var channels [3]uint8
	for i, pair := range m[1:] {
		v, err := strconv.ParseUint(pair, 16, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
		}
		channels[i] = uint8(v)
	}

	return RGB{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// RGBToHex formats channel values as a lowercase "#rrggbb" string.
// Channels are not clamped; values outside [0, 255] produce malformed output.
func RGBToHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// RGBToHSL converts RGB channels (0-255) to HSL.
func RGBToHSL(r, g, b int) HSL {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	maxVal := math.Max(rf, math.Max(gf, bf))
	minVal := math.Min(rf, math.Min(gf, bf))

	l := (maxVal + minVal) / 2

	// Achromatic.
	if maxVal == minVal {
		return HSL{H: 0, S: 0, L: l * 100}
	}

	d := maxVal - minVal
	var s float64
	if l > 0.5 {
		s = d / (2 - maxVal - minVal)
	} else {
		s = d / (maxVal + minVal)
	}

	var h float64
	switch maxVal {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}

	h *= 60
	if h >= 360 {
		h -= 360
	}

	return HSL{H: h, S: s * 100, L: l * 100}
}

// HSLToRGB converts HSL to RGB.
// h is hue in degrees, s and l are percentages (0-100).
func HSLToRGB(h, s, l float64) RGB {
	h /= 360
	s /= 100
	l /= 100

	var r, g, b float64
	if s == 0 {
		r, g, b = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q

		r = hueToRGB(p, q, h+1.0/3)
		g = hueToRGB(p, q, h)
		b = hueToRGB(p, q, h-1.0/3)
	}

	return RGB{
		R: toChannel(r),
		G: toChannel(g),
		B: toChannel(b),
	}
}

// hueToRGB is a helper for HSL to RGB conversion. t is a hue fraction.
func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}

	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

// toChannel scales a [0, 1] component to a rounded 8-bit channel.
func toChannel(v float64) uint8 {
	n := math.Round(v * 255)
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}
