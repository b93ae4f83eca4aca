package colour

import (
	"math"
)

// Luminance calculates the relative luminance of a colour according to WCAG 2.1.
// Channels are 8-bit values. Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG21/#dfn-relative-luminance.
func Luminance(r, g, b int) float64 {
	rf := gammaCorrect(float64(r) / 255)
	gf := gammaCorrect(float64(g) / 255)
	bf := gammaCorrect(float64(b) / 255)

	return 0.2126*rf + 0.7152*gf + 0.0722*bf
}

// gammaCorrect linearises a gamma-encoded sRGB component.
func gammaCorrect(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio calculates the WCAG contrast ratio between two relative luminances.
// Argument order does not matter. Returns a value between 1 and 21.
// https://www.w3.org/TR/WCAG21/#dfn-contrast-ratio.
func ContrastRatio(l1, l2 float64) float64 {
	lighter := math.Max(l1, l2)
	darker := math.Min(l1, l2)
	return (lighter + 0.05) / (darker + 0.05)
}

// Contrast returns the contrast ratio between two colours.
func Contrast(a, b RGB) float64 {
	return ContrastRatio(a.Luminance(), b.Luminance())
}

// HueDistance calculates the angular distance between two hues on the colour wheel.
// Returns a value between 0 and 180 degrees (shortest path around the wheel).
func HueDistance(h1, h2 float64) float64 {
	diff := math.Abs(h1 - h2)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// wrapHue normalises a hue in degrees into [0, 360).
func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}
