package colour

import (
	"math"
	"testing"
)

func TestLuminance(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b int
		want    float64
	}{
		{name: "black", r: 0, g: 0, b: 0, want: 0},
		{name: "white", r: 255, g: 255, b: 255, want: 1},
		{name: "grey", r: 128, g: 128, b: 128, want: 0.21586050011389923},
		{name: "navy", r: 26, g: 54, b: 93, want: 0.03648259082115864},
		{name: "pure red", r: 255, g: 0, b: 0, want: 0.2126},
		{name: "pure green", r: 0, g: 255, b: 0, want: 0.7152},
		{name: "pure blue", r: 0, g: 0, b: 255, want: 0.0722},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Luminance(tt.r, tt.g, tt.b)
			if !approx(got, tt.want, 1e-12) {
				t.Errorf("Luminance(%d, %d, %d) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestLuminanceLinearSegment(t *testing.T) {
	// Channels at or below 0.03928 use the linear branch.
	got := Luminance(10, 10, 10)
	want := (10.0 / 255) / 12.92
	if !approx(got, want, 1e-15) {
		t.Errorf("Luminance(10, 10, 10) = %v, want %v", got, want)
	}
}

func TestContrastRatio(t *testing.T) {
	tests := []struct {
		name   string
		l1, l2 float64
		want   float64
	}{
		{name: "black on white", l1: 1, l2: 0, want: 21},
		{name: "argument order", l1: 0, l2: 1, want: 21},
		{name: "identical", l1: 0.4, l2: 0.4, want: 1},
		{name: "navy on white", l1: 1, l2: 0.03648259082115864, want: 12.141171882458329},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContrastRatio(tt.l1, tt.l2)
			if !approx(got, tt.want, 1e-9) {
				t.Errorf("ContrastRatio(%v, %v) = %v, want %v", tt.l1, tt.l2, got, tt.want)
			}
		})
	}
}

func TestContrastBounds(t *testing.T) {
	samples := []RGB{Black, White, {R: 26, G: 54, B: 93}, {R: 255, G: 0, B: 0}, {R: 128, G: 128, B: 128}}
	for _, a := range samples {
		for _, b := range samples {
			ratio := Contrast(a, b)
			if ratio < 1 || ratio > 21 {
				t.Errorf("Contrast(%s, %s) = %v, outside [1, 21]", a.Hex(), b.Hex(), ratio)
			}
			if ratio != Contrast(b, a) {
				t.Errorf("Contrast(%s, %s) is not symmetric", a.Hex(), b.Hex())
			}
		}
	}
}

func TestWrapHue(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{359, 359},
		{360, 0},
		{395, 35},
		{-30, 330},
		{-390, 330},
	}

	for _, tt := range tests {
		if got := wrapHue(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("wrapHue(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHueDistance(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 180, 180},
		{10, 350, 20},
		{350, 10, 20},
		{90, 90, 0},
	}

	for _, tt := range tests {
		if got := HueDistance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("HueDistance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
