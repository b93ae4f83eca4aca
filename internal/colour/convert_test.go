package colour

import (
	"errors"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want RGB
	}{
		{name: "white upper", hex: "#FFFFFF", want: RGB{R: 255, G: 255, B: 255}},
		{name: "white lower", hex: "#ffffff", want: RGB{R: 255, G: 255, B: 255}},
		{name: "no hash", hex: "1a365d", want: RGB{R: 26, G: 54, B: 93}},
		{name: "mixed case", hex: "#1A365d", want: RGB{R: 26, G: 54, B: 93}},
		{name: "malformed", hex: "not-a-color", want: RGB{}},
		{name: "short form", hex: "#fff", want: RGB{}},
		{name: "too long", hex: "#1a365d00", want: RGB{}},
		{name: "empty", hex: "", want: RGB{}},
		{name: "double hash", hex: "##1a365d", want: RGB{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HexToRGB(tt.hex); got != tt.want {
				t.Errorf("HexToRGB(%q) = %+v, want %+v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	rgb, err := ParseHex("#1a365d")
	if err != nil {
		t.Fatalf("ParseHex() unexpected error: %v", err)
	}
	if rgb != (RGB{R: 26, G: 54, B: 93}) {
		t.Errorf("ParseHex() = %+v", rgb)
	}

	for _, bad := range []string{"not-a-color", "#12345", "#gggggg", " #1a365d"} {
		if _, err := ParseHex(bad); !errors.Is(err, ErrInvalidHex) {
			t.Errorf("ParseHex(%q) error = %v, want ErrInvalidHex", bad, err)
		}
	}
}

func TestRGBToHex(t *testing.T) {
	tests := []struct {
		r, g, b int
		want    string
	}{
		{255, 255, 255, "#ffffff"},
		{0, 0, 0, "#000000"},
		{26, 54, 93, "#1a365d"},
		{1, 2, 3, "#010203"},
		{128, 128, 128, "#808080"},
	}

	for _, tt := range tests {
		if got := RGBToHex(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("RGBToHex(%d, %d, %d) = %s, want %s", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for r := 0; r < 256; r += 5 {
		for g := 0; g < 256; g += 7 {
			for b := 0; b < 256; b += 11 {
				want := RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
				if got := HexToRGB(RGBToHex(r, g, b)); got != want {
					t.Fatalf("round trip of %+v gave %+v", want, got)
				}
			}
		}
	}
}

func TestHexMatchesColorful(t *testing.T) {
	for _, hex := range []string{"#1a365d", "#ff8000", "#00aa55", "#c0ffee", "#000000", "#ffffff"} {
		ref, err := colorful.Hex(hex)
		if err != nil {
			t.Fatalf("colorful.Hex(%q): %v", hex, err)
		}
		r, g, b := ref.RGB255()

		got := HexToRGB(hex)
		if got.R != r || got.G != g || got.B != b {
			t.Errorf("HexToRGB(%q) = %+v, colorful gives (%d, %d, %d)", hex, got, r, g, b)
		}
		if ref.Hex() != got.Hex() {
			t.Errorf("Hex() = %s, colorful gives %s", got.Hex(), ref.Hex())
		}
	}
}

func TestRGBToHSL(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b int
		want    HSL
	}{
		{name: "red", r: 255, g: 0, b: 0, want: HSL{H: 0, S: 100, L: 50}},
		{name: "green", r: 0, g: 255, b: 0, want: HSL{H: 120, S: 100, L: 50}},
		{name: "blue", r: 0, g: 0, b: 255, want: HSL{H: 240, S: 100, L: 50}},
		{name: "yellow", r: 255, g: 255, b: 0, want: HSL{H: 60, S: 100, L: 50}},
		{name: "black", r: 0, g: 0, b: 0, want: HSL{H: 0, S: 0, L: 0}},
		{name: "white", r: 255, g: 255, b: 255, want: HSL{H: 0, S: 0, L: 100}},
		{name: "navy", r: 26, g: 54, b: 93, want: HSL{H: 214.92537313432837, S: 56.30252100840335, L: 23.333333333333332}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToHSL(tt.r, tt.g, tt.b)
			if !approx(got.H, tt.want.H, 1e-9) || !approx(got.S, tt.want.S, 1e-9) || !approx(got.L, tt.want.L, 1e-9) {
				t.Errorf("RGBToHSL(%d, %d, %d) = %+v, want %+v", tt.r, tt.g, tt.b, got, tt.want)
			}
			if got.H < 0 || got.H >= 360 {
				t.Errorf("hue %f outside [0, 360)", got.H)
			}
		})
	}
}

func TestRGBToHSLMagentaWraps(t *testing.T) {
	// Max channel red with blue > green takes the +6 branch.
	got := RGBToHSL(255, 0, 128)
	if got.H < 300 || got.H >= 360 {
		t.Errorf("hue = %f, want in [300, 360)", got.H)
	}
}

func TestHSLToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		want    RGB
	}{
		{name: "green", h: 120, s: 100, l: 50, want: RGB{R: 0, G: 255, B: 0}},
		{name: "dark red", h: 0, s: 60, l: 30, want: RGB{R: 122, G: 31, B: 31}},
		{name: "achromatic", h: 200, s: 0, l: 100, want: RGB{R: 255, G: 255, B: 255}},
		{name: "black", h: 0, s: 0, l: 0, want: RGB{}},
		{name: "navy", h: 214.92537313432837, s: 56.30252100840335, l: 23.333333333333332, want: RGB{R: 26, G: 54, B: 93}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HSLToRGB(tt.h, tt.s, tt.l); got != tt.want {
				t.Errorf("HSLToRGB(%v, %v, %v) = %+v, want %+v", tt.h, tt.s, tt.l, got, tt.want)
			}
		})
	}
}

func TestHSLToRGBMatchesColorful(t *testing.T) {
	for h := 0.0; h < 360; h += 13 {
		for _, v := range variations {
			got := HSLToRGB(h, v.saturation, v.lightness)
			r, g, b := colorful.Hsl(h, v.saturation/100, v.lightness/100).RGB255()

			// Both libraries round independently, so allow a single step of drift.
			if absDiff(got.R, r) > 1 || absDiff(got.G, g) > 1 || absDiff(got.B, b) > 1 {
				t.Errorf("HSLToRGB(%v, %v, %v) = %+v, colorful gives (%d, %d, %d)",
					h, v.saturation, v.lightness, got, r, g, b)
			}
		}
	}
}

func TestHSLRoundTrip(t *testing.T) {
	for _, hex := range []string{"#1a365d", "#ff0000", "#336699", "#abcdef", "#7a1f1f"} {
		rgb := HexToRGB(hex)
		if got := rgb.HSL().RGB(); got != rgb {
			t.Errorf("%s: HSL round trip gave %s", hex, got.Hex())
		}
	}
}

func approx(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
