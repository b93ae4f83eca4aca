package colour

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestGenerateAccessiblePaletteNavy(t *testing.T) {
	palette := GenerateAccessiblePalette("#1a365d")

	if len(palette) != 32 {
		t.Fatalf("len(palette) = %d, want 32", len(palette))
	}

	want := []Combination{
		{Background: "#0d0561", Text: "#ffffff", Name: "Analogous 1 Dark", Ratio: 17.334816008943292, Level: LevelAAA},
		{Background: "#e6ebad", Text: "#000000", Name: "Split Comp 2 Light", Ratio: 16.851357201983713, Level: LevelAAA},
		{Background: "#c7ebad", Text: "#000000", Name: "Triadic 2 Light", Ratio: 15.91518113457401, Level: LevelAAA},
	}
	opt := cmpopts.EquateApprox(0, 1e-9)
	if diff := cmp.Diff(want, palette[:3], opt); diff != "" {
		t.Errorf("leading combinations mismatch (-want +got):\n%s", diff)
	}

	last := Combination{Background: "#b87314", Text: "#000000", Name: "Complementary Deep", Ratio: 5.50046429573742, Level: LevelAA}
	if diff := cmp.Diff(last, palette[len(palette)-1], opt); diff != "" {
		t.Errorf("last combination mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateAccessiblePaletteInvariants(t *testing.T) {
	for _, base := range []string{"#1a365d", "#ff0000", "#808080", "#ffffff", "#000000", "#c0ffee", "not-a-color"} {
		t.Run(base, func(t *testing.T) {
			palette := GenerateAccessiblePalette(base)
			if len(palette) > 32 {
				t.Fatalf("len(palette) = %d, want at most 32", len(palette))
			}

			names := make(map[string]bool, len(palette))
			for i, c := range palette {
				if c.Ratio < MinimumContrast {
					t.Errorf("%s: ratio %v below %v", c.Name, c.Ratio, MinimumContrast)
				}
				if c.Text != "#ffffff" && c.Text != "#000000" {
					t.Errorf("%s: text %s is neither black nor white", c.Name, c.Text)
				}
				if c.Level != WCAGLevel(c.Ratio, false) {
					t.Errorf("%s: level %s does not match ratio %v", c.Name, c.Level, c.Ratio)
				}
				if i > 0 && palette[i-1].Ratio < c.Ratio {
					t.Errorf("palette not sorted at %d: %v < %v", i, palette[i-1].Ratio, c.Ratio)
				}
				if names[c.Name] {
					t.Errorf("duplicate name %q", c.Name)
				}
				names[c.Name] = true

				bg := c.BackgroundRGB()
				white := Contrast(bg, White)
				black := Contrast(bg, Black)
				if got := math.Max(white, black); !approx(got, c.Ratio, 1e-12) {
					t.Errorf("%s: ratio %v, recomputed %v", c.Name, c.Ratio, got)
				}
				wantText := "#000000"
				if white > black {
					wantText = "#ffffff"
				}
				if c.Text != wantText {
					t.Errorf("%s: text %s, want %s", c.Name, c.Text, wantText)
				}
			}
		})
	}
}

func TestGenerateAccessiblePaletteNames(t *testing.T) {
	palette := GenerateAccessiblePalette("#336699")

	hues := []string{"Base", "Complementary", "Analogous 1", "Analogous 2", "Triadic 1", "Triadic 2", "Split Comp 1", "Split Comp 2"}
	suffixes := []string{"Dark", "Deep", "Medium", "Light"}

	for _, c := range palette {
		parts := strings.Fields(c.Name)
		suffix := parts[len(parts)-1]
		hue := strings.Join(parts[:len(parts)-1], " ")
		if !slices.Contains(hues, hue) || !slices.Contains(suffixes, suffix) {
			t.Errorf("unexpected name %q", c.Name)
		}
	}
}

func TestGenerateAccessiblePaletteMalformedInput(t *testing.T) {
	// Malformed input falls back to black, which has hue 0 like pure red.
	got := GenerateAccessiblePalette("not-a-color")
	want := GenerateAccessiblePalette("#ff0000")

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("malformed palette differs from hue-0 palette (-want +got):\n%s", diff)
	}

	first := Combination{Background: "#050561", Text: "#ffffff", Name: "Triadic 2 Dark", Ratio: 17.488709237595796, Level: LevelAAA}
	if diff := cmp.Diff(first, got[0], cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("first combination mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateAccessiblePaletteDeterministic(t *testing.T) {
	a := GenerateAccessiblePalette("#1a365d")
	b := GenerateAccessiblePalette("#1A365D")

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("palette is not deterministic (-first +second):\n%s", diff)
	}
}

func TestGenerateAccessiblePaletteLevelCounts(t *testing.T) {
	counts := map[Level]int{}
	for _, c := range GenerateAccessiblePalette("#1a365d") {
		counts[c.Level]++
	}

	want := map[Level]int{LevelAAA: 23, LevelAA: 9}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("level counts mismatch (-want +got):\n%s", diff)
	}
}

func TestGeneratePaletteWithSettingsDefaultsMatch(t *testing.T) {
	for _, base := range []string{"#1a365d", "#ff0000", "#abcdef"} {
		got, err := GeneratePaletteWithSettings(base, DefaultExpertSettings())
		if err != nil {
			t.Fatalf("GeneratePaletteWithSettings(%s) error: %v", base, err)
		}
		if diff := cmp.Diff(GenerateAccessiblePalette(base), got); diff != "" {
			t.Errorf("%s: default settings differ from fixed generator (-want +got):\n%s", base, diff)
		}
	}
}

func TestGeneratePaletteWithSettings(t *testing.T) {
	tests := []struct {
		name      string
		settings  func(*ExpertSettings)
		wantNames []string
		wantLen   int
	}{
		{
			name: "complementary above AAA",
			settings: func(s *ExpertSettings) {
				s.Harmony = HarmonyComplementary
				s.MinContrast = 7
			},
			wantNames: []string{
				"Complementary Light",
				"Base Dark",
				"Base Light",
				"Complementary Dark",
				"Complementary Medium",
			},
		},
		{
			name: "light variations only",
			settings: func(s *ExpertSettings) {
				s.LightnessRange = [2]float64{60, 80}
			},
			wantLen: 16,
		},
		{
			name: "contrast ceiling",
			settings: func(s *ExpertSettings) {
				s.MinContrast = 4.5
				s.MaxContrast = 6
			},
			wantNames: []string{
				"Split Comp 1 Medium",
				"Triadic 1 Medium",
				"Analogous 1 Medium",
				"Complementary Deep",
			},
		},
		{
			name: "nothing survives",
			settings: func(s *ExpertSettings) {
				s.MinContrast = 20
			},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultExpertSettings()
			tt.settings(&s)

			got, err := GeneratePaletteWithSettings("#1a365d", s)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.wantNames != nil {
				names := make([]string, len(got))
				for i, c := range got {
					names[i] = c.Name
				}
				if diff := cmp.Diff(tt.wantNames, names); diff != "" {
					t.Errorf("names mismatch (-want +got):\n%s", diff)
				}
				return
			}
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
			for _, c := range got {
				if c.Ratio < s.MinContrast || c.Ratio > s.MaxContrast {
					t.Errorf("%s: ratio %v outside [%v, %v]", c.Name, c.Ratio, s.MinContrast, s.MaxContrast)
				}
			}
		})
	}
}

func TestGeneratePaletteWithSettingsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		settings func(*ExpertSettings)
	}{
		{name: "min below 1", settings: func(s *ExpertSettings) { s.MinContrast = 0.5 }},
		{name: "max above 21", settings: func(s *ExpertSettings) { s.MaxContrast = 22 }},
		{name: "max below min", settings: func(s *ExpertSettings) { s.MinContrast = 7; s.MaxContrast = 5 }},
		{name: "saturation reversed", settings: func(s *ExpertSettings) { s.SaturationRange = [2]float64{80, 20} }},
		{name: "lightness over 100", settings: func(s *ExpertSettings) { s.LightnessRange = [2]float64{0, 120} }},
		{name: "unknown harmony", settings: func(s *ExpertSettings) { s.Harmony = "tetradic" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultExpertSettings()
			tt.settings(&s)

			_, err := GeneratePaletteWithSettings("#1a365d", s)
			if !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("error = %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestParseHarmony(t *testing.T) {
	for _, h := range ValidHarmonies() {
		got, err := ParseHarmony(" " + strings.ToUpper(h.String()) + " ")
		if err != nil {
			t.Errorf("ParseHarmony(%q) error: %v", h, err)
		}
		if got != h {
			t.Errorf("ParseHarmony(%q) = %q", h, got)
		}
	}

	if _, err := ParseHarmony("monochrome"); err == nil {
		t.Error("ParseHarmony(monochrome) expected error")
	}
}
