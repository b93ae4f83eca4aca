package colour

import (
	"fmt"
	"slices"
	"strings"
)

// Harmony selects which harmonic hue families take part in generation.
type Harmony string

const (
	HarmonyComplementary      Harmony = "complementary"
	HarmonyAnalogous          Harmony = "analogous"
	HarmonyTriadic            Harmony = "triadic"
	HarmonySplitComplementary Harmony = "split-complementary"
	HarmonyAll                Harmony = "all"
)

// ValidHarmonies returns every accepted harmony value.
func ValidHarmonies() []Harmony {
	return []Harmony{
		HarmonyComplementary,
		HarmonyAnalogous,
		HarmonyTriadic,
		HarmonySplitComplementary,
		HarmonyAll,
	}
}

// ParseHarmony converts a string to a Harmony.
func ParseHarmony(s string) (Harmony, error) {
	h := Harmony(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(ValidHarmonies(), h) {
		return h, nil
	}
	return "", fmt.Errorf("invalid harmony: %s (valid: complementary, analogous, triadic, split-complementary, all)", s)
}

// String returns the harmony name.
func (h Harmony) String() string {
	return string(h)
}

// hueOffset is a named rotation from the base hue.
// An empty family means the offset is always included.
type hueOffset struct {
	name    string
	degrees float64
	family  Harmony
}

// hueOffsets lists the harmonic rotations in output naming order.
var hueOffsets = []hueOffset{
	{name: "Base", degrees: 0},
	{name: "Complementary", degrees: 180, family: HarmonyComplementary},
	{name: "Analogous 1", degrees: 30, family: HarmonyAnalogous},
	{name: "Analogous 2", degrees: -30, family: HarmonyAnalogous},
	{name: "Triadic 1", degrees: 120, family: HarmonyTriadic},
	{name: "Triadic 2", degrees: 240, family: HarmonyTriadic},
	{name: "Split Comp 1", degrees: 150, family: HarmonySplitComplementary},
	{name: "Split Comp 2", degrees: 210, family: HarmonySplitComplementary},
}

// variation is a fixed saturation/lightness pair applied to every hue.
type variation struct {
	suffix     string
	saturation float64
	lightness  float64
}

// variations are independent of the base colour's own saturation and lightness.
var variations = []variation{
	{suffix: "Dark", saturation: 90, lightness: 20},
	{suffix: "Deep", saturation: 80, lightness: 40},
	{suffix: "Medium", saturation: 70, lightness: 60},
	{suffix: "Light", saturation: 60, lightness: 80},
}

// includes reports whether the offset belongs to the selected harmony.
func (o hueOffset) includes(h Harmony) bool {
	return o.family == "" || h == HarmonyAll || o.family == h
}
