package colour

import (
	"math"
	"slices"
)

// MinimumContrast is the ratio a candidate needs to appear in a generated palette.
const MinimumContrast = 4.5

var (
	// White is the light text candidate.
	White = RGB{R: 255, G: 255, B: 255}
	// Black is the dark text candidate.
	Black = RGB{R: 0, G: 0, B: 0}
)

// Combination pairs a background with whichever of black or white text
// reads best on it.
type Combination struct {
	Background string  `json:"background"`
	Text       string  `json:"text"`
	Name       string  `json:"name"`
	Ratio      float64 `json:"ratio"`
	Level      Level   `json:"wcagLevel"`
}

// BackgroundRGB returns the parsed background colour.
func (c Combination) BackgroundRGB() RGB {
	return HexToRGB(c.Background)
}

// TextRGB returns the parsed text colour.
func (c Combination) TextRGB() RGB {
	return HexToRGB(c.Text)
}

// GenerateAccessiblePalette derives up to 32 background/text combinations
// from the hue of baseHex. Every harmony and variation is used and only
// combinations reaching MinimumContrast are kept, sorted by ratio descending.
func GenerateAccessiblePalette(baseHex string) []Combination {
	return generate(HexToRGB(baseHex), HarmonyAll, variations, MinimumContrast, math.Inf(1))
}

// GeneratePaletteWithSettings is GenerateAccessiblePalette with the expert
// settings applied: the harmony restricts hue families, variations outside
// the saturation and lightness ranges are skipped, and ratios must fall
// within [MinContrast, MaxContrast].
func GeneratePaletteWithSettings(baseHex string, s ExpertSettings) ([]Combination, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	vars := make([]variation, 0, len(variations))
	for _, v := range variations {
		if inRange(v.saturation, s.SaturationRange) && inRange(v.lightness, s.LightnessRange) {
			vars = append(vars, v)
		}
	}

	return generate(HexToRGB(baseHex), s.Harmony, vars, s.MinContrast, s.MaxContrast), nil
}

func generate(base RGB, harmony Harmony, vars []variation, minRatio, maxRatio float64) []Combination {
	baseHue := base.HSL().H
	whiteLum := White.Luminance()
	blackLum := Black.Luminance()

	combos := make([]Combination, 0, len(hueOffsets)*len(vars))
	for _, offset := range hueOffsets {
		if !offset.includes(harmony) {
			continue
		}
		hue := wrapHue(baseHue + offset.degrees)

		for _, v := range vars {
			bg := HSLToRGB(hue, v.saturation, v.lightness)
			lum := bg.Luminance()

			whiteContrast := ContrastRatio(lum, whiteLum)
			blackContrast := ContrastRatio(lum, blackLum)
			ratio := math.Max(whiteContrast, blackContrast)
			if ratio < minRatio || ratio > maxRatio {
				continue
			}

			text := Black
			if whiteContrast > blackContrast {
				text = White
			}

			combos = append(combos, Combination{
				Background: bg.Hex(),
				Text:       text.Hex(),
				Name:       offset.name + " " + v.suffix,
				Ratio:      ratio,
				Level:      WCAGLevel(ratio, false),
			})
		}
	}

	slices.SortStableFunc(combos, func(a, b Combination) int {
		switch {
		case a.Ratio > b.Ratio:
			return -1
		case a.Ratio < b.Ratio:
			return 1
		default:
			return 0
		}
	})

	return combos
}
