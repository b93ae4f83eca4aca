package colour

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSettings is returned when expert settings fail validation.
var ErrInvalidSettings = errors.New("invalid expert settings")

// ExpertSettings tune palette generation. They only take effect through
// GeneratePaletteWithSettings; GenerateAccessiblePalette ignores them.
type ExpertSettings struct {
	MinContrast     float64    `json:"minContrast"`
	MaxContrast     float64    `json:"maxContrast"`
	SaturationRange [2]float64 `json:"saturationRange"`
	LightnessRange  [2]float64 `json:"lightnessRange"`
	Harmony         Harmony    `json:"colorHarmony"`
}

// DefaultExpertSettings returns settings equivalent to the fixed generator.
func DefaultExpertSettings() ExpertSettings {
	return ExpertSettings{
		MinContrast:     MinimumContrast,
		MaxContrast:     21,
		SaturationRange: [2]float64{0, 100},
		LightnessRange:  [2]float64{0, 100},
		Harmony:         HarmonyAll,
	}
}

// Validate checks that every bound is in range and ordered.
func (s ExpertSettings) Validate() error {
	if s.MinContrast < 1 || s.MinContrast > 21 {
		return fmt.Errorf("%w: minContrast %.2f must be between 1 and 21", ErrInvalidSettings, s.MinContrast)
	}
	if s.MaxContrast < s.MinContrast || s.MaxContrast > 21 {
		return fmt.Errorf("%w: maxContrast %.2f must be between minContrast and 21", ErrInvalidSettings, s.MaxContrast)
	}
	if err := validatePercentRange("saturationRange", s.SaturationRange); err != nil {
		return err
	}
	if err := validatePercentRange("lightnessRange", s.LightnessRange); err != nil {
		return err
	}
	if _, err := ParseHarmony(string(s.Harmony)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

func validatePercentRange(name string, r [2]float64) error {
	if r[0] < 0 || r[1] > 100 || r[0] > r[1] {
		return fmt.Errorf("%w: %s [%g, %g] must satisfy 0 <= min <= max <= 100", ErrInvalidSettings, name, r[0], r[1])
	}
	return nil
}

func inRange(v float64, r [2]float64) bool {
	return v >= r[0] && v <= r[1]
}

// ParseRange parses "min,max" (or "min-max") percentages into a range.
func ParseRange(s string) ([2]float64, error) {
	sep := ","
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	lo, hi, ok := strings.Cut(strings.TrimSpace(s), sep)
	if !ok {
		return [2]float64{}, fmt.Errorf("%w: range %q must be min,max", ErrInvalidSettings, s)
	}

	minV, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("%w: range %q: %v", ErrInvalidSettings, s, err)
	}
	maxV, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("%w: range %q: %v", ErrInvalidSettings, s, err)
	}
	return [2]float64{minV, maxV}, nil
}
