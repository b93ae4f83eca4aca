package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/wcagtint/internal/colour"
)

// harmonyValue is a pflag.Value restricted to the known harmonies.
type harmonyValue struct {
	h *colour.Harmony
}

var _ pflag.Value = (*harmonyValue)(nil)

func (v *harmonyValue) String() string {
	if v.h == nil {
		return ""
	}
	return v.h.String()
}

func (v *harmonyValue) Set(s string) error {
	h, err := colour.ParseHarmony(s)
	if err != nil {
		return err
	}
	*v.h = h
	return nil
}

func (v *harmonyValue) Type() string {
	return "harmony"
}

// rangeValue is a pflag.Value for "min,max" percentage ranges.
type rangeValue struct {
	r *[2]float64
}

var _ pflag.Value = (*rangeValue)(nil)

func (v *rangeValue) String() string {
	if v.r == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g", v.r[0], v.r[1])
}

func (v *rangeValue) Set(s string) error {
	r, err := colour.ParseRange(s)
	if err != nil {
		return err
	}
	*v.r = r
	return nil
}

func (v *rangeValue) Type() string {
	return "min,max"
}

// expertFlags binds the expert settings to a flag set.
type expertFlags struct {
	enabled  bool
	settings colour.ExpertSettings
}

func (e *expertFlags) register(fs *pflag.FlagSet) {
	e.settings = colour.DefaultExpertSettings()

	harmonies := make([]string, 0, len(colour.ValidHarmonies()))
	for _, h := range colour.ValidHarmonies() {
		harmonies = append(harmonies, h.String())
	}

	fs.BoolVar(&e.enabled, "expert", false, "Use the expert generator (implied by any of the expert flags)")
	fs.Float64Var(&e.settings.MinContrast, "min-contrast", e.settings.MinContrast, "Minimum contrast ratio to keep")
	fs.Float64Var(&e.settings.MaxContrast, "max-contrast", e.settings.MaxContrast, "Maximum contrast ratio to keep")
	fs.Var(&rangeValue{r: &e.settings.SaturationRange}, "saturation-range", "Saturation range in percent")
	fs.Var(&rangeValue{r: &e.settings.LightnessRange}, "lightness-range", "Lightness range in percent")
	fs.Var(&harmonyValue{h: &e.settings.Harmony}, "harmony", "Hue families to include ("+strings.Join(harmonies, ", ")+")")
}

// resolve returns nil unless expert generation was requested.
func (e *expertFlags) resolve(fs *pflag.FlagSet) *colour.ExpertSettings {
	for _, name := range []string{"min-contrast", "max-contrast", "saturation-range", "lightness-range", "harmony"} {
		if fs.Changed(name) {
			e.enabled = true
		}
	}
	if !e.enabled {
		return nil
	}
	s := e.settings
	return &s
}
