package colour

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Report is the result of one palette generation run.
type Report struct {
	BaseHex      string          `json:"base"`
	Base         RGB             `json:"base_rgb"`
	BaseHSL      HSL             `json:"base_hsl"`
	Expert       bool            `json:"expert"`
	Settings     *ExpertSettings `json:"settings,omitempty"`
	Combinations []Combination   `json:"combinations"`
}

// NewReport generates a palette for base. With nil settings the fixed
// generator runs; otherwise the expert settings are validated and applied.
func NewReport(base RGB, settings *ExpertSettings) (*Report, error) {
	hex := base.Hex()

	var combos []Combination
	if settings == nil {
		combos = GenerateAccessiblePalette(hex)
	} else {
		var err error
		combos, err = GeneratePaletteWithSettings(hex, *settings)
		if err != nil {
			return nil, err
		}
	}

	return &Report{
		BaseHex:      hex,
		Base:         base,
		BaseHSL:      base.HSL(),
		Expert:       settings != nil,
		Settings:     settings,
		Combinations: combos,
	}, nil
}

// Len returns the number of combinations.
func (r *Report) Len() int {
	return len(r.Combinations)
}

// Get returns the combination at the specified index.
func (r *Report) Get(index int) (Combination, error) {
	if index < 0 || index >= len(r.Combinations) {
		return Combination{}, fmt.Errorf("index out of bounds: %d (report has %d combinations)", index, len(r.Combinations))
	}
	return r.Combinations[index], nil
}

// All returns an iterator over all combinations.
func (r *Report) All() func(func(int, Combination) bool) {
	return func(yield func(int, Combination) bool) {
		for i, c := range r.Combinations {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Counts tallies combinations per WCAG level.
func (r *Report) Counts() map[Level]int {
	counts := map[Level]int{LevelAAA: 0, LevelAA: 0, LevelFail: 0}
	for _, c := range r.Combinations {
		counts[c.Level]++
	}
	return counts
}

// ToJSON converts the report to indented JSON.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// String returns a human-readable listing of the report.
func (r *Report) String() string {
	if len(r.Combinations) == 0 {
		return fmt.Sprintf("No accessible combinations for %s\n", r.BaseHex)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Accessible palette for %s (%s), %d combinations:\n", r.BaseHex, r.BaseHSL, len(r.Combinations))
	for i, c := range r.Combinations {
		fmt.Fprintf(&b, "  %2d: %-22s %s on %s  %5.2f:1  %s\n", i+1, c.Name, c.Text, c.Background, c.Ratio, c.Level)
	}
	return b.String()
}
