// Package common provides shared utilities for output plugins.
package common

import (
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jmylchreest/wcagtint/internal/colour"
)

// TemplateFuncs returns standard template functions for all output plugins.
// Templates receive a *colour.Report or one of its combinations.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// Combination access.
		"combination": combinationFunc,
		"count":       countFunc,
		"levelCount":  levelCountFunc,
		"inc":         func(i int) int { return i + 1 },

		// Format conversion.
		"hex":        hexFunc,
		"hexNoHash":  hexNoHashFunc,
		"rgb":        rgbFunc,
		"rgbDecimal": rgbDecimalFunc,
		"hsl":        hslFunc,
		"ratio":      ratioFunc,

		// Naming.
		"slug":  Slug,
		"title": titleFunc,

		// String manipulation (custom wrappers for pipe-friendly argument order).
		"trimPrefix": trimPrefixFunc,
		"replace":    replaceFunc,
		"toLower":    strings.ToLower,
		"toUpper":    strings.ToUpper,
	}
}

// Slug converts a combination name such as "Split Comp 1 Medium" into a
// lowercase identifier ("split-comp-1-medium") usable in CSS and file names.
func Slug(name string) string {
	folded := cases.Lower(language.Und).String(name)

	var b strings.Builder
	dash := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// combinationFunc returns the combination at index.
func combinationFunc(report *colour.Report, index int) (colour.Combination, error) {
	return report.Get(index)
}

func countFunc(report *colour.Report) int {
	return report.Len()
}

// levelCountFunc counts the combinations at the named level ("AAA", "AA").
func levelCountFunc(report *colour.Report, level string) int {
	return report.Counts()[colour.Level(level)]
}

// hexFunc normalises any colour representation to #rrggbb.
// Accepts a hex string or a colour.RGB so templates can pass either.
func hexFunc(v any) (string, error) {
	rgb, err := toRGB(v)
	if err != nil {
		return "", err
	}
	return rgb.Hex(), nil
}

// hexNoHashFunc returns the colour in rrggbb format (no # prefix).
func hexNoHashFunc(v any) (string, error) {
	hex, err := hexFunc(v)
	return strings.TrimPrefix(hex, "#"), err
}

// rgbFunc returns the colour in CSS rgb(r, g, b) format.
func rgbFunc(v any) (string, error) {
	rgb, err := toRGB(v)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B), nil
}

// rgbDecimalFunc returns the colour as "r,g,b".
func rgbDecimalFunc(v any) (string, error) {
	rgb, err := toRGB(v)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d,%d,%d", rgb.R, rgb.G, rgb.B), nil
}

func hslFunc(v any) (string, error) {
	rgb, err := toRGB(v)
	if err != nil {
		return "", err
	}
	return rgb.HSL().String(), nil
}

// ratioFunc formats a contrast ratio as "n.nn:1".
func ratioFunc(ratio float64) string {
	return fmt.Sprintf("%.2f:1", ratio)
}

func titleFunc(s string) string {
	return cases.Title(language.English).String(s)
}

func toRGB(v any) (colour.RGB, error) {
	switch c := v.(type) {
	case colour.RGB:
		return c, nil
	case string:
		return colour.ParseHex(c)
	default:
		return colour.RGB{}, fmt.Errorf("expected hex string or colour.RGB, got %T", v)
	}
}

// trimPrefixFunc removes a prefix from a string (pipe-friendly argument order).
//
//	{{ value | trimPrefix "#" }}
func trimPrefixFunc(prefix, s string) string {
	return strings.TrimPrefix(s, prefix)
}

// replaceFunc replaces all occurrences of old with new (pipe-friendly argument order).
//
//	{{ value | replace " " "_" }}
func replaceFunc(old, new, s string) string {
	return strings.ReplaceAll(s, old, new)
}
