// Package stylesheet provides an input plugin that takes the base colour from
// a CSS file or URL, either a named custom property or the first colour found.
package stylesheet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/input"
	httputil "github.com/jmylchreest/wcagtint/internal/util/http"
)

// maxVarDepth bounds var() indirection.
const maxVarDepth = 8

var (
	declRegex  = regexp.MustCompile(`([a-zA-Z-][a-zA-Z0-9_-]*)\s*:\s*([^;{}]+)`)
	varRegex   = regexp.MustCompile(`^var\(\s*(--[a-zA-Z0-9_-]+)\s*(?:,\s*(.+))?\)$`)
	hexRegex   = regexp.MustCompile(`#([0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)
	rgbRegex   = regexp.MustCompile(`rgba?\s*\(\s*([0-9.]+)\s*,?\s*([0-9.]+)\s*,?\s*([0-9.]+)`)
	hslRegex   = regexp.MustCompile(`hsla?\s*\(\s*([0-9.]+)(?:deg)?\s*,?\s*([0-9.]+)%?\s*,?\s*([0-9.]+)%?`)
	oklchRegex = regexp.MustCompile(`oklch\s*\(\s*([0-9.]+)(%?)\s+([0-9.]+)\s+([0-9.]+)`)
	oklabRegex = regexp.MustCompile(`oklab\s*\(\s*([0-9.]+)(%?)\s+([0-9.-]+)\s+([0-9.-]+)`)
)

// colourProperties are the standard properties scanned when no custom property is named.
var colourProperties = map[string]bool{
	"color":            true,
	"background-color": true,
	"background":       true,
	"border-color":     true,
	"fill":             true,
	"stroke":           true,
}

// ErrPropertyNotFound is returned when the requested custom property is absent
// or does not hold a colour.
var ErrPropertyNotFound = errors.New("custom property not found")

// Declaration is a colour-valued CSS declaration.
type Declaration struct {
	Property string
	Value    string
	Colour   colour.RGB
}

// Plugin implements input.Plugin for CSS sources.
type Plugin struct {
	source   string
	property string
	timeout  time.Duration
}

// New creates a new stylesheet input plugin.
func New() *Plugin {
	return &Plugin{
		timeout: httputil.DefaultTimeout,
	}
}

func (p *Plugin) Name() string {
	return "stylesheet"
}

func (p *Plugin) Description() string {
	return "Take the base colour from a CSS file or URL (a custom property or the first colour)"
}

func (p *Plugin) Version() string {
	return "0.1.0"
}

func (p *Plugin) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.source, "stylesheet.source", "", "CSS file path or HTTP(S) URL")
	cmd.Flags().StringVar(&p.property, "stylesheet.property", "", "Custom property holding the base colour (e.g. --brand)")
	cmd.Flags().DurationVar(&p.timeout, "stylesheet.timeout", httputil.DefaultTimeout, "HTTP timeout")
}

// SetSource sets the stylesheet location and property without going through flags.
func (p *Plugin) SetSource(source, property string) {
	p.source = source
	p.property = property
}

func (p *Plugin) Validate() error {
	if p.source == "" {
		return fmt.Errorf("%w: --stylesheet.source is required", input.ErrNoBaseColour)
	}
	if strings.Contains(p.source, "://") && !httputil.IsURL(p.source) {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}

func (p *Plugin) GetFlagHelp() []input.FlagHelp {
	return []input.FlagHelp{
		{Name: "stylesheet.source", Type: "string", Description: "CSS file path or HTTP(S) URL", Required: true},
		{Name: "stylesheet.property", Type: "string", Description: "Custom property holding the base colour (e.g. --brand)"},
		{Name: "stylesheet.timeout", Type: "duration", Default: "10s", Description: "HTTP timeout"},
	}
}

// Generate reads the stylesheet and returns the selected colour.
func (p *Plugin) Generate(ctx context.Context, opts input.GenerateOptions) (colour.RGB, error) {
	source, property := p.source, p.property
	if v, ok := opts.PluginArgs["source"].(string); ok && v != "" {
		source = v
	}
	if v, ok := opts.PluginArgs["property"].(string); ok && v != "" {
		property = v
	}
	if source == "" {
		return colour.RGB{}, input.ErrNoBaseColour
	}

	content, err := p.read(ctx, source)
	if err != nil {
		return colour.RGB{}, fmt.Errorf("failed to read stylesheet: %w", err)
	}
	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "→ Read %d bytes from %s\n", len(content), source)
	}

	decl, err := Select(string(content), property)
	if err != nil {
		return colour.RGB{}, err
	}
	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "   %s: %s → %s\n", decl.Property, decl.Value, decl.Colour.Hex())
	}
	return decl.Colour, nil
}

func (p *Plugin) read(ctx context.Context, source string) ([]byte, error) {
	if httputil.IsURL(source) {
		return httputil.Fetch(ctx, source, httputil.FetchOptions{
			Timeout: p.timeout,
			Headers: map[string]string{"Accept": "text/css,*/*;q=0.1"},
		})
	}
	return os.ReadFile(source) // #nosec G304 -- user-specified stylesheet
}

// Select picks the base colour from CSS. With a property name it resolves
// that custom property, following var() references. Without one it returns
// the first colour-valued custom property, falling back to the first
// standard colour property.
func Select(css, property string) (Declaration, error) {
	vars := customProperties(css)

	if property != "" {
		name := "--" + strings.TrimPrefix(property, "--")
		raw, ok := vars[name]
		if !ok {
			return Declaration{}, fmt.Errorf("%w: %s", ErrPropertyNotFound, name)
		}
		c, ok := resolve(raw, vars, 0)
		if !ok {
			return Declaration{}, fmt.Errorf("%w: %s is not a colour (%s)", ErrPropertyNotFound, name, raw)
		}
		return Declaration{Property: name, Value: raw, Colour: c}, nil
	}

	decls := Extract(css)
	if len(decls) == 0 {
		return Declaration{}, fmt.Errorf("%w: no colours found in stylesheet", input.ErrNoBaseColour)
	}
	for _, d := range decls {
		if strings.HasPrefix(d.Property, "--") {
			return d, nil
		}
	}
	return decls[0], nil
}

// Extract returns every colour-valued declaration in document order: custom
// properties plus the standard colour properties.
func Extract(css string) []Declaration {
	css = stripComments(css)
	vars := customProperties(css)

	var out []Declaration
	for _, m := range declRegex.FindAllStringSubmatch(css, -1) {
		prop := strings.ToLower(m[1])
		if !strings.HasPrefix(prop, "--") && !colourProperties[prop] {
			continue
		}
		value := strings.TrimSpace(m[2])
		if c, ok := resolve(value, vars, 0); ok {
			out = append(out, Declaration{Property: m[1], Value: value, Colour: c})
		}
	}
	return out
}

// customProperties maps custom property names to their last declared value.
func customProperties(css string) map[string]string {
	vars := make(map[string]string)
	for _, m := range declRegex.FindAllStringSubmatch(stripComments(css), -1) {
		if strings.HasPrefix(m[1], "--") {
			vars[m[1]] = strings.TrimSpace(m[2])
		}
	}
	return vars
}

func resolve(value string, vars map[string]string, depth int) (colour.RGB, bool) {
	if depth > maxVarDepth {
		return colour.RGB{}, false
	}
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))

	if m := varRegex.FindStringSubmatch(value); m != nil {
		if ref, ok := vars[m[1]]; ok {
			if c, ok := resolve(ref, vars, depth+1); ok {
				return c, true
			}
		}
		if m[2] != "" {
			return resolve(m[2], vars, depth+1)
		}
		return colour.RGB{}, false
	}
	return ParseColour(value)
}

func stripComments(css string) string {
	for {
		start := strings.Index(css, "/*")
		if start < 0 {
			return css
		}
		end := strings.Index(css[start+2:], "*/")
		if end < 0 {
			return css[:start]
		}
		css = css[:start] + css[start+2+end+2:]
	}
}

// ParseColour converts a CSS colour value to RGB.
// Supports: hex (3 or 6 digits), rgb/rgba, hsl/hsla, oklch and oklab.
func ParseColour(value string) (colour.RGB, bool) {
	value = strings.TrimSpace(value)

	if m := hexRegex.FindStringSubmatch(value); m != nil {
		hex := m[1]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		c, err := colour.ParseHex(hex)
		return c, err == nil
	}

	if m := rgbRegex.FindStringSubmatch(value); m != nil {
		// Regex guarantees these are valid floats.
		r, _ := strconv.ParseFloat(m[1], 64) //nolint:errcheck
		g, _ := strconv.ParseFloat(m[2], 64) //nolint:errcheck
		b, _ := strconv.ParseFloat(m[3], 64) //nolint:errcheck
		return colour.RGB{R: channel(r), G: channel(g), B: channel(b)}, true
	}

	if m := hslRegex.FindStringSubmatch(value); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64) //nolint:errcheck
		s, _ := strconv.ParseFloat(m[2], 64) //nolint:errcheck
		l, _ := strconv.ParseFloat(m[3], 64) //nolint:errcheck
		return colour.HSLToRGB(math.Mod(h, 360), math.Min(s, 100), math.Min(l, 100)), true
	}

	if m := oklchRegex.FindStringSubmatch(value); m != nil {
		l := lightness(m[1], m[2])
		c, _ := strconv.ParseFloat(m[3], 64) //nolint:errcheck
		h, _ := strconv.ParseFloat(m[4], 64) //nolint:errcheck
		hRad := h * math.Pi / 180.0
		return oklabToRGB(l, c*math.Cos(hRad), c*math.Sin(hRad)), true
	}

	if m := oklabRegex.FindStringSubmatch(value); m != nil {
		l := lightness(m[1], m[2])
		a, _ := strconv.ParseFloat(m[3], 64) //nolint:errcheck
		b, _ := strconv.ParseFloat(m[4], 64) //nolint:errcheck
		return oklabToRGB(l, a, b), true
	}

	return colour.RGB{}, false
}

// lightness reads an OKLab L component given as 0-1 or a percentage.
func lightness(v, pct string) float64 {
	l, _ := strconv.ParseFloat(v, 64) //nolint:errcheck
	if pct == "%" {
		l /= 100
	}
	return l
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v)))) // #nosec G115 -- clamped to 0-255
}

// oklabToRGB converts OKLab to sRGB.
// Reference: https://bottosson.github.io/posts/oklab/.
func oklabToRGB(l, a, b float64) colour.RGB {
	lVal := l + 0.3963377774*a + 0.2158037573*b
	mVal := l - 0.1055613458*a - 0.0638541728*b
	sVal := l - 0.0894841775*a - 1.2914855480*b

	lVal = lVal * lVal * lVal
	mVal = mVal * mVal * mVal
	sVal = sVal * sVal * sVal

	r := +4.0767416621*lVal - 3.3077115913*mVal + 0.2309699292*sVal
	g := -1.2684380046*lVal + 2.6097574011*mVal - 0.3413193965*sVal
	bVal := -0.0041960863*lVal - 0.7034186147*mVal + 1.7076147010*sVal

	return colour.RGB{
		R: channel(linearToSRGB(r) * 255),
		G: channel(linearToSRGB(g) * 255),
		B: channel(linearToSRGB(bVal) * 255),
	}
}

func linearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1.0/2.4) - 0.055
}
