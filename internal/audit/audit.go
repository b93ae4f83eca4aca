// Package audit checks foreground/background pairs listed in a file
// against the WCAG contrast thresholds.
//
// The file holds one pair per line: a foreground and a background colour,
// optionally followed by a free-text label. Colours are #rrggbb or #rgb and
// may be separated by whitespace or a comma. Blank lines, a bare # and lines
// starting with "# " are comments.
//
//	# brand palette
//	#ffffff #1a365d  primary button
//	#333,#f7f7f7
package audit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jmylchreest/wcagtint/internal/colour"
)

// ErrMalformedLine is returned for lines that are not a colour pair.
var ErrMalformedLine = errors.New("malformed audit line")

// Pair is one line of an audit file.
type Pair struct {
	Line       int        `json:"line"`
	Foreground colour.RGB `json:"fg"`
	Background colour.RGB `json:"bg"`
	Label      string     `json:"label,omitempty"`
}

// Result is the outcome of checking one pair.
type Result struct {
	Pair
	Ratio float64      `json:"ratio"`
	Level colour.Level `json:"level"`
}

// Passed reports whether the pair meets at least AA.
func (r Result) Passed() bool {
	return r.Level.Passes()
}

// Summary tallies results per level.
type Summary struct {
	Total  int `json:"total"`
	AAA    int `json:"aaa"`
	AA     int `json:"aa"`
	Failed int `json:"failed"`
}

// Parse reads pairs from r. Every malformed line is reported; the pairs
// that did parse are returned alongside the joined error.
func Parse(r io.Reader) ([]Pair, error) {
	var (
		pairs []Pair
		errs  []error
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if isComment(text) {
			continue
		}

		first, rest := nextField(text)
		second, rest := nextField(rest)
		if second == "" {
			errs = append(errs, fmt.Errorf("%w %d: expected foreground and background, got %q", ErrMalformedLine, line, text))
			continue
		}

		fg, err := parseColour(first)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w %d: foreground: %w", ErrMalformedLine, line, err))
			continue
		}
		bg, err := parseColour(second)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w %d: background: %w", ErrMalformedLine, line, err))
			continue
		}

		label := strings.Fields(strings.TrimLeftFunc(rest, isSeparator))
		pairs = append(pairs, Pair{
			Line:       line,
			Foreground: fg,
			Background: bg,
			Label:      strings.Join(label, " "),
		})
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("failed to read audit file: %w", err))
	}

	return pairs, errors.Join(errs...)
}

// ParseFile is Parse on a file.
func ParseFile(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func isComment(text string) bool {
	if text == "" || text == "#" {
		return true
	}
	rest, ok := strings.CutPrefix(text, "#")
	if !ok {
		return false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsSpace(r)
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// nextField splits off the leading colour token. Commas inside the
// remainder are left alone so labels can contain them.
func nextField(s string) (field, rest string) {
	s = strings.TrimLeftFunc(s, isSeparator)
	i := strings.IndexFunc(s, isSeparator)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// parseColour accepts #rrggbb and the #rgb shorthand.
func parseColour(s string) (colour.RGB, error) {
	if h, ok := strings.CutPrefix(s, "#"); ok && len(h) == 3 {
		s = "#" + string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	return colour.ParseHex(s)
}

// Check computes the contrast ratio and level of each pair.
func Check(pairs []Pair, largeText bool) []Result {
	results := make([]Result, len(pairs))
	for i, p := range pairs {
		ratio := colour.Contrast(p.Foreground, p.Background)
		results[i] = Result{
			Pair:  p,
			Ratio: ratio,
			Level: colour.WCAGLevel(ratio, largeText),
		}
	}
	return results
}

// Summarise counts results per level.
func Summarise(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Level {
		case colour.LevelAAA:
			s.AAA++
		case colour.LevelAA:
			s.AA++
		default:
			s.Failed++
		}
	}
	return s
}
