package common

import (
	"bytes"
	"testing"
	"text/template"

	"github.com/jmylchreest/wcagtint/internal/colour"
)

func testReport(t *testing.T) *colour.Report {
	t.Helper()
	report, err := colour.NewReport(colour.HexToRGB("#1a365d"), nil)
	if err != nil {
		t.Fatalf("NewReport() error: %v", err)
	}
	return report
}

func render(t *testing.T, text string, data any) string {
	t.Helper()
	tmpl, err := template.New("test").Funcs(TemplateFuncs()).Parse(text)
	if err != nil {
		t.Fatalf("Template parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		t.Fatalf("Template execute error: %v", err)
	}
	return buf.String()
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Split Comp 1 Medium", want: "split-comp-1-medium"},
		{in: "Base Dark", want: "base-dark"},
		{in: "  Complementary   Deep ", want: "complementary-deep"},
		{in: "Analogous/2 (Light)", want: "analogous-2-light"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTemplateFuncs_Formats(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{name: "hex from string", tmpl: `{{ hex "1A365D" }}`, want: "#1a365d"},
		{name: "hexNoHash", tmpl: `{{ hexNoHash "#1a365d" }}`, want: "1a365d"},
		{name: "rgb", tmpl: `{{ rgb "#1a365d" }}`, want: "rgb(26, 54, 93)"},
		{name: "rgbDecimal", tmpl: `{{ rgbDecimal "#ffffff" }}`, want: "255,255,255"},
		{name: "ratio", tmpl: `{{ ratio 4.5 }}`, want: "4.50:1"},
		{name: "title", tmpl: `{{ title "base dark" }}`, want: "Base Dark"},
		{name: "trimPrefix", tmpl: `{{ "#abcdef" | trimPrefix "#" }}`, want: "abcdef"},
		{name: "replace", tmpl: `{{ "a b" | replace " " "_" }}`, want: "a_b"},
		{name: "slug", tmpl: `{{ slug "Triadic 2 Light" }}`, want: "triadic-2-light"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render(t, tt.tmpl, nil); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplateFuncs_Report(t *testing.T) {
	report := testReport(t)

	got := render(t, `{{ count . }} {{ levelCount . "AAA" }} {{ levelCount . "AA" }} {{ (combination . 0).Name }} {{ hex .Base }}`, report)
	want := "32 23 9 Analogous 1 Dark #1a365d"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTemplateFuncs_Errors(t *testing.T) {
	report := testReport(t)

	for _, text := range []string{`{{ hex "nope" }}`, `{{ hex 42 }}`, `{{ combination . 99 }}`} {
		tmpl := template.Must(template.New("test").Funcs(TemplateFuncs()).Parse(text))
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, report); err == nil {
			t.Errorf("%s: expected execution error", text)
		}
	}
}
