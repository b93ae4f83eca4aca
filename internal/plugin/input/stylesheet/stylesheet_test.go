package stylesheet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/plugin/input"
)

const brandCSS = `
/* --brand: #000000; */
:root {
  --brand: #1a365d;
  --accent: var(--brand);
  --fallback: var(--missing, rgb(224, 122, 95));
  --spacing: 4px;
  --loop-a: var(--loop-b);
  --loop-b: var(--loop-a);
}
body { color: #333; background: url(paper.png); }
`

func TestParseColour(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "#1a365d", want: "#1a365d", wantOK: true},
		{in: "#ABC", want: "#aabbcc", wantOK: true},
		{in: "rgb(224, 122, 95)", want: "#e07a5f", wantOK: true},
		{in: "rgba(26 54 93 / 50%)", want: "#1a365d", wantOK: true},
		{in: "rgb(300, 0, 0)", want: "#ff0000", wantOK: true},
		{in: "hsl(0, 100%, 50%)", want: "#ff0000", wantOK: true},
		{in: "hsl(120deg 100% 25%)", want: "#008000", wantOK: true},
		{in: "oklab(1 0 0)", want: "#ffffff", wantOK: true},
		{in: "oklch(0% 0 0)", want: "#000000", wantOK: true},
		{in: "4px", wantOK: false},
		{in: "transparent", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColour(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseColour(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got.Hex() != tt.want {
				t.Errorf("ParseColour(%q) = %s, want %s", tt.in, got.Hex(), tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		css      string
		property string
		want     string
		wantErr  error
	}{
		{name: "named property", css: brandCSS, property: "--brand", want: "#1a365d"},
		{name: "name without dashes", css: brandCSS, property: "brand", want: "#1a365d"},
		{name: "var reference", css: brandCSS, property: "accent", want: "#1a365d"},
		{name: "var fallback", css: brandCSS, property: "fallback", want: "#e07a5f"},
		{name: "first custom property", css: brandCSS, want: "#1a365d"},
		{name: "standard property fallback", css: "a { color: #ff0000; }", want: "#ff0000"},
		{name: "custom beats earlier standard", css: "body { color: #333; } :root { --brand: #e07a5f; }", want: "#e07a5f"},
		{name: "missing property", css: brandCSS, property: "primary", wantErr: ErrPropertyNotFound},
		{name: "not a colour", css: brandCSS, property: "spacing", wantErr: ErrPropertyNotFound},
		{name: "var cycle", css: brandCSS, property: "loop-a", wantErr: ErrPropertyNotFound},
		{name: "no colours", css: "body { margin: 0; }", wantErr: input.ErrNoBaseColour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.css, tt.property)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Select() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if got.Colour.Hex() != tt.want {
				t.Errorf("Select() = %s (%s), want %s", got.Colour.Hex(), got.Property, tt.want)
			}
		})
	}
}

func TestExtractIgnoresComments(t *testing.T) {
	decls := Extract(brandCSS)
	for _, d := range decls {
		if d.Colour.Hex() == "#000000" {
			t.Errorf("commented-out declaration extracted: %+v", d)
		}
	}
	// --brand, --accent, --fallback and body color.
	if len(decls) != 4 {
		t.Errorf("Extract() returned %d declarations: %+v", len(decls), decls)
	}
}

func TestGenerateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.css")
	if err := os.WriteFile(path, []byte(brandCSS), 0o600); err != nil {
		t.Fatal(err)
	}

	p := New()
	cmd := &cobra.Command{Use: "test"}
	p.RegisterFlags(cmd)
	if err := cmd.Flags().Parse([]string{"--stylesheet.source", path, "--stylesheet.property=fallback"}); err != nil {
		t.Fatal(err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	got, err := p.Generate(context.Background(), input.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.Hex() != "#e07a5f" {
		t.Errorf("Generate() = %s", got.Hex())
	}
}

func TestGenerateFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		_, _ = w.Write([]byte(brandCSS))
	}))
	defer srv.Close()

	p := New()
	got, err := p.Generate(context.Background(), input.GenerateOptions{
		PluginArgs: map[string]any{"source": srv.URL + "/theme.css", "property": "accent"},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.Hex() != "#1a365d" {
		t.Errorf("Generate() = %s", got.Hex())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		source  string
		wantErr bool
	}{
		{source: "", wantErr: true},
		{source: "ftp://example.com/theme.css", wantErr: true},
		{source: "https://example.com/theme.css"},
		{source: "./theme.css"},
	}
	for _, tt := range tests {
		p := New()
		p.SetSource(tt.source, "")
		if err := p.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q) error = %v, wantErr %v", tt.source, err, tt.wantErr)
		}
	}
}
