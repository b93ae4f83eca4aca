package googlegenai

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/input"
)

type fakeGenerator struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (f *fakeGenerator) GenerateText(_ context.Context, _, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func newTestPlugin(t *testing.T, gen *fakeGenerator) *Plugin {
	t.Helper()
	p := New()
	p.cacheDir = t.TempDir()
	p.generator = gen
	p.SetPrompt("calm ocean bank")
	return p
}

func TestNew(t *testing.T) {
	p := New()
	if p.Name() != "genai" {
		t.Errorf("Name() = %q", p.Name())
	}
	if p.model != defaultModel || p.backend != defaultBackend {
		t.Errorf("defaults = %q, %q", p.model, p.backend)
	}
	if !p.cacheEnabled {
		t.Error("cache should be enabled by default")
	}
}

func TestRegisterFlags(t *testing.T) {
	p := New()
	cmd := &cobra.Command{Use: "test"}
	p.RegisterFlags(cmd)

	for _, help := range p.GetFlagHelp() {
		if cmd.Flags().Lookup(help.Name) == nil {
			t.Errorf("flag %q documented but not registered", help.Name)
		}
	}

	if err := cmd.Flags().Parse([]string{"--genai.prompt", "forest", "--genai.backend", "vertex-ai"}); err != nil {
		t.Fatal(err)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	p := New()
	if err := p.Validate(); !errors.Is(err, input.ErrNoBaseColour) {
		t.Errorf("Validate() without prompt = %v", err)
	}

	p.SetPrompt("sunset")
	p.backend = "openai"
	if err := p.Validate(); err == nil {
		t.Error("Validate() expected error for unknown backend")
	}
}

func TestExtractHex(t *testing.T) {
	tests := []struct {
		reply   string
		want    string
		wantErr bool
	}{
		{reply: "#1a365d", want: "#1a365d"},
		{reply: "Sure! Try `#2E8B57` for a calm feel.", want: "#2e8b57"},
		{reply: "ff8000\n", want: "#ff8000"},
		{reply: "I suggest navy blue.", wantErr: true},
	}

	for _, tt := range tests {
		got, err := extractHex(tt.reply)
		if tt.wantErr {
			if !errors.Is(err, input.ErrNoBaseColour) {
				t.Errorf("extractHex(%q) error = %v", tt.reply, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("extractHex(%q) error = %v", tt.reply, err)
			continue
		}
		if got.Hex() != tt.want {
			t.Errorf("extractHex(%q) = %s, want %s", tt.reply, got.Hex(), tt.want)
		}
	}
}

func TestGenerateUsesCache(t *testing.T) {
	gen := &fakeGenerator{reply: "#1A365D"}
	p := newTestPlugin(t, gen)

	for range 2 {
		got, err := p.Generate(context.Background(), input.GenerateOptions{})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if got != (colour.RGB{R: 26, G: 54, B: 93}) {
			t.Errorf("Generate() = %s", got.Hex())
		}
	}

	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1 (second call cached)", gen.calls)
	}
	if !strings.Contains(gen.prompt, "calm ocean bank") {
		t.Errorf("prompt %q does not include the description", gen.prompt)
	}
	if _, err := os.Stat(p.cachePath()); err != nil {
		t.Errorf("cache file missing: %v", err)
	}
}

func TestGenerateNoCache(t *testing.T) {
	gen := &fakeGenerator{reply: "#ff0000"}
	p := newTestPlugin(t, gen)
	p.cacheEnabled = false

	for range 2 {
		if _, err := p.Generate(context.Background(), input.GenerateOptions{}); err != nil {
			t.Fatal(err)
		}
	}
	if gen.calls != 2 {
		t.Errorf("generator called %d times, want 2", gen.calls)
	}
}

func TestGenerateErrors(t *testing.T) {
	p := newTestPlugin(t, &fakeGenerator{err: errors.New("quota exceeded")})
	if _, err := p.Generate(context.Background(), input.GenerateOptions{}); err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Generate() error = %v", err)
	}

	p = newTestPlugin(t, &fakeGenerator{reply: "blue"})
	if _, err := p.Generate(context.Background(), input.GenerateOptions{}); !errors.Is(err, input.ErrNoBaseColour) {
		t.Errorf("Generate() error = %v, want ErrNoBaseColour", err)
	}

	gen := &fakeGenerator{reply: "#ffffff"}
	p = newTestPlugin(t, gen)
	if _, err := p.Generate(context.Background(), input.GenerateOptions{DryRun: true}); err == nil {
		t.Error("Generate() in dry run without cache should fail")
	}
	if gen.calls != 0 {
		t.Error("dry run should not call the model")
	}
}

func TestClientSetupRequiresKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	p := New()
	if _, err := p.clientSetup(context.Background(), false); err == nil || !strings.Contains(err.Error(), "GOOGLE_API_KEY") {
		t.Errorf("clientSetup() error = %v", err)
	}
}
