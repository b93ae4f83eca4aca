package random

import (
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/input"
	"github.com/jmylchreest/wcagtint/internal/plugin/input/shared/seed"
)

func TestSeedFlagImpliesManual(t *testing.T) {
	p := New()
	cmd := &cobra.Command{Use: "test"}
	p.RegisterFlags(cmd)

	if err := cmd.Flags().Parse([]string{"--random.seed", "42"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	got, err := p.Generate(context.Background(), input.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	want := colour.RandomRGB(colour.NewSeededSampler(42))
	if got != want {
		t.Errorf("Generate() = %s, want %s", got.Hex(), want.Hex())
	}
	if p.LastSeed() != 42 {
		t.Errorf("LastSeed() = %d", p.LastSeed())
	}
}

func TestSeedFlagRejectsGarbage(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	New().RegisterFlags(cmd)
	if err := cmd.Flags().Parse([]string{"--random.seed", "blue"}); err == nil {
		t.Error("Parse() expected error for non-numeric seed")
	}
}

func TestTextMode(t *testing.T) {
	a, b := New(), New()
	a.SetText("Acme Corp")
	b.SetText("acme  corp")

	ca, err := a.Generate(context.Background(), input.GenerateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	cb, err := b.Generate(context.Background(), input.GenerateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if ca != cb {
		t.Errorf("same text produced %s and %s", ca.Hex(), cb.Hex())
	}
	if a.LastSeed() != seed.TextSeed("acme corp") {
		t.Errorf("LastSeed() = %d", a.LastSeed())
	}
}

func TestValidate(t *testing.T) {
	p := New()
	p.seedMode = "content"
	if err := p.Validate(); err == nil {
		t.Error("Validate() expected error for unknown mode")
	}

	p = New()
	p.seedMode = seed.ModeText
	if err := p.Validate(); err == nil {
		t.Error("Validate() expected error for text mode without text")
	}

	p = New()
	p.seedMode = seed.ModeManual
	if _, err := p.Generate(context.Background(), input.GenerateOptions{}); err == nil {
		t.Error("Generate() expected error for manual mode without seed")
	}
}

func TestPluginArgsSeed(t *testing.T) {
	p := New()
	got, err := p.Generate(context.Background(), input.GenerateOptions{
		PluginArgs: map[string]any{"seed": float64(7)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := colour.RandomRGB(colour.NewSeededSampler(7)); got != want {
		t.Errorf("Generate() = %s, want %s", got.Hex(), want.Hex())
	}
}

func TestRandomIsVivid(t *testing.T) {
	p := New()
	for range 50 {
		c, err := p.Generate(context.Background(), input.GenerateOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if hsl := c.HSL(); hsl.L < 29 || hsl.L > 71 {
			t.Errorf("%s lightness %.1f outside [30, 70)", c.Hex(), hsl.L)
		}
	}
}
