package image

import (
	"context"
	"errors"
	goimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/plugin/input"
)

func writeSwatch(t *testing.T, c color.NRGBA) string {
	t.Helper()
	img := goimage.NewNRGBA(goimage.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "swatch.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

// stubLoader records the requested path and returns a fixed image.
type stubLoader struct {
	img  goimage.Image
	path string
}

func (s *stubLoader) Load(_ context.Context, path string) (goimage.Image, error) {
	s.path = path
	return s.img, nil
}

func TestPluginMetadata(t *testing.T) {
	p := New()
	if p.Name() != "image" {
		t.Errorf("Name() = %q", p.Name())
	}
	if p.Description() == "" || p.Version() == "" {
		t.Error("Description() and Version() should be set")
	}
	if len(p.GetFlagHelp()) != 3 {
		t.Errorf("GetFlagHelp() returned %d entries", len(p.GetFlagHelp()))
	}
}

func TestGenerateFromFile(t *testing.T) {
	path := writeSwatch(t, color.NRGBA{R: 0x1a, G: 0x36, B: 0x5d, A: 255})

	p := New()
	cmd := &cobra.Command{Use: "test"}
	p.RegisterFlags(cmd)
	if err := cmd.Flags().Parse([]string{"--image.path", path}); err != nil {
		t.Fatal(err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	got, err := p.Generate(context.Background(), input.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.Hex() != "#1a365d" {
		t.Errorf("Generate() = %s, want #1a365d", got.Hex())
	}
	if p.ImagePath() != path {
		t.Errorf("ImagePath() = %q", p.ImagePath())
	}
}

func TestGeneratePathFromPluginArgs(t *testing.T) {
	path := writeSwatch(t, color.NRGBA{R: 0xe0, G: 0x7a, B: 0x5f, A: 255})

	got, err := New().Generate(context.Background(), input.GenerateOptions{PluginArgs: map[string]any{"path": path}})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got.Hex() != "#e07a5f" {
		t.Errorf("Generate() = %s", got.Hex())
	}
}

func TestGenerateUsesLoader(t *testing.T) {
	img := goimage.NewNRGBA(goimage.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	stub := &stubLoader{img: img}

	p := New()
	p.loader = stub
	p.SetPath("https://example.com/wallpaper.png")

	got, err := p.Generate(context.Background(), input.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if stub.path != "https://example.com/wallpaper.png" {
		t.Errorf("loader called with %q", stub.path)
	}
	// 0x80 alpha is just above half opacity; NRGBA channels stay 0x80.
	if got.Hex() != "#808080" {
		t.Errorf("Generate() = %s", got.Hex())
	}
}

func TestValidate(t *testing.T) {
	p := New()
	if err := p.Validate(); !errors.Is(err, input.ErrNoBaseColour) {
		t.Errorf("Validate() error = %v, want ErrNoBaseColour", err)
	}

	p.SetPath(filepath.Join(t.TempDir(), "missing.png"))
	if err := p.Validate(); err == nil {
		t.Error("Validate() should fail for a missing file")
	}

	if _, err := New().Generate(context.Background(), input.GenerateOptions{}); !errors.Is(err, input.ErrNoBaseColour) {
		t.Errorf("Generate() error = %v, want ErrNoBaseColour", err)
	}
}
