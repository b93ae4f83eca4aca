package image

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmylchreest/wcagtint/internal/colour"
	httputil "github.com/jmylchreest/wcagtint/internal/util/http"
)

// fill paints rows [y0, y1) of img with c.
func fill(img *image.NRGBA, y0, y1 int, c color.NRGBA) {
	for y := y0; y < y1; y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
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

func TestDominantColour(t *testing.T) {
	navy := color.NRGBA{R: 0x1a, G: 0x36, B: 0x5d, A: 255}
	coral := color.NRGBA{R: 0xe0, G: 0x7a, B: 0x5f, A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	tests := []struct {
		name  string
		build func() *image.NRGBA
		opts  DominantOptions
		want  colour.RGB
	}{
		{
			name: "uniform",
			build: func() *image.NRGBA {
				img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
				fill(img, 0, 10, navy)
				return img
			},
			want: colour.HexToRGB("#1a365d"),
		},
		{
			name: "majority wins",
			build: func() *image.NRGBA {
				img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
				fill(img, 0, 7, coral)
				fill(img, 7, 10, navy)
				return img
			},
			want: colour.HexToRGB("#e07a5f"),
		},
		{
			name: "transparent pixels ignored",
			build: func() *image.NRGBA {
				img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
				fill(img, 0, 8, color.NRGBA{R: 255, A: 10})
				fill(img, 8, 10, navy)
				return img
			},
			want: colour.HexToRGB("#1a365d"),
		},
		{
			name: "extremes kept by default",
			build: func() *image.NRGBA {
				img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
				fill(img, 0, 8, white)
				fill(img, 8, 10, coral)
				return img
			},
			want: colour.RGB{R: 255, G: 255, B: 255},
		},
		{
			name: "extremes skipped",
			build: func() *image.NRGBA {
				img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
				fill(img, 0, 8, white)
				fill(img, 8, 10, coral)
				return img
			},
			opts: DominantOptions{SkipExtremes: true},
			want: colour.HexToRGB("#e07a5f"),
		},
		{
			name: "only extremes falls back",
			build: func() *image.NRGBA {
				img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
				fill(img, 0, 4, white)
				return img
			},
			opts: DominantOptions{SkipExtremes: true},
			want: colour.RGB{R: 255, G: 255, B: 255},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DominantColour(tt.build(), tt.opts)
			if err != nil {
				t.Fatalf("DominantColour() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DominantColour() = %s, want %s", got.Hex(), tt.want.Hex())
			}
		})
	}
}

func TestDominantColourNoOpaquePixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	if _, err := DominantColour(img, DominantOptions{}); err != ErrNoOpaquePixels {
		t.Errorf("error = %v, want ErrNoOpaquePixels", err)
	}
	if _, err := DominantColour(image.NewNRGBA(image.Rect(0, 0, 0, 0)), DominantOptions{}); err != ErrNoOpaquePixels {
		t.Errorf("empty image error = %v, want ErrNoOpaquePixels", err)
	}
}

func TestDominantColourLargeImageIsSampled(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 600, 600))
	fill(img, 0, 600, color.NRGBA{R: 0x2a, G: 0x9d, B: 0x8f, A: 255})

	got, err := DominantColour(img, DominantOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if got.Hex() != "#2a9d8f" {
		t.Errorf("DominantColour() = %s", got.Hex())
	}
}

func TestSourceLoadFile(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	path := writePNG(t, dir, "tile.png", img)

	got, err := Source{}.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Bounds().Dx() != 3 || got.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", got.Bounds())
	}

	for _, bad := range []string{"", filepath.Join(dir, "missing.png"), dir} {
		if _, err := (Source{}).Load(context.Background(), bad); err == nil {
			t.Errorf("Load(%q) should fail", bad)
		}
	}
}

func TestSourceLoadURL(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	fill(img, 0, 2, color.NRGBA{R: 0xe0, G: 0x7a, B: 0x5f, A: 255})
	path := writePNG(t, dir, "remote.png", img)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, path)
	}))
	defer srv.Close()

	got, err := Source{Fetch: httputil.FetchOptions{MaxBytes: 1 << 20}}.Load(context.Background(), srv.URL+"/remote.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	base, err := DominantColour(got, DominantOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if base.Hex() != "#e07a5f" {
		t.Errorf("dominant colour = %s", base.Hex())
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	only := writePNG(t, dir, "only.png", image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Resolve(dir)
	if err != nil || got != only {
		t.Errorf("Resolve(dir) = %q, %v", got, err)
	}
	if got, _ := Resolve(only); got != only {
		t.Errorf("Resolve(file) = %q", got)
	}
	if got, _ := Resolve("https://example.com/a.png"); got != "https://example.com/a.png" {
		t.Errorf("Resolve(url) = %q", got)
	}
	if _, err := Resolve(t.TempDir()); !errors.Is(err, ErrNoImages) {
		t.Errorf("Resolve(empty dir) error = %v, want ErrNoImages", err)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, "ok.png", image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		wantErr bool
	}{
		{path: good},
		{path: dir},
		{path: "https://example.com/wallpaper.webp"},
		{path: bad, wantErr: true},
		{path: "", wantErr: true},
		{path: filepath.Join(dir, "nope.png"), wantErr: true},
	}
	for _, tt := range tests {
		if err := Check(tt.path); (err != nil) != tt.wantErr {
			t.Errorf("Check(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}
