// Package image provides an input plugin that uses the dominant colour of an
// image as the palette base.
package image

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/image"
	"github.com/jmylchreest/wcagtint/internal/plugin/input"
	httputil "github.com/jmylchreest/wcagtint/internal/util/http"
)

// Plugin implements input.Plugin for image files, directories and HTTP(S) URLs.
type Plugin struct {
	path         string
	skipExtremes bool
	timeout      time.Duration

	loader image.Loader

	// loadedImagePath is the file actually read when path is a directory.
	loadedImagePath string
}

// New creates a new image input plugin with default settings.
func New() *Plugin {
	return &Plugin{
		skipExtremes: true,
		timeout:      httputil.DefaultTimeout,
	}
}

func (p *Plugin) Name() string {
	return "image"
}

func (p *Plugin) Description() string {
	return "Use the dominant colour of an image file, directory or HTTP(S) URL"
}

func (p *Plugin) Version() string {
	return "0.1.0"
}

func (p *Plugin) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.path, "image.path", "p", "", "Path to image file, directory or HTTP(S) URL")
	cmd.Flags().BoolVar(&p.skipExtremes, "image.skip-extremes", true, "Ignore near-black and near-white pixels")
	cmd.Flags().DurationVar(&p.timeout, "image.timeout", httputil.DefaultTimeout, "HTTP timeout for remote images")
}

// SetPath sets the image location without going through flags.
func (p *Plugin) SetPath(path string) {
	p.path = path
}

func (p *Plugin) Validate() error {
	if p.path == "" {
		return fmt.Errorf("%w: image path or URL is required (use --image.path or -p)", input.ErrNoBaseColour)
	}
	if err := image.Check(p.path); err != nil {
		return fmt.Errorf("invalid image path or URL: %w", err)
	}
	return nil
}

func (p *Plugin) GetFlagHelp() []input.FlagHelp {
	return []input.FlagHelp{
		{Name: "image.path", Shorthand: "p", Type: "string", Description: "Path to image file, directory or HTTP(S) URL", Required: true},
		{Name: "image.skip-extremes", Type: "bool", Default: "true", Description: "Ignore near-black and near-white pixels"},
		{Name: "image.timeout", Type: "duration", Default: "10s", Description: "HTTP timeout for remote images"},
	}
}

// ImagePath returns the file read by the most recent Generate call.
func (p *Plugin) ImagePath() string {
	return p.loadedImagePath
}

// Generate loads the image and returns its dominant colour.
func (p *Plugin) Generate(ctx context.Context, opts input.GenerateOptions) (colour.RGB, error) {
	path := p.path
	if v, ok := opts.PluginArgs["path"].(string); ok && v != "" {
		path = v
	}
	if path == "" {
		return colour.RGB{}, input.ErrNoBaseColour
	}

	resolved, err := image.Resolve(path)
	if err != nil {
		return colour.RGB{}, err
	}

	loader := p.loader
	if loader == nil {
		loader = image.Source{Fetch: httputil.FetchOptions{Timeout: p.timeout}}
	}
	img, err := loader.Load(ctx, resolved)
	if err != nil {
		return colour.RGB{}, err
	}
	p.loadedImagePath = resolved

	base, err := image.DominantColour(img, image.DominantOptions{SkipExtremes: p.skipExtremes})
	if err != nil {
		return colour.RGB{}, fmt.Errorf("%s: %w", resolved, err)
	}

	if opts.Verbose {
		b := img.Bounds()
		fmt.Fprintf(os.Stderr, "   Image: %s (%dx%d)\n", resolved, b.Dx(), b.Dy())
		fmt.Fprintf(os.Stderr, "   Dominant colour: %s\n", base.Hex())
	}
	return base, nil
}
