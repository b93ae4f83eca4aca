// Package png provides an output plugin that renders the palette as a PNG
// swatch sheet, one labelled tile per combination.
package png

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/spf13/cobra"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jmylchreest/wcagtint/internal/colour"
)

const (
	tileWidth  = 200
	tileHeight = 56
	padding    = 8
)

// Plugin implements the output.Plugin interface for PNG swatch sheets.
type Plugin struct {
	outputDir string
	columns   int
}

// New creates a new PNG output plugin.
func New() *Plugin {
	return &Plugin{columns: 4}
}

func (p *Plugin) Name() string {
	return "png"
}

func (p *Plugin) Description() string {
	return "Render a PNG swatch sheet of every combination"
}

func (p *Plugin) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.outputDir, "png.output-dir", "", "Output directory (default: current directory)")
	cmd.Flags().IntVar(&p.columns, "png.columns", 4, "Number of swatch columns")
}

func (p *Plugin) Validate() error {
	if p.columns < 1 || p.columns > 32 {
		return fmt.Errorf("invalid png.columns %d: must be between 1 and 32", p.columns)
	}
	return nil
}

func (p *Plugin) DefaultOutputDir() string {
	if p.outputDir != "" {
		return p.outputDir
	}
	return "."
}

// Generate renders palette.png.
func (p *Plugin) Generate(report *colour.Report) (map[string][]byte, error) {
	if report == nil {
		return nil, errors.New("report cannot be nil")
	}

	img := Render(report, p.columns)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return map[string][]byte{"palette.png": buf.Bytes()}, nil
}

// Render draws the swatch sheet. The first row is a header tile showing the
// base colour; combinations follow in report order, columns per row.
// An empty report yields just the header.
func Render(report *colour.Report, columns int) *image.RGBA {
	columns = max(columns, 1)
	rows := 1 + (report.Len()+columns-1)/columns

	img := image.NewRGBA(image.Rect(0, 0, columns*tileWidth, rows*tileHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	base := report.Base
	if report.BaseHex != "" {
		base = colour.HexToRGB(report.BaseHex)
	}
	header := image.Rect(0, 0, columns*tileWidth, tileHeight)
	baseText := colour.White
	if colour.Contrast(base, colour.Black) > colour.Contrast(base, colour.White) {
		baseText = colour.Black
	}
	fillTile(img, header, base)
	drawLabel(img, header, baseText, "Base "+report.BaseHex, fmt.Sprintf("%d combinations", report.Len()))

	for i, c := range report.All() {
		x := (i % columns) * tileWidth
		y := (1 + i/columns) * tileHeight
		tile := image.Rect(x, y, x+tileWidth, y+tileHeight)

		fillTile(img, tile, c.BackgroundRGB())
		drawLabel(img, tile, c.TextRGB(), c.Name, fmt.Sprintf("%.2f:1 %s", c.Ratio, c.Level))
	}

	return img
}

func fillTile(img draw.Image, r image.Rectangle, c colour.RGB) {
	draw.Draw(img, r, image.NewUniform(toColor(c)), image.Point{}, draw.Src)
}

// drawLabel writes two lines of 7x13 text in the tile's top-left corner.
func drawLabel(img draw.Image, r image.Rectangle, c colour.RGB, lines ...string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(toColor(c)),
		Face: face,
	}

	lineHeight := face.Metrics().Height.Ceil() + 4
	for i, line := range lines {
		d.Dot = fixed.P(r.Min.X+padding, r.Min.Y+padding+face.Ascent+i*lineHeight)
		d.DrawString(line)
	}
}

func toColor(c colour.RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
