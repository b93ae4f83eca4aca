// Package pdf provides an output plugin that writes the palette as a
// single-page PDF swatch sheet.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/font/standard"
	"seehuhn.de/go/pdf/graphics/color"

	"github.com/jmylchreest/wcagtint/internal/colour"
)

// Layout in PDF points. The page is A4 wide and as tall as the rows need.
const (
	margin     = 36.0
	tileHeight = 48.0
	padding    = 8.0
	fontSize   = 10.0
	leading    = 14.0
)

// Plugin implements the output.Plugin interface for PDF swatch sheets.
type Plugin struct {
	outputDir string
	columns   int
}

// New creates a new PDF output plugin.
func New() *Plugin {
	return &Plugin{columns: 2}
}

func (p *Plugin) Name() string {
	return "pdf"
}

func (p *Plugin) Description() string {
	return "Write a PDF swatch sheet of every combination"
}

func (p *Plugin) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.outputDir, "pdf.output-dir", "", "Output directory (default: current directory)")
	cmd.Flags().IntVar(&p.columns, "pdf.columns", 2, "Number of swatch columns")
}

func (p *Plugin) Validate() error {
	if p.columns < 1 || p.columns > 8 {
		return fmt.Errorf("invalid pdf.columns %d: must be between 1 and 8", p.columns)
	}
	return nil
}

func (p *Plugin) DefaultOutputDir() string {
	if p.outputDir != "" {
		return p.outputDir
	}
	return "."
}

// Generate renders palette.pdf.
func (p *Plugin) Generate(report *colour.Report) (map[string][]byte, error) {
	if report == nil {
		return nil, errors.New("report cannot be nil")
	}

	var buf bytes.Buffer
	if err := Render(&buf, report, p.columns); err != nil {
		return nil, err
	}
	return map[string][]byte{"palette.pdf": buf.Bytes()}, nil
}

// PageSize is the media box Render uses for a report of n combinations.
func PageSize(n, columns int) *pdf.Rectangle {
	columns = max(columns, 1)
	rows := 1 + (n+columns-1)/columns
	return &pdf.Rectangle{
		URx: document.A4.URx,
		URy: 2*margin + float64(rows)*tileHeight,
	}
}

// Render writes the swatch sheet to w. A full-width header tile shows the
// base colour; each combination follows as a tile filled with its
// background, labelled in its text colour with name, ratio and level.
func Render(w io.Writer, report *colour.Report, columns int) error {
	columns = max(columns, 1)
	paper := PageSize(report.Len(), columns)

	page, err := document.WriteSinglePage(w, paper, pdf.V1_7, nil)
	if err != nil {
		return fmt.Errorf("failed to start PDF: %w", err)
	}
	face, err := standard.Helvetica.New()
	if err != nil {
		return fmt.Errorf("failed to load PDF font: %w", err)
	}

	width := paper.URx - 2*margin
	top := paper.URy - margin

	base := report.Base
	if report.BaseHex != "" {
		base = colour.HexToRGB(report.BaseHex)
	}
	baseText := colour.White
	if colour.Contrast(base, colour.Black) > colour.Contrast(base, colour.White) {
		baseText = colour.Black
	}
	tile(page, face, margin, top-tileHeight, width, base, baseText,
		"Base "+report.BaseHex, fmt.Sprintf("%d combinations", report.Len()))

	tileWidth := width / float64(columns)
	for i, c := range report.All() {
		x := margin + float64(i%columns)*tileWidth
		y := top - float64(2+i/columns)*tileHeight
		tile(page, face, x, y, tileWidth, c.BackgroundRGB(), c.TextRGB(),
			c.Name, fmt.Sprintf("%.2f:1  %s", c.Ratio, c.Level))
	}

	if err := page.Close(); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// tile fills a rectangle with bg; (x, y) is its lower-left corner.
func tile(page *document.Page, face font.Instance, x, y, w float64, bg, fg colour.RGB, lines ...string) {
	page.SetFillColor(deviceRGB(bg))
	page.Rectangle(x, y, w, tileHeight)
	page.Fill()

	page.SetFillColor(deviceRGB(fg))
	page.TextBegin()
	page.TextSetFont(face, fontSize)
	page.TextFirstLine(x+padding, y+tileHeight-padding-fontSize)
	for i, line := range lines {
		if i > 0 {
			page.TextSecondLine(0, -leading)
		}
		page.TextShow(line)
	}
	page.TextEnd()
}

func deviceRGB(c colour.RGB) color.Color {
	return color.DeviceRGB{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}
