// Package text provides a plain-text output plugin for palette reports.
package text

import (
	"bytes"
	"embed"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/output/common"
	tmplloader "github.com/jmylchreest/wcagtint/internal/plugin/output/template"
)

//go:embed *.tmpl
var templates embed.FS

const templateFile = "palette.txt.tmpl"

// Plugin implements the output.Plugin interface for plain-text reports.
type Plugin struct {
	outputDir string
	filename  string
	logger    hclog.Logger
}

// New creates a new text output plugin.
func New() *Plugin {
	return &Plugin{
		filename: "palette.txt",
		logger:   hclog.NewNullLogger(),
	}
}

func (p *Plugin) Name() string {
	return "text"
}

func (p *Plugin) Description() string {
	return "Write the palette as a plain-text listing"
}

// SetLogger sets the logger used when resolving templates.
func (p *Plugin) SetLogger(logger hclog.Logger) {
	p.logger = logger
}

func (p *Plugin) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.outputDir, "text.output-dir", "", "Output directory (default: current directory)")
	cmd.Flags().StringVar(&p.filename, "text.filename", "palette.txt", "Output file name")
}

func (p *Plugin) Validate() error {
	if p.filename == "" {
		return errors.New("text.filename cannot be empty")
	}
	return nil
}

func (p *Plugin) DefaultOutputDir() string {
	if p.outputDir != "" {
		return p.outputDir
	}
	return "."
}

// Templates exposes the embedded templates for dumping and overriding.
func (p *Plugin) Templates() *tmplloader.Loader {
	return tmplloader.New(p.Name(), templates).WithLogger(p.logger)
}

// Generate renders the report listing.
func (p *Plugin) Generate(report *colour.Report) (map[string][]byte, error) {
	if report == nil {
		return nil, errors.New("report cannot be nil")
	}

	tmpl, err := p.Templates().Parse(templateFile, common.TemplateFuncs())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to execute text template: %w", err)
	}

	return map[string][]byte{p.filename: buf.Bytes()}, nil
}
