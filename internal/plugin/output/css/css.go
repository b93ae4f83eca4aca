// Package css provides an output plugin that exports the palette as CSS
// custom properties, with optional utility classes per combination.
package css

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"regexp"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/output/common"
	tmplloader "github.com/jmylchreest/wcagtint/internal/plugin/output/template"
)

//go:embed *.tmpl
var templates embed.FS

const templateFile = "palette.css.tmpl"

var prefixPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Plugin implements the output.Plugin interface for CSS.
type Plugin struct {
	outputDir string
	prefix    string
	classes   bool
	logger    hclog.Logger
}

// New creates a new CSS output plugin.
func New() *Plugin {
	return &Plugin{
		prefix:  "a11y",
		classes: true,
		logger:  hclog.NewNullLogger(),
	}
}

func (p *Plugin) Name() string {
	return "css"
}

func (p *Plugin) Description() string {
	return "Export combinations as CSS custom properties and utility classes"
}

// SetLogger sets the logger used when resolving templates.
func (p *Plugin) SetLogger(logger hclog.Logger) {
	p.logger = logger
}

func (p *Plugin) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.outputDir, "css.output-dir", "", "Output directory (default: current directory)")
	cmd.Flags().StringVar(&p.prefix, "css.prefix", "a11y", "Custom property prefix")
	cmd.Flags().BoolVar(&p.classes, "css.classes", true, "Emit a utility class per combination")
}

func (p *Plugin) Validate() error {
	if !prefixPattern.MatchString(p.prefix) {
		return fmt.Errorf("invalid css.prefix %q: must start with a lowercase letter and contain only a-z, 0-9 and '-'", p.prefix)
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

type templateData struct {
	*colour.Report
	Prefix  string
	Classes bool
}

// Generate renders palette.css from the report.
func (p *Plugin) Generate(report *colour.Report) (map[string][]byte, error) {
	if report == nil {
		return nil, errors.New("report cannot be nil")
	}

	tmpl, err := p.Templates().Parse(templateFile, common.TemplateFuncs())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	data := templateData{Report: report, Prefix: p.prefix, Classes: p.classes}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute CSS template: %w", err)
	}

	return map[string][]byte{"palette.css": buf.Bytes()}, nil
}
