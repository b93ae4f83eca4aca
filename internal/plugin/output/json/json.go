// Package json provides a JSON output plugin that writes the full palette
// report, tagged with a unique report ID.
package json

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/version"
)

// Document is the exported JSON layout.
type Document struct {
	ReportID  string `json:"report_id"`
	Generator string `json:"generator"`
	*colour.Report
}

// NewDocument wraps a report for export under the given ID.
func NewDocument(report *colour.Report, id string) Document {
	return Document{
		ReportID:  id,
		Generator: "wcagtint " + version.Short(),
		Report:    report,
	}
}

// Plugin implements the output.Plugin interface for JSON.
type Plugin struct {
	outputDir string
	filename  string
	compact   bool
	newID     func() string
	lastID    string
}

// New creates a new JSON output plugin.
func New() *Plugin {
	return &Plugin{
		filename: "palette.json",
		newID:    uuid.NewString,
	}
}

func (p *Plugin) Name() string {
	return "json"
}

func (p *Plugin) Description() string {
	return "Write the palette report as JSON with a unique report ID"
}

func (p *Plugin) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.outputDir, "json.output-dir", "", "Output directory (default: current directory)")
	cmd.Flags().StringVar(&p.filename, "json.filename", "palette.json", "Output file name")
	cmd.Flags().BoolVar(&p.compact, "json.compact", false, "Write compact JSON instead of indented")
}

func (p *Plugin) Validate() error {
	if p.filename == "" {
		return errors.New("json.filename cannot be empty")
	}
	return nil
}

func (p *Plugin) DefaultOutputDir() string {
	if p.outputDir != "" {
		return p.outputDir
	}
	return "."
}

// LastReportID returns the ID assigned by the most recent Generate call.
func (p *Plugin) LastReportID() string {
	return p.lastID
}

// Generate serialises the report.
func (p *Plugin) Generate(report *colour.Report) (map[string][]byte, error) {
	if report == nil {
		return nil, errors.New("report cannot be nil")
	}

	doc := NewDocument(report, p.newID())

	var (
		data []byte
		err  error
	)
	if p.compact {
		data, err = json.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	p.lastID = doc.ReportID
	return map[string][]byte{p.filename: append(data, '\n')}, nil
}
