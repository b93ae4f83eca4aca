// Package hex provides the default input plugin: a base colour given on the command line.
package hex

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/input"
)

// Plugin implements input.Plugin for an explicit base colour.
type Plugin struct {
	base string
}

// New creates a new hex input plugin.
func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) Name() string {
	return "hex"
}

func (p *Plugin) Description() string {
	return "Use a base colour given as #rrggbb"
}

func (p *Plugin) Version() string {
	return "0.1.0"
}

func (p *Plugin) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.base, "base", "b", "", "Base colour (#rrggbb)")
}

// SetBase sets the base colour without going through flags.
func (p *Plugin) SetBase(hex string) {
	p.base = hex
}

// Validate checks that a well-formed base colour was given.
func (p *Plugin) Validate() error {
	if p.base == "" {
		return fmt.Errorf("%w: --base is required", input.ErrNoBaseColour)
	}
	if _, err := colour.ParseHex(p.base); err != nil {
		return err
	}
	return nil
}

func (p *Plugin) GetFlagHelp() []input.FlagHelp {
	return []input.FlagHelp{
		{Name: "base", Shorthand: "b", Type: "string", Default: "", Description: "Base colour (#rrggbb)", Required: true},
	}
}

// Generate returns the parsed base colour.
func (p *Plugin) Generate(_ context.Context, opts input.GenerateOptions) (colour.RGB, error) {
	base := p.base
	if v, ok := opts.PluginArgs["base"].(string); ok && v != "" {
		base = v
	}
	if base == "" {
		return colour.RGB{}, input.ErrNoBaseColour
	}
	return colour.ParseHex(base)
}
