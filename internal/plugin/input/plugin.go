// Package input defines the built-in input plugins: sources for the base
// colour a palette is generated from.
package input

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/registry"
	"github.com/jmylchreest/wcagtint/pkg/plugin"
)

// ErrNoBaseColour is returned when a plugin has nothing to generate from.
var ErrNoBaseColour = errors.New("no base colour")

// GenerateOptions is passed to every Generate call. PluginArgs come from
// --plugin-args and take precedence over the plugin's own flags.
type GenerateOptions struct {
	Verbose    bool
	DryRun     bool
	PluginArgs map[string]any
}

// Plugin yields the base colour of a palette. Validate runs after flag
// parsing and before Generate.
type Plugin interface {
	Name() string
	Description() string
	RegisterFlags(cmd *cobra.Command)
	Validate() error
	Generate(ctx context.Context, opts GenerateOptions) (colour.RGB, error)
}

// FlagHelp describes a plugin flag for help output.
type FlagHelp = plugin.FlagHelp

// FlagHelper is implemented by plugins that document their flags.
type FlagHelper interface {
	GetFlagHelp() []FlagHelp
}

// Registry holds the input plugins known to the host.
type Registry = registry.Set[Plugin]

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return registry.New[Plugin]()
}
