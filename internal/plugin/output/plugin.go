// Package output defines how palette reports are exported. Each
// subpackage is one built-in format.
package output

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/registry"
	"github.com/jmylchreest/wcagtint/pkg/plugin"
)

// Plugin renders a Report into files. Generate returns contents keyed by
// file name; the caller joins them onto the output directory.
type Plugin interface {
	Name() string
	Description() string
	RegisterFlags(cmd *cobra.Command)
	Validate() error
	DefaultOutputDir() string
	Generate(report *colour.Report) (map[string][]byte, error)
}

// PreExecuteHook lets a plugin check its prerequisites. skip=true drops the
// plugin from the run without failing it.
type PreExecuteHook interface {
	PreExecute(ctx context.Context) (skip bool, reason string, err error)
}

// PostExecuteHook receives the paths written for the plugin.
type PostExecuteHook interface {
	PostExecute(ctx context.Context, written []string) error
}

// FlagHelp describes a plugin flag for help output.
type FlagHelp = plugin.FlagHelp

// FlagHelper is implemented by plugins that document their flags.
type FlagHelper interface {
	GetFlagHelp() []FlagHelp
}

// Registry holds the output plugins known to the host.
type Registry = registry.Set[Plugin]

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return registry.New[Plugin]()
}
