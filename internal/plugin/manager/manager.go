// Package manager owns the plugin registries and decides which plugins are
// enabled, merging defaults, environment and the plugin lock file.
package manager

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/wcagtint/internal/config"
	"github.com/jmylchreest/wcagtint/internal/plugin/input"
	"github.com/jmylchreest/wcagtint/internal/plugin/input/googlegenai"
	"github.com/jmylchreest/wcagtint/internal/plugin/input/hex"
	imageinput "github.com/jmylchreest/wcagtint/internal/plugin/input/image"
	"github.com/jmylchreest/wcagtint/internal/plugin/input/random"
	"github.com/jmylchreest/wcagtint/internal/plugin/input/stylesheet"
	"github.com/jmylchreest/wcagtint/internal/plugin/output"
	cssoutput "github.com/jmylchreest/wcagtint/internal/plugin/output/css"
	jsonoutput "github.com/jmylchreest/wcagtint/internal/plugin/output/json"
	pdfoutput "github.com/jmylchreest/wcagtint/internal/plugin/output/pdf"
	pngoutput "github.com/jmylchreest/wcagtint/internal/plugin/output/png"
	textoutput "github.com/jmylchreest/wcagtint/internal/plugin/output/text"
	"github.com/jmylchreest/wcagtint/internal/plugin/protocol"
	"github.com/jmylchreest/wcagtint/internal/plugin/registry"
)

// Plugin kinds, as used in "kind:name" selectors and lock entries.
const (
	TypeInput  = "input"
	TypeOutput = "output"
)

// allPlugins in either list matches every plugin.
const allPlugins = "all"

// Config selects plugins. Entries are "kind:name", a bare name matching
// both kinds, or "all". A non-empty EnabledPlugins turns on allow-list
// mode; a DisabledPlugins match always wins.
type Config struct {
	DisabledPlugins []string
	EnabledPlugins  []string
}

func matches(list []string, kind, name string) bool {
	qualified := kind + ":" + name
	return slices.ContainsFunc(list, func(s string) bool {
		return s == allPlugins || s == qualified || s == name
	})
}

// Allows reports whether the plugin kind:name is enabled.
func (c Config) Allows(kind, name string) bool {
	if matches(c.DisabledPlugins, kind, name) {
		return false
	}
	return len(c.EnabledPlugins) == 0 || matches(c.EnabledPlugins, kind, name)
}

// move takes kind:name (qualified or bare) out of from and appends the
// qualified form to to.
func move(from, to []string, kind, name string) ([]string, []string) {
	qualified := kind + ":" + name
	from = slices.DeleteFunc(from, func(s string) bool { return s == qualified || s == name })
	if !slices.Contains(to, qualified) {
		to = append(to, qualified)
	}
	return from, to
}

// Builder assembles a Manager. Later sources override earlier ones:
// WithConfig, then WithEnvConfig, then the lock file.
type Builder struct {
	config   Config
	inputs   *input.Registry
	outputs  *output.Registry
	lockPath string
	env      *config.Config
	log      hclog.Logger
	builtins bool
}

// NewBuilder returns a Builder that registers the built-in plugins.
func NewBuilder() *Builder {
	return &Builder{
		inputs:   input.NewRegistry(),
		outputs:  output.NewRegistry(),
		log:      hclog.NewNullLogger(),
		builtins: true,
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithEnvConfig applies WCAGTINT_ENABLED_PLUGINS and
// WCAGTINT_DISABLED_PLUGINS, and hands API keys to the plugins needing them.
func (b *Builder) WithEnvConfig(cfg config.Config) *Builder {
	b.env = &cfg
	return b
}

// WithLockFile names the plugin lock. Its lists beat the environment and
// its external plugins are registered by Build.
func (b *Builder) WithLockFile(path string) *Builder {
	b.lockPath = path
	return b
}

func (b *Builder) WithLogger(log hclog.Logger) *Builder {
	if log != nil {
		b.log = log
	}
	return b
}

// WithCustomRegistries swaps in caller-owned registries and skips the
// built-in plugins.
func (b *Builder) WithCustomRegistries(inputs *input.Registry, outputs *output.Registry) *Builder {
	b.inputs, b.outputs, b.builtins = inputs, outputs, false
	return b
}

// overlay replaces each list of dst that src sets.
func overlay(dst *Config, enabled, disabled []string) {
	if len(disabled) > 0 {
		dst.DisabledPlugins = disabled
	}
	if len(enabled) > 0 {
		dst.EnabledPlugins = enabled
	}
}

// Build creates the Manager. A missing lock file is fine; an unreadable
// one is logged and ignored.
func (b *Builder) Build() *Manager {
	cfg := b.config
	if b.env != nil {
		overlay(&cfg, b.env.EnabledPlugins, b.env.DisabledPlugins)
	}

	var lock *Lock
	if b.lockPath != "" {
		var err error
		lock, err = LoadLock(b.lockPath)
		switch {
		case err == nil:
			overlay(&cfg, lock.EnabledPlugins, lock.DisabledPlugins)
		case !errors.Is(err, os.ErrNotExist):
			b.log.Warn("ignoring plugin lock file", "path", b.lockPath, "error", err)
		}
	}

	m := &Manager{config: cfg, inputs: b.inputs, outputs: b.outputs, log: b.log}
	if b.builtins {
		m.registerBuiltins(b.env)
	}
	if lock != nil {
		for _, n := range slices.Sorted(maps.Keys(lock.ExternalPlugins)) {
			meta := lock.ExternalPlugins[n]
			if err := m.RegisterExternalPlugin(context.Background(), meta); err != nil {
				b.log.Warn("skipping external plugin", "name", n, "error", err)
			}
		}
	}
	return m
}

// Manager holds the registries and the current enable/disable selection.
type Manager struct {
	config  Config
	inputs  *input.Registry
	outputs *output.Registry
	log     hclog.Logger
}

func (m *Manager) registerBuiltins(env *config.Config) {
	genai := googlegenai.New()
	if env != nil && env.GoogleAPIKey != "" {
		genai.SetAPIKey(env.GoogleAPIKey)
	}
	for _, p := range []input.Plugin{hex.New(), random.New(), genai, imageinput.New(), stylesheet.New()} {
		m.inputs.Register(p)
	}

	text := textoutput.New()
	text.SetLogger(m.log.Named("text"))
	css := cssoutput.New()
	css.SetLogger(m.log.Named("css"))
	for _, p := range []output.Plugin{text, jsonoutput.New(), css, pngoutput.New(), pdfoutput.New()} {
		m.outputs.Register(p)
	}
}

func (m *Manager) InputRegistry() *input.Registry   { return m.inputs }
func (m *Manager) OutputRegistry() *output.Registry { return m.outputs }

func (m *Manager) GetInputPlugin(name string) (input.Plugin, bool)   { return m.inputs.Get(name) }
func (m *Manager) GetOutputPlugin(name string) (output.Plugin, bool) { return m.outputs.Get(name) }

func (m *Manager) IsInputEnabled(p input.Plugin) bool   { return m.config.Allows(TypeInput, p.Name()) }
func (m *Manager) IsOutputEnabled(p output.Plugin) bool { return m.config.Allows(TypeOutput, p.Name()) }

// enabled filters set down to what cfg allows for kind.
func enabled[P registry.Named](cfg Config, kind string, set *registry.Set[P]) map[string]P {
	all := set.All()
	for name := range all {
		if !cfg.Allows(kind, name) {
			delete(all, name)
		}
	}
	return all
}

func sortedNames[P any](m map[string]P) []string {
	return slices.Sorted(maps.Keys(m))
}

// FilterInputPlugins returns the enabled input plugins by name.
func (m *Manager) FilterInputPlugins() map[string]input.Plugin {
	return enabled(m.config, TypeInput, m.inputs)
}

// FilterOutputPlugins returns the enabled output plugins by name.
func (m *Manager) FilterOutputPlugins() map[string]output.Plugin {
	return enabled(m.config, TypeOutput, m.outputs)
}

// ListInputPlugins names the enabled input plugins in order.
func (m *Manager) ListInputPlugins() []string { return sortedNames(m.FilterInputPlugins()) }

// ListOutputPlugins names the enabled output plugins in order.
func (m *Manager) ListOutputPlugins() []string { return sortedNames(m.FilterOutputPlugins()) }

// UpdateConfig swaps the selection, keeping plugin instances and their
// bound flags.
func (m *Manager) UpdateConfig(cfg Config) { m.config = cfg }

func (m *Manager) GetConfig() Config { return m.config }

// SetDisabled moves kind:name onto the disable list.
func (m *Manager) SetDisabled(kind, name string) {
	m.config.EnabledPlugins, m.config.DisabledPlugins = move(m.config.EnabledPlugins, m.config.DisabledPlugins, kind, name)
}

// SetEnabled moves kind:name onto the enable list, which switches on
// allow-list mode if it was empty.
func (m *Manager) SetEnabled(kind, name string) {
	m.config.DisabledPlugins, m.config.EnabledPlugins = move(m.config.DisabledPlugins, m.config.EnabledPlugins, kind, name)
}

// InspectPlugin checks that path is an absolute path to a file speaking a
// compatible protocol, and returns what it reports about itself.
func InspectPlugin(ctx context.Context, path string) (protocol.PluginInfo, error) {
	if !filepath.IsAbs(path) {
		return protocol.PluginInfo{}, fmt.Errorf("plugin path must be absolute: %s", path)
	}
	if st, err := os.Stat(path); err != nil {
		return protocol.PluginInfo{}, err
	} else if st.IsDir() {
		return protocol.PluginInfo{}, fmt.Errorf("%s is a directory", path)
	}

	found, err := protocol.DetectProtocol(ctx, path)
	if err != nil {
		return protocol.PluginInfo{}, err
	}
	info := found.PluginInfo
	if info.ProtocolVersion != "" {
		if _, err := protocol.IsCompatible(info.ProtocolVersion); err != nil {
			return protocol.PluginInfo{}, fmt.Errorf("plugin %q: %w", info.Name, err)
		}
	}
	return info, nil
}

// RegisterExternalPlugin wraps the executable described by meta and adds it
// to the registry of its kind, shadowing a plugin of the same name.
func (m *Manager) RegisterExternalPlugin(ctx context.Context, meta *ExternalPluginMeta) error {
	if meta.Name == "" {
		return errors.New("external plugin has no name")
	}
	if meta.Type != TypeInput && meta.Type != TypeOutput {
		return fmt.Errorf("external plugin %s: unknown type %q", meta.Name, meta.Type)
	}
	if _, err := InspectPlugin(ctx, meta.Path); err != nil {
		return err
	}

	if meta.Type == TypeInput {
		p := NewExternalInputPlugin(meta.Name, meta.Description, meta.Path, m.log)
		p.SetArgs(meta.Config)
		m.inputs.Register(p)
	} else {
		p := NewExternalOutputPlugin(meta.Name, meta.Description, meta.Path, m.log)
		p.SetArgs(meta.Config)
		m.outputs.Register(p)
	}
	m.log.Debug("registered external plugin", "name", meta.Name, "type", meta.Type, "path", meta.Path)
	return nil
}
