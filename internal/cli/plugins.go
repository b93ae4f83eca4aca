package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/plugin/manager"
	"github.com/jmylchreest/wcagtint/internal/plugin/protocol"
)

const sourceBuiltin = "builtin"

type versioner interface {
	Version() string
}

// pluginRow is one entry of plugins list.
type pluginRow struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Version     string `json:"version,omitempty"`
	Source      string `json:"source"`
	Description string `json:"description"`
}

func (a *app) newPluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Manage input and output plugins",
		Long: `List built-in and external plugins, register external plugin executables
and control which plugins are enabled.

External plugins and the enable/disable lists are stored in the plugin lock
file (WCAGTINT_PLUGIN_LOCK). Lists in the lock file override
WCAGTINT_ENABLED_PLUGINS and WCAGTINT_DISABLED_PLUGINS.`,
	}

	cmd.AddCommand(
		a.newPluginsListCmd(),
		a.newPluginsAddCmd(),
		a.newPluginsRemoveCmd(),
		a.newPluginsToggleCmd(true),
		a.newPluginsToggleCmd(false),
		a.newTemplatesCmd(),
	)
	return cmd
}

func (a *app) newPluginsListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all plugins and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := a.pluginRows()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			printPluginRows(out, rows)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

// pluginRows collects every registered plugin, sorted by type then name.
func (a *app) pluginRows() ([]pluginRow, error) {
	lock, err := manager.LoadOrCreateLock(a.cfg.PluginLockPath)
	if err != nil {
		return nil, err
	}

	source := func(pluginType, name string) string {
		if meta, ok := lock.ExternalPlugins[name]; ok && meta.Type == pluginType {
			return meta.Path
		}
		return sourceBuiltin
	}

	var rows []pluginRow
	for _, name := range a.plugins.InputRegistry().List() {
		p, _ := a.plugins.GetInputPlugin(name)
		row := pluginRow{
			Type:        manager.TypeInput,
			Name:        name,
			Enabled:     a.plugins.IsInputEnabled(p),
			Source:      source(manager.TypeInput, name),
			Description: p.Description(),
		}
		if v, ok := p.(versioner); ok {
			row.Version = v.Version()
		}
		rows = append(rows, row)
	}
	for _, name := range a.plugins.OutputRegistry().List() {
		p, _ := a.plugins.GetOutputPlugin(name)
		row := pluginRow{
			Type:        manager.TypeOutput,
			Name:        name,
			Enabled:     a.plugins.IsOutputEnabled(p),
			Source:      source(manager.TypeOutput, name),
			Description: p.Description(),
		}
		if v, ok := p.(versioner); ok {
			row.Version = v.Version()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func printPluginRows(w io.Writer, rows []pluginRow) {
	table := NewTable([]string{"Type", "Name", "Status", "Version", "Source", "Description"})
	table.SetColumnMaxWidth(5, 50)
	for _, r := range rows {
		status := "enabled"
		if !r.Enabled {
			status = "disabled"
		}
		table.AddRow(r.Type, r.Name, status, r.Version, r.Source, r.Description)
	}
	_, _ = table.WriteTo(w)
}

func (a *app) newPluginsAddCmd() *cobra.Command {
	var (
		force      bool
		configJSON string
	)

	cmd := &cobra.Command{
		Use:   "add PATH",
		Short: "Register an external plugin executable",
		Long: `Register an external plugin executable in the plugin lock file.

The executable is queried with --plugin-info for its name, type and protocol
version; incompatible protocol versions are rejected. Re-adding a plugin
with a newer version upgrades it; anything else needs --force.`,
		Example: `  wcagtint plugins add ./bin/brand-colour
  wcagtint plugins add /usr/local/bin/wcagtint-swatch --config '{"format":"ase"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve plugin path: %w", err)
			}

			info, err := manager.InspectPlugin(cmd.Context(), path)
			if err != nil {
				return err
			}
			if info.Name == "" {
				return fmt.Errorf("plugin at %s did not report a name", path)
			}
			if info.Type != manager.TypeInput && info.Type != manager.TypeOutput {
				return fmt.Errorf("plugin %s reports unknown type %q", info.Name, info.Type)
			}

			var pluginConfig map[string]any
			if configJSON != "" {
				if err := json.Unmarshal([]byte(configJSON), &pluginConfig); err != nil {
					return fmt.Errorf("invalid --config: %w", err)
				}
			}

			lock, err := manager.LoadOrCreateLock(a.cfg.PluginLockPath)
			if err != nil {
				return err
			}

			action, err := pluginAddAction(lock.ExternalPlugins[info.Name], info.Version, force)
			if err != nil {
				return fmt.Errorf("plugin %s: %w", info.Name, err)
			}

			lock.AddExternal(&manager.ExternalPluginMeta{
				Name:        info.Name,
				Path:        path,
				Type:        info.Type,
				Version:     info.Version,
				Description: info.Description,
				Config:      pluginConfig,
			})
			if err := lock.Save(a.cfg.PluginLockPath); err != nil {
				return err
			}
			a.logger.Debug("updated plugin lock", "path", a.cfg.PluginLockPath)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plugin %q %s\n", info.Name, action)
			fmt.Fprintf(out, "  Type:     %s\n", info.Type)
			if info.Version != "" {
				fmt.Fprintf(out, "  Version:  %s\n", info.Version)
			}
			fmt.Fprintf(out, "  Protocol: %s (%s)\n", info.ProtocolVersion, info.PluginProtocol)
			fmt.Fprintf(out, "  Path:     %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing plugin of the same or a newer version")
	cmd.Flags().StringVar(&configJSON, "config", "", "Arguments passed to the plugin on every run (JSON object)")
	return cmd
}

// pluginAddAction decides whether adding a plugin over an existing entry is
// allowed. Upgrades are; same version, downgrades and unknown versions need force.
func pluginAddAction(existing *manager.ExternalPluginMeta, version string, force bool) (string, error) {
	if existing == nil {
		return "added", nil
	}
	if existing.Version == "" || version == "" {
		if !force {
			return "", fmt.Errorf("already registered (use --force to overwrite)")
		}
		return "overwritten", nil
	}

	cmp, err := compareVersions(version, existing.Version)
	if err != nil {
		if !force {
			return "", fmt.Errorf("already registered with an unparseable version (use --force to overwrite)")
		}
		return "overwritten", nil
	}

	switch {
	case cmp > 0:
		return fmt.Sprintf("upgraded from %s to %s", existing.Version, version), nil
	case !force && cmp < 0:
		return "", fmt.Errorf("downgrade from %s to %s (use --force to downgrade)", existing.Version, version)
	case !force:
		return "", fmt.Errorf("version %s is already registered (use --force to re-add)", version)
	case cmp < 0:
		return fmt.Sprintf("downgraded from %s to %s", existing.Version, version), nil
	default:
		return "re-added", nil
	}
}

// compareVersions orders two plugin version strings.
func compareVersions(v1, v2 string) (int, error) {
	a, err := protocol.Parse(v1)
	if err != nil {
		return 0, fmt.Errorf("invalid version %s: %w", v1, err)
	}
	b, err := protocol.Parse(v2)
	if err != nil {
		return 0, fmt.Errorf("invalid version %s: %w", v2, err)
	}

	return a.Compare(b), nil
}

func (a *app) newPluginsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"delete"},
		Short:   "Forget an external plugin",
		Long:    `Remove an external plugin from the plugin lock file. The executable itself is left in place.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lock, err := manager.LoadOrCreateLock(a.cfg.PluginLockPath)
			if err != nil {
				return err
			}
			if !lock.RemoveExternal(args[0]) {
				return fmt.Errorf("no external plugin named %q", args[0])
			}
			if err := lock.Save(a.cfg.PluginLockPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plugin %q removed\n", args[0])
			return nil
		},
	}
}

// newPluginsToggleCmd builds "plugins enable" or "plugins disable".
func (a *app) newPluginsToggleCmd(enable bool) *cobra.Command {
	verb := "disable"
	if enable {
		verb = "enable"
	}

	return &cobra.Command{
		Use:   verb + " [TYPE:]NAME",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a plugin",
		Long: fmt.Sprintf(`%s a plugin by recording it in the plugin lock file.

Enabling a plugin switches to allow-list mode: only plugins in the enabled
list run with --outputs all. A bare NAME is resolved to its type; use
input:NAME or output:NAME when both kinds share a name.`, strings.ToUpper(verb[:1])+verb[1:]),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pluginType, name, err := a.resolvePluginName(args[0])
			if err != nil {
				return err
			}

			if enable {
				a.plugins.SetEnabled(pluginType, name)
			} else {
				a.plugins.SetDisabled(pluginType, name)
			}

			lock, err := manager.LoadOrCreateLock(a.cfg.PluginLockPath)
			if err != nil {
				return err
			}
			cfg := a.plugins.GetConfig()
			lock.EnabledPlugins = slices.Clone(cfg.EnabledPlugins)
			lock.DisabledPlugins = slices.Clone(cfg.DisabledPlugins)
			if err := lock.Save(a.cfg.PluginLockPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Plugin %s:%s %sd\n", pluginType, name, verb)
			return nil
		},
	}
}

// resolvePluginName splits "type:name" or finds the type of a bare name.
func (a *app) resolvePluginName(arg string) (pluginType, name string, err error) {
	if t, n, ok := strings.Cut(arg, ":"); ok {
		switch t {
		case manager.TypeInput:
			if _, ok := a.plugins.GetInputPlugin(n); ok {
				return t, n, nil
			}
		case manager.TypeOutput:
			if _, ok := a.plugins.GetOutputPlugin(n); ok {
				return t, n, nil
			}
		default:
			return "", "", fmt.Errorf("unknown plugin type %q (use input or output)", t)
		}
		return "", "", fmt.Errorf("unknown %s plugin: %s", t, n)
	}

	_, isInput := a.plugins.GetInputPlugin(arg)
	_, isOutput := a.plugins.GetOutputPlugin(arg)
	switch {
	case isInput && isOutput:
		return "", "", fmt.Errorf("%q is both an input and an output plugin; use input:%s or output:%s", arg, arg, arg)
	case isInput:
		return manager.TypeInput, arg, nil
	case isOutput:
		return manager.TypeOutput, arg, nil
	default:
		return "", "", fmt.Errorf("unknown plugin: %s", arg)
	}
}
