package cli

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	tmplloader "github.com/jmylchreest/wcagtint/internal/plugin/output/template"
)

// templateProvider is implemented by output plugins that render from
// embedded templates.
type templateProvider interface {
	Templates() *tmplloader.Loader
}

func (a *app) newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage output plugin templates",
		Long: `List and dump the templates used by template-driven output plugins.

Dumped templates are written to <config dir>/wcagtint/templates/<plugin>/ and
take precedence over the embedded copies.`,
		Example: `  wcagtint plugins templates list
  wcagtint plugins templates dump -o css
  wcagtint plugins templates dump -o text --force`,
	}
	cmd.AddCommand(a.newTemplatesListCmd(), a.newTemplatesDumpCmd())
	return cmd
}

// templateLoaders returns the loaders of the named plugins, or of every
// template-driven plugin when names is empty.
func (a *app) templateLoaders(names []string) (map[string]*tmplloader.Loader, error) {
	loaders := make(map[string]*tmplloader.Loader)
	if len(names) == 0 {
		for _, name := range a.plugins.OutputRegistry().List() {
			p, _ := a.plugins.GetOutputPlugin(name)
			if tp, ok := p.(templateProvider); ok {
				loaders[name] = tp.Templates()
			}
		}
		return loaders, nil
	}

	for _, name := range names {
		p, ok := a.plugins.GetOutputPlugin(name)
		if !ok {
			return nil, fmt.Errorf("unknown output plugin: %s", name)
		}
		tp, ok := p.(templateProvider)
		if !ok {
			return nil, fmt.Errorf("output plugin %s does not use templates", name)
		}
		loaders[name] = tp.Templates()
	}
	return loaders, nil
}

func (a *app) newTemplatesListCmd() *cobra.Command {
	var names []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List embedded templates and their overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaders, err := a.templateLoaders(names)
			if err != nil {
				return err
			}

			table := NewTable([]string{"Plugin", "Template", "Override", "Path"})
			for _, name := range slices.Sorted(maps.Keys(loaders)) {
				loader := loaders[name]
				templates, err := loader.Names()
				if err != nil {
					return fmt.Errorf("failed to list templates for %s: %w", name, err)
				}
				for _, tmpl := range templates {
					override := "no"
					if loader.Overridden(tmpl) {
						override = "yes"
					}
					table.AddRow(name, tmpl, override, loader.Path(tmpl))
				}
			}

			out := cmd.OutOrStdout()
			if table.Len() == 0 {
				fmt.Fprintln(out, "No template-driven output plugins")
				return nil
			}
			_, err = table.WriteTo(out)
			return err
		},
	}
	cmd.Flags().StringSliceVarP(&names, "output-plugins", "o", nil, "Output plugins to list (default: all)")
	return cmd
}

func (a *app) newTemplatesDumpCmd() *cobra.Command {
	var (
		names    []string
		force    bool
		location string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Copy embedded templates to the override directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaders, err := a.templateLoaders(names)
			if err != nil {
				return err
			}

			base, err := expandHome(location)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			total := 0
			for _, name := range slices.Sorted(maps.Keys(loaders)) {
				loader := loaders[name]
				if base != "" {
					loader = loader.WithDir(base)
				}

				dumped, err := loader.DumpAll(force)
				for _, path := range dumped {
					fmt.Fprintf(out, "  wrote %s\n", path)
				}
				total += len(dumped)

				switch {
				case err == nil:
				case errors.Is(err, tmplloader.ErrTemplateExists):
					a.logger.Warn("skipped existing templates", "plugin", name, "error", err)
				default:
					return fmt.Errorf("failed to dump templates for %s: %w", name, err)
				}
			}

			if total == 0 {
				fmt.Fprintln(out, "No templates were dumped. Use --force to overwrite existing templates.")
				return nil
			}
			fmt.Fprintf(out, "Dumped %d template(s)\n", total)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&names, "output-plugins", "o", nil, "Output plugins to dump (default: all)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing custom templates")
	cmd.Flags().StringVarP(&location, "location", "l", "", "Directory to dump into (default: <config dir>/wcagtint/templates)")
	return cmd
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
