package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/input"
	"github.com/jmylchreest/wcagtint/internal/plugin/input/hex"
	"github.com/jmylchreest/wcagtint/internal/plugin/output"
)

const (
	outputsAll  = "all"
	outputsNone = "none"
)

// generateOptions holds the flags of one generate invocation.
type generateOptions struct {
	input      string
	outputs    []string
	dryRun     bool
	saveReport string
	noTable    bool
	pluginArgs map[string]string
	expert     expertFlags
}

func (a *app) newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [BASE]",
		Short: "Generate an accessible palette from a base colour",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, args, opts)
		},
	}

	defaultOutputs := a.cfg.DefaultOutputs
	if len(defaultOutputs) == 0 {
		defaultOutputs = []string{"text"}
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "hex", "Input plugin that supplies the base colour")
	cmd.Flags().StringSliceVarP(&opts.outputs, "outputs", "o", defaultOutputs, "Output plugins (comma-separated, 'all' or 'none')")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be written without writing files")
	cmd.Flags().StringVar(&opts.saveReport, "save-report", "", "Also save the report as JSON to this path")
	cmd.Flags().BoolVar(&opts.noTable, "no-table", false, "Do not print the palette table")
	cmd.Flags().StringToStringVar(&opts.pluginArgs, "plugin-args", nil, "Plugin arguments as JSON, keyed by plugin name (repeatable)")
	opts.expert.register(cmd.Flags())

	for _, p := range a.plugins.InputRegistry().All() {
		p.RegisterFlags(cmd)
	}
	for _, p := range a.plugins.OutputRegistry().All() {
		p.RegisterFlags(cmd)
	}

	cmd.Long = a.generateHelp()
	return cmd
}

// generateHelp lists the enabled plugins in the command help.
func (a *app) generateHelp() string {
	var b strings.Builder
	b.WriteString(`Generate background and text colour combinations that meet WCAG AA or AAA
from a base colour, print them and export them through output plugins.

Only combinations reaching a 4.5:1 contrast ratio are kept. With --expert (or
any expert flag) the contrast window, saturation and lightness ranges and the
harmonies used can be narrowed.

Input plugins:
`)
	for _, name := range a.plugins.ListInputPlugins() {
		p, _ := a.plugins.GetInputPlugin(name)
		fmt.Fprintf(&b, "  %-12s %s\n", name, p.Description())
	}

	b.WriteString("\nOutput plugins:\n")
	for _, name := range a.plugins.ListOutputPlugins() {
		p, _ := a.plugins.GetOutputPlugin(name)
		fmt.Fprintf(&b, "  %-12s %s\n", name, p.Description())
	}

	b.WriteString(`
Examples:
  wcagtint generate '#1a365d'
  wcagtint generate --base '#1a365d' --outputs css,json --css.prefix brand
  wcagtint generate --input random --random.seed 42 --outputs none
  wcagtint generate --input image -p wallpaper.jpg --outputs png
  wcagtint generate --input stylesheet --stylesheet.source https://example.com/site.css
  wcagtint generate '#e07a5f' --harmony analogous --min-contrast 7`)
	return b.String()
}

func (a *app) runGenerate(cmd *cobra.Command, args []string, opts *generateOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		if cmd.Flags().Changed("input") && opts.input != "hex" {
			return fmt.Errorf("a positional base colour only applies to the hex input, not %q", opts.input)
		}
		opts.input = "hex"
	}

	inputPlugin, ok := a.plugins.GetInputPlugin(opts.input)
	if !ok {
		return fmt.Errorf("unknown input plugin: %s (available: %s)", opts.input, strings.Join(a.plugins.InputRegistry().List(), ", "))
	}
	if len(args) == 1 {
		if h, ok := inputPlugin.(*hex.Plugin); ok {
			h.SetBase(args[0])
		}
	}
	if err := inputPlugin.Validate(); err != nil {
		return fmt.Errorf("input plugin validation failed: %w", err)
	}

	outputs, err := a.selectOutputPlugins(opts.outputs)
	if err != nil {
		return err
	}

	inputOpts, err := buildInputOptions(inputPlugin.Name(), opts)
	if err != nil {
		return err
	}
	a.logger.Debug("running input plugin", "name", inputPlugin.Name())

	base, err := inputPlugin.Generate(ctx, inputOpts)
	if err != nil {
		return fmt.Errorf("failed to get base colour from %s: %w", inputPlugin.Name(), err)
	}

	report, err := colour.NewReport(base, opts.expert.resolve(cmd.Flags()))
	if err != nil {
		return err
	}
	a.logger.Debug("generated palette", "base", report.BaseHex, "combinations", report.Len(), "expert", report.Expert)

	if !a.quiet && !opts.noTable {
		printReport(out, report)
	}

	if opts.saveReport != "" {
		if err := saveReport(report, opts.saveReport); err != nil {
			return err
		}
		a.logger.Info("saved report", "path", opts.saveReport)
	}

	if len(outputs) == 0 {
		return nil
	}

	run := &outputRun{
		app:     a,
		out:     out,
		dryRun:  opts.dryRun,
		verbose: a.verbose,
	}
	if err := run.configureExternal(outputs, opts.pluginArgs); err != nil {
		return err
	}
	executions := run.prepare(ctx, outputs)
	succeeded := run.generate(executions, report)
	run.postExecute(ctx, executions)

	return run.summary(succeeded, len(executions))
}

// buildInputOptions decodes --plugin-args for the input plugin.
func buildInputOptions(name string, opts *generateOptions) (input.GenerateOptions, error) {
	inputOpts := input.GenerateOptions{
		DryRun:     opts.dryRun,
		PluginArgs: map[string]any{},
	}
	if raw, ok := opts.pluginArgs[name]; ok {
		if err := json.Unmarshal([]byte(raw), &inputOpts.PluginArgs); err != nil {
			return inputOpts, fmt.Errorf("invalid --plugin-args for %s: %w", name, err)
		}
	}
	return inputOpts, nil
}

// selectOutputPlugins resolves --outputs. "all" runs every enabled plugin;
// naming a plugin runs it even when it is not in the enabled list, unless
// it is explicitly disabled.
func (a *app) selectOutputPlugins(names []string) ([]output.Plugin, error) {
	if slices.Contains(names, outputsNone) {
		if len(names) > 1 {
			return nil, fmt.Errorf("--outputs %s cannot be combined with other plugins", outputsNone)
		}
		return nil, nil
	}

	if slices.Contains(names, outputsAll) {
		enabled := a.plugins.ListOutputPlugins()
		if len(enabled) == 0 {
			return nil, fmt.Errorf("no output plugins available (all plugins are disabled)")
		}
		names = enabled
	}

	disabled := a.plugins.GetConfig().DisabledPlugins
	plugins := make([]output.Plugin, 0, len(names))
	for _, name := range names {
		p, ok := a.plugins.GetOutputPlugin(name)
		if !ok {
			return nil, fmt.Errorf("unknown output plugin: %s (available: %s)", name, strings.Join(a.plugins.OutputRegistry().List(), ", "))
		}
		if slices.Contains(disabled, "output:"+name) || slices.Contains(disabled, name) || slices.Contains(disabled, "all") {
			return nil, fmt.Errorf("output plugin %s is disabled (check WCAGTINT_DISABLED_PLUGINS or the plugin lock file)", name)
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

// printReport writes the palette table, with swatches when colour is enabled.
func printReport(w io.Writer, report *colour.Report) {
	mode := "standard"
	if report.Expert {
		mode = "expert"
	}
	fmt.Fprintf(w, "%s Base %s  %s  (%s)\n\n",
		colour.ColourPreview(report.Base, 4), report.BaseHex, report.BaseHSL, mode)

	if report.Len() == 0 {
		fmt.Fprintln(w, "No combinations meet the contrast requirements.")
		return
	}

	table := NewTable([]string{"#", "Sample", "Name", "Background", "Text", "Ratio", "Level"})
	table.SetColumnAlign(0, AlignRight)
	table.SetColumnAlign(5, AlignRight)
	for i, c := range report.All() {
		table.AddRow(
			fmt.Sprint(i+1),
			colour.CombinationSwatch(c, 6),
			c.Name,
			c.Background,
			c.Text,
			fmt.Sprintf("%.2f:1", c.Ratio),
			colour.LevelString(c.Level),
		)
	}
	_, _ = table.WriteTo(w)

	counts := report.Counts()
	fmt.Fprintf(w, "\n%d combinations: %d AAA, %d AA\n", report.Len(), counts[colour.LevelAAA], counts[colour.LevelAA])
}
