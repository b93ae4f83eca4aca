package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/output"
)

const (
	preExecuteTimeout  = 5 * time.Second
	postExecuteTimeout = 10 * time.Second
)

// argsSetter and dryRunSetter are implemented by external plugins.
type argsSetter interface {
	SetArgs(args map[string]any)
}

type dryRunSetter interface {
	SetDryRun(dryRun bool)
}

type reportIDer interface {
	LastReportID() string
}

// outputRun drives the output plugins of one generate invocation.
type outputRun struct {
	app     *app
	out     io.Writer
	dryRun  bool
	verbose bool
}

// pluginExecution tracks the execution state of an output plugin.
type pluginExecution struct {
	plugin       output.Plugin
	skip         bool
	skipReason   string
	writtenFiles []string
}

// configureExternal passes --plugin-args and --dry-run to external plugins.
func (r *outputRun) configureExternal(plugins []output.Plugin, pluginArgs map[string]string) error {
	for _, p := range plugins {
		if s, ok := p.(dryRunSetter); ok {
			s.SetDryRun(r.dryRun)
		}
		raw, ok := pluginArgs[p.Name()]
		if !ok {
			continue
		}
		s, ok := p.(argsSetter)
		if !ok {
			return fmt.Errorf("output plugin %s does not accept --plugin-args", p.Name())
		}
		var args map[string]any
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return fmt.Errorf("invalid --plugin-args for %s: %w", p.Name(), err)
		}
		s.SetArgs(args)
	}
	return nil
}

// prepare validates plugins and runs their pre-execute hooks.
func (r *outputRun) prepare(ctx context.Context, plugins []output.Plugin) []pluginExecution {
	executions := make([]pluginExecution, 0, len(plugins))

	for _, p := range plugins {
		exec := pluginExecution{plugin: p}

		if err := p.Validate(); err != nil {
			exec.skip = true
			exec.skipReason = fmt.Sprintf("validation failed: %v", err)
			r.app.logger.Warn("skipping output plugin", "name", p.Name(), "reason", exec.skipReason)
		} else if hook, ok := p.(output.PreExecuteHook); ok {
			hookCtx, cancel := context.WithTimeout(ctx, preExecuteTimeout)
			skip, reason, err := hook.PreExecute(hookCtx)
			cancel()

			switch {
			case err != nil:
				exec.skip = true
				exec.skipReason = fmt.Sprintf("pre-execute check failed: %v", err)
				r.app.logger.Error("output plugin pre-execute failed", "name", p.Name(), "error", err)
			case skip:
				exec.skip = true
				exec.skipReason = reason
				r.app.logger.Info("skipping output plugin", "name", p.Name(), "reason", reason)
			}
		}

		executions = append(executions, exec)
	}

	return executions
}

// generate renders every runnable plugin and writes its files.
// It returns the number of plugins that succeeded.
func (r *outputRun) generate(executions []pluginExecution, report *colour.Report) int {
	succeeded := 0
	for i := range executions {
		exec := &executions[i]
		if exec.skip {
			continue
		}

		p := exec.plugin
		r.app.logger.Debug("running output plugin", "name", p.Name())

		files, err := p.Generate(report)
		if err != nil {
			exec.skip = true
			exec.skipReason = fmt.Sprintf("generation failed: %v", err)
			r.app.logger.Error("output plugin failed", "name", p.Name(), "error", err)
			continue
		}
		if ider, ok := p.(reportIDer); ok && ider.LastReportID() != "" {
			r.app.logger.Debug("report exported", "plugin", p.Name(), "report_id", ider.LastReportID())
		}

		if err := r.writeFiles(exec, files); err != nil {
			exec.skip = true
			exec.skipReason = fmt.Sprintf("write failed: %v", err)
			r.app.logger.Error("failed to write output", "name", p.Name(), "error", err)
			continue
		}
		succeeded++
	}
	return succeeded
}

// outputDir is the plugin's directory, falling back to WCAGTINT_OUTPUT_DIR
// when the plugin was left at its default.
func (r *outputRun) outputDir(p output.Plugin) string {
	dir := p.DefaultOutputDir()
	if (dir == "" || dir == ".") && r.app.cfg.OutputDir != "" {
		return r.app.cfg.OutputDir
	}
	if dir == "" {
		return "."
	}
	return dir
}

func (r *outputRun) writeFiles(exec *pluginExecution, files map[string][]byte) error {
	dir := r.outputDir(exec.plugin)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		content := files[name]
		path := filepath.Join(dir, name)

		if r.dryRun {
			fmt.Fprintf(r.out, "  Would write: %s (%d bytes)\n", path, len(content))
			continue
		}
		if err := writeFile(path, content); err != nil {
			return err
		}
		exec.writtenFiles = append(exec.writtenFiles, path)
		if !r.app.quiet {
			fmt.Fprintf(r.out, "  %s (%d bytes)\n", path, len(content))
		}
	}
	return nil
}

// postExecute runs post-execute hooks for plugins that wrote files.
func (r *outputRun) postExecute(ctx context.Context, executions []pluginExecution) {
	for _, exec := range executions {
		if exec.skip || len(exec.writtenFiles) == 0 {
			continue
		}
		hook, ok := exec.plugin.(output.PostExecuteHook)
		if !ok {
			continue
		}

		hookCtx, cancel := context.WithTimeout(ctx, postExecuteTimeout)
		err := hook.PostExecute(hookCtx, exec.writtenFiles)
		cancel()
		if err != nil {
			r.app.logger.Warn("output plugin post-execute failed", "name", exec.plugin.Name(), "error", err)
		}
	}
}

// summary reports skipped plugins and fails when nothing succeeded.
func (r *outputRun) summary(succeeded, total int) error {
	if r.dryRun {
		return nil
	}
	if succeeded == 0 {
		return errors.New("no output plugins succeeded")
	}
	if !r.app.quiet {
		fmt.Fprintf(r.out, "\nGenerated %d of %d output plugin(s)\n", succeeded, total)
	}
	return nil
}

// saveReport writes the report JSON to path.
func saveReport(report *colour.Report, path string) error {
	data, err := report.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// writeFile writes content to path, expanding a leading ~/ and creating
// parent directories. An existing file is kept as path.backup.
func writeFile(path string, content []byte) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".backup"); err != nil {
			return fmt.Errorf("failed to back up %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
