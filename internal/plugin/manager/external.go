package manager

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/executor"
	"github.com/jmylchreest/wcagtint/internal/plugin/input"
	"github.com/jmylchreest/wcagtint/internal/plugin/protocol"
)

const versionUnknown = "unknown"

// external is the part of a plugin executable wrapper that does not depend
// on its kind. Every call starts the executable afresh.
type external struct {
	name, description, path string
	log                     hclog.Logger

	args   map[string]any
	dryRun bool

	versionOnce sync.Once
	version     string
}

func newExternal(name, description, path string, log hclog.Logger) external {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return external{name: name, description: description, path: path, log: log.Named(name)}
}

func (p *external) Name() string        { return p.name }
func (p *external) Description() string { return p.description }
func (p *external) Path() string        { return p.path }

// Version asks the executable once and remembers the answer.
func (p *external) Version() string {
	p.versionOnce.Do(func() {
		p.version = versionUnknown
		if res, err := protocol.DetectProtocol(context.Background(), p.path); err == nil && res.PluginInfo.Version != "" {
			p.version = res.PluginInfo.Version
		}
	})
	return p.version
}

// SetArgs replaces the arguments sent on every run; --plugin-args and the
// lock file's config land here.
func (p *external) SetArgs(args map[string]any) { p.args = args }
func (p *external) GetArgs() map[string]any     { return p.args }
func (p *external) SetDryRun(dryRun bool)       { p.dryRun = dryRun }

// External plugins take no cobra flags and are only validated by running.
func (p *external) RegisterFlags(*cobra.Command) {}
func (p *external) Validate() error              { return nil }

// run starts the executable, hands it to fn and shuts it down again.
func (p *external) run(ctx context.Context, fn func(*executor.PluginExecutor) error) error {
	e, err := executor.New(ctx, p.path, p.log)
	if err != nil {
		return fmt.Errorf("start plugin %s: %w", p.name, err)
	}
	defer e.Close()
	return fn(e)
}

// GetFlagHelp asks the plugin to document its arguments. It returns nil
// when the plugin cannot be run.
func (p *external) GetFlagHelp() []input.FlagHelp {
	var help []input.FlagHelp
	err := p.run(context.Background(), func(e *executor.PluginExecutor) error {
		var err error
		help, err = e.GetFlagHelp(context.Background())
		return err
	})
	if err != nil {
		p.log.Debug("no flag help", "error", err)
		return nil
	}
	return help
}

// argsWith layers extra over the stored arguments.
func (p *external) argsWith(extra map[string]any) map[string]any {
	out := maps.Clone(p.args)
	if out == nil {
		out = make(map[string]any, len(extra))
	}
	maps.Copy(out, extra)
	return out
}

// ExternalInputPlugin is an executable acting as an input plugin.
type ExternalInputPlugin struct {
	external
}

// NewExternalInputPlugin wraps the executable at path.
func NewExternalInputPlugin(name, description, path string, log hclog.Logger) *ExternalInputPlugin {
	return &ExternalInputPlugin{newExternal(name, description, path, log)}
}

// Generate runs the plugin and returns the base colour it picked.
func (p *ExternalInputPlugin) Generate(ctx context.Context, opts input.GenerateOptions) (colour.RGB, error) {
	req := protocol.InputOptions{
		Verbose:    opts.Verbose,
		DryRun:     opts.DryRun || p.dryRun,
		PluginArgs: p.argsWith(opts.PluginArgs),
	}
	p.log.Debug("running input plugin", "args", req.PluginArgs)

	var base colour.RGB
	err := p.run(ctx, func(e *executor.PluginExecutor) error {
		var err error
		base, err = e.ExecuteInput(ctx, req)
		return err
	})
	return base, err
}

// ExternalOutputPlugin is an executable acting as an output plugin. It
// names its own files, relative to the current directory.
type ExternalOutputPlugin struct {
	external
	reportID string
}

// NewExternalOutputPlugin wraps the executable at path.
func NewExternalOutputPlugin(name, description, path string, log hclog.Logger) *ExternalOutputPlugin {
	return &ExternalOutputPlugin{external: newExternal(name, description, path, log)}
}

func (p *ExternalOutputPlugin) DefaultOutputDir() string { return "." }

// LastReportID is the ID sent with the latest Generate.
func (p *ExternalOutputPlugin) LastReportID() string { return p.reportID }

// Generate sends the report to the plugin and returns the files it made.
func (p *ExternalOutputPlugin) Generate(report *colour.Report) (map[string][]byte, error) {
	if report == nil {
		return nil, errors.New("report cannot be nil")
	}
	p.reportID = uuid.NewString()
	data := executor.ReportToPaletteData(report, p.reportID, p.argsWith(nil), p.dryRun)

	files := map[string][]byte{}
	ctx := context.Background()
	err := p.run(ctx, func(e *executor.PluginExecutor) error {
		got, err := e.ExecuteOutput(ctx, data)
		maps.Copy(files, got)
		return err
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// PreExecute forwards to the plugin's hook.
func (p *ExternalOutputPlugin) PreExecute(ctx context.Context) (skip bool, reason string, err error) {
	err = p.run(ctx, func(e *executor.PluginExecutor) error {
		var herr error
		skip, reason, herr = e.PreExecute(ctx)
		return herr
	})
	return skip, reason, err
}

// PostExecute forwards to the plugin's hook.
func (p *ExternalOutputPlugin) PostExecute(ctx context.Context, written []string) error {
	return p.run(ctx, func(e *executor.PluginExecutor) error {
		return e.PostExecute(ctx, written)
	})
}
