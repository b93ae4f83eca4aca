// Package executor runs external plugin executables over either of the two
// plugin transports: go-plugin net/rpc or one JSON document on stdin/stdout.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/protocol"
)

// Hook deadlines, applied on top of the caller's context.
const (
	PreExecuteTimeout  = 5 * time.Second
	PostExecuteTimeout = 10 * time.Second
)

// DefaultOutputFile holds the stdout of a json-stdio output plugin that
// does not answer with a file map.
const DefaultOutputFile = "output.txt"

// ErrUnsupportedProtocol is returned when no transport matches the plugin.
var ErrUnsupportedProtocol = errors.New("unsupported plugin protocol")

// transport is one conversation style with a plugin process.
type transport interface {
	input(ctx context.Context, opts protocol.InputOptions) (string, error)
	output(ctx context.Context, palette protocol.PaletteData) (map[string][]byte, error)
	preExecute(ctx context.Context) (bool, string, error)
	postExecute(ctx context.Context, written []string) error
	flagHelp(ctx context.Context) ([]protocol.FlagHelp, error)
	close()
}

// PluginExecutor talks to one plugin executable. Close it when done; for
// go-plugin executables that stops the process.
type PluginExecutor struct {
	path string
	kind protocol.PluginType
	info protocol.PluginInfo
	t    transport
}

// New inspects the executable with --plugin-info, refuses incompatible
// protocol versions and picks the transport.
func New(ctx context.Context, path string, log hclog.Logger) (*PluginExecutor, error) {
	return NewWithRunner(ctx, path, log, ExecRunner)
}

// NewWithRunner is New with the process runner used by json-stdio calls
// replaced.
func NewWithRunner(ctx context.Context, path string, log hclog.Logger, runner Runner) (*PluginExecutor, error) {
	found, err := protocol.DetectProtocol(ctx, path)
	if err != nil {
		return nil, err
	}
	if v := found.PluginInfo.ProtocolVersion; v != "" {
		if _, err := protocol.IsCompatible(v); err != nil {
			return nil, fmt.Errorf("plugin %s: %w", path, err)
		}
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	log = log.Named("plugin")

	e := &PluginExecutor{path: path, kind: found.Type, info: found.PluginInfo}
	switch found.Type {
	case protocol.PluginTypeJSON:
		e.t = &stdio{path: path, run: runner, log: log}
	case protocol.PluginTypeGoPlugin:
		e.t = &rpcTransport{path: path, kind: found.PluginInfo.Type, log: log}
	}
	return e, nil
}

// Info is what the plugin said about itself.
func (e *PluginExecutor) Info() protocol.PluginInfo { return e.info }

// Protocol is the transport the plugin asked for.
func (e *PluginExecutor) Protocol() protocol.PluginType { return e.kind }

func (e *PluginExecutor) transport() (transport, error) {
	if e.t == nil {
		return nil, fmt.Errorf("%s: %w %q", e.path, ErrUnsupportedProtocol, e.kind)
	}
	return e.t, nil
}

// ExecuteInput asks an input plugin for its base colour.
func (e *PluginExecutor) ExecuteInput(ctx context.Context, opts protocol.InputOptions) (colour.RGB, error) {
	t, err := e.transport()
	if err != nil {
		return colour.RGB{}, err
	}
	raw, err := t.input(ctx, opts)
	if err != nil {
		return colour.RGB{}, err
	}
	rgb, err := colour.ParseHex(strings.TrimSpace(raw))
	if err != nil {
		return colour.RGB{}, fmt.Errorf("%s: invalid base colour %q: %w", e.path, raw, err)
	}
	return rgb, nil
}

// ExecuteOutput sends the palette to an output plugin and returns its files.
func (e *PluginExecutor) ExecuteOutput(ctx context.Context, palette protocol.PaletteData) (map[string][]byte, error) {
	t, err := e.transport()
	if err != nil {
		return nil, err
	}
	return t.output(ctx, palette)
}

// PreExecute runs the output plugin's pre-execute hook, bounded by
// PreExecuteTimeout.
func (e *PluginExecutor) PreExecute(ctx context.Context) (skip bool, reason string, err error) {
	t, err := e.transport()
	if err != nil {
		return false, "", err
	}
	ctx, cancel := context.WithTimeout(ctx, PreExecuteTimeout)
	defer cancel()
	return t.preExecute(ctx)
}

// PostExecute runs the output plugin's post-execute hook, bounded by
// PostExecuteTimeout.
func (e *PluginExecutor) PostExecute(ctx context.Context, written []string) error {
	t, err := e.transport()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, PostExecuteTimeout)
	defer cancel()
	return t.postExecute(ctx, written)
}

// GetFlagHelp returns the plugin's argument documentation, empty when it
// has none.
func (e *PluginExecutor) GetFlagHelp(ctx context.Context) ([]protocol.FlagHelp, error) {
	t, err := e.transport()
	if err != nil {
		return nil, err
	}
	return t.flagHelp(ctx)
}

// Close releases the plugin process. It may be called more than once.
func (e *PluginExecutor) Close() {
	if e.t != nil {
		e.t.close()
	}
}

// ReportToPaletteData is the wire form of report for output plugins.
func ReportToPaletteData(report *colour.Report, reportID string, pluginArgs map[string]any, dryRun bool) protocol.PaletteData {
	data := protocol.PaletteData{
		ReportID:     reportID,
		Base:         report.BaseHex,
		BaseRGB:      protocol.RGBColour{R: report.Base.R, G: report.Base.G, B: report.Base.B},
		Expert:       report.Expert,
		Combinations: make([]protocol.CombinationData, 0, len(report.Combinations)),
		PluginArgs:   pluginArgs,
		DryRun:       dryRun,
	}
	for _, c := range report.Combinations {
		data.Combinations = append(data.Combinations, protocol.CombinationData{
			Name:       c.Name,
			Background: c.Background,
			Text:       c.Text,
			Ratio:      c.Ratio,
			Level:      c.Level.String(),
		})
	}
	return data
}
