// Package random provides an input plugin that picks a vivid random base colour.
package random

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/input"
	"github.com/jmylchreest/wcagtint/internal/plugin/input/shared/seed"
)

// Plugin implements input.Plugin using colour.RandomRGB.
type Plugin struct {
	seedMode  seed.Mode
	seedValue uint64
	seedText  string
	seedSet   bool

	lastSeed uint64
}

// New creates a new random input plugin.
func New() *Plugin {
	return &Plugin{seedMode: seed.ModeRandom}
}

func (p *Plugin) Name() string {
	return "random"
}

func (p *Plugin) Description() string {
	return "Pick a vivid random base colour (optionally seeded)"
}

func (p *Plugin) Version() string {
	return "0.1.0"
}

func (p *Plugin) RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().Var(&p.seedMode, "random.seed-mode", "Seed mode (random, manual, text)")
	cmd.Flags().Var(&seedFlag{p: p}, "random.seed", "Seed value (implies manual mode)")
	cmd.Flags().StringVar(&p.seedText, "random.text", "", "Text to derive the colour from in text mode (e.g. a brand name)")
}

// seedFlag switches the plugin to manual mode when set.
type seedFlag struct {
	p *Plugin
}

func (f *seedFlag) String() string {
	if f.p == nil || !f.p.seedSet {
		return ""
	}
	return strconv.FormatUint(f.p.seedValue, 10)
}

func (f *seedFlag) Set(v string) error {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid seed %q: %w", v, err)
	}
	f.p.SetSeed(n)
	return nil
}

func (f *seedFlag) Type() string {
	return "uint64"
}

// SetSeed fixes the seed, switching to manual mode.
func (p *Plugin) SetSeed(v uint64) {
	p.seedMode = seed.ModeManual
	p.seedValue = v
	p.seedSet = true
}

// SetText switches to text mode.
func (p *Plugin) SetText(text string) {
	p.seedMode = seed.ModeText
	p.seedText = text
}

// Validate checks the seed configuration.
func (p *Plugin) Validate() error {
	mode, err := seed.ParseMode(string(p.seedMode))
	if err != nil {
		return err
	}
	if mode == seed.ModeText && p.seedText == "" {
		return fmt.Errorf("--random.text is required with --random.seed-mode=text")
	}
	return nil
}

func (p *Plugin) GetFlagHelp() []input.FlagHelp {
	return []input.FlagHelp{
		{Name: "random.seed-mode", Type: "string", Default: "random", Description: "Seed mode (random, manual, text)"},
		{Name: "random.seed", Type: "uint64", Default: "", Description: "Seed value (implies manual mode)"},
		{Name: "random.text", Type: "string", Default: "", Description: "Text to derive the colour from in text mode"},
	}
}

// LastSeed returns the seed used by the most recent Generate call.
func (p *Plugin) LastSeed() uint64 {
	return p.lastSeed
}

// Generate draws the base colour.
func (p *Plugin) Generate(_ context.Context, opts input.GenerateOptions) (colour.RGB, error) {
	cfg := seed.Config{Mode: p.seedMode, Text: p.seedText}
	if p.seedSet {
		v := p.seedValue
		cfg.Value = &v
	}
	if v, ok := opts.PluginArgs["seed"].(float64); ok {
		s := uint64(v)
		cfg.Mode, cfg.Value = seed.ModeManual, &s
	}

	s, err := seed.Calculate(cfg)
	if err != nil {
		return colour.RGB{}, err
	}
	p.lastSeed = s

	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "   Random seed: %d (mode: %s)\n", s, cfg.Mode)
	}

	return colour.RandomRGB(colour.NewSeededSampler(s)), nil
}
