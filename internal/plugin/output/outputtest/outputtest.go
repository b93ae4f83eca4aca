// Package outputtest checks the behaviour every output plugin shares.
package outputtest

import (
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/output"
)

// Want describes what a plugin should look like. Files are the names
// Generate returns for Report. DirContains is checked only when set.
type Want struct {
	Name        string
	Files       []string
	DirContains string
}

// Run checks metadata, flags and generation for p.
func Run(t *testing.T, p output.Plugin, want Want) {
	t.Helper()

	t.Run("metadata", func(t *testing.T) {
		if p.Name() != want.Name {
			t.Errorf("Name() = %q, want %q", p.Name(), want.Name)
		}
		if p.Description() == "" {
			t.Error("Description() is empty")
		}
		if dir := p.DefaultOutputDir(); dir == "" || !strings.Contains(dir, want.DirContains) {
			t.Errorf("DefaultOutputDir() = %q, want it to contain %q", dir, want.DirContains)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("Validate() with defaults: %v", err)
		}
	})

	t.Run("flags", func(t *testing.T) {
		cmd := &cobra.Command{Use: "generate"}
		p.RegisterFlags(cmd)
		if flag := want.Name + ".output-dir"; cmd.Flags().Lookup(flag) == nil {
			t.Errorf("--%s is not registered", flag)
		}
	})

	t.Run("generate", func(t *testing.T) {
		files, err := p.Generate(Report(t))
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if diff := cmp.Diff(slices.Sorted(slices.Values(want.Files)), slices.Sorted(maps.Keys(files))); diff != "" {
			t.Errorf("file names mismatch (-want +got):\n%s", diff)
		}
		for n, b := range files {
			if len(b) == 0 {
				t.Errorf("%s is empty", n)
			}
		}
	})

	t.Run("expert", func(t *testing.T) {
		files, err := p.Generate(ExpertReport(t))
		if err != nil || len(files) == 0 {
			t.Errorf("Generate(expert) = %d files, %v", len(files), err)
		}
	})

	t.Run("edge reports", func(t *testing.T) {
		if _, err := p.Generate(nil); err == nil {
			t.Error("Generate(nil) succeeded")
		}
		if _, err := p.Generate(&colour.Report{BaseHex: "#000000"}); err != nil {
			t.Errorf("Generate(no combinations) error = %v", err)
		}
	})
}

// Report is the default-generator report for #1a365d.
func Report(t *testing.T) *colour.Report {
	t.Helper()
	r, err := colour.NewReport(colour.HexToRGB("#1a365d"), nil)
	if err != nil {
		t.Fatalf("NewReport() error = %v", err)
	}
	return r
}

// ExpertReport is a triadic expert report for #e07a5f.
func ExpertReport(t *testing.T) *colour.Report {
	t.Helper()
	s := colour.DefaultExpertSettings()
	s.Harmony = colour.HarmonyTriadic
	r, err := colour.NewReport(colour.HexToRGB("#e07a5f"), &s)
	if err != nil {
		t.Fatalf("NewReport(expert) error = %v", err)
	}
	return r
}
