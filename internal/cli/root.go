// Package cli provides the command-line interface for wcagtint.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/config"
	"github.com/jmylchreest/wcagtint/internal/logging"
	"github.com/jmylchreest/wcagtint/internal/plugin/manager"
	"github.com/jmylchreest/wcagtint/internal/version"
)

// app holds the state shared by every command of one root command tree.
type app struct {
	cfg     config.Config
	logger  hclog.Logger
	logOut  *switchWriter
	plugins *manager.Manager

	verbose  bool
	quiet    bool
	noColour bool
}

// switchWriter lets the logger follow the command's error stream, which is
// only known once cobra has parsed the command line.
type switchWriter struct {
	w io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the complete command tree. Configuration is read from
// the environment (and .env) when the tree is built.
func NewRootCmd() *cobra.Command {
	a := &app{
		cfg:    config.Load(),
		logOut: &switchWriter{w: os.Stderr},
	}
	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "wcagtint",
		Output: a.logOut,
		Level:  hclog.Info,
	})
	a.plugins = manager.NewBuilder().
		WithEnvConfig(a.cfg).
		WithLockFile(a.cfg.PluginLockPath).
		WithLogger(a.logger.Named("plugins")).
		Build()

	root := &cobra.Command{
		Use:   "wcagtint",
		Short: "Accessible colour palettes and WCAG contrast checks",
		Long: `wcagtint generates background and text colour combinations that meet the
WCAG 2.1 contrast requirements, starting from a single base colour.

The base colour comes from an input plugin (a hex value, a random colour, an
image, a stylesheet or a language model) and the resulting palette can be
exported through output plugins (text, JSON, CSS and PNG swatch sheets).`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logOut.w = cmd.ErrOrStderr()
			a.logger.SetLevel(logging.LevelFor(a.verbose, a.quiet))
			colour.DisableColourOutput = a.noColour || !isTerminal(cmd.OutOrStdout())
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	root.PersistentFlags().BoolVar(&a.noColour, "no-colour", false, "disable ANSI colour swatches")
	root.SetVersionTemplate(version.String() + "\n")

	root.AddCommand(
		a.newGenerateCmd(),
		a.newRandomCmd(),
		a.newContrastCmd(),
		a.newAuditCmd(),
		a.newServeCmd(),
		a.newPluginsCmd(),
		newVersionCmd(),
	)

	return root
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit, build date and Go toolchain of this binary.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Read()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), info)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print version information as JSON")
	return cmd
}
