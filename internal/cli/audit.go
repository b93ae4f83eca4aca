package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/audit"
	"github.com/jmylchreest/wcagtint/internal/colour"
)

// ErrAuditFailed is returned by audit --fail-on-error when a pair fails.
var ErrAuditFailed = errors.New("one or more pairs fail WCAG AA")

type auditOptions struct {
	large       bool
	watch       bool
	failOnError bool
	asJSON      bool
	debounce    time.Duration
}

type auditJSONResult struct {
	Line       int          `json:"line"`
	Foreground string       `json:"fg"`
	Background string       `json:"bg"`
	Label      string       `json:"label,omitempty"`
	Ratio      float64      `json:"ratio"`
	Level      colour.Level `json:"level"`
}

type auditJSON struct {
	File    string            `json:"file"`
	Large   bool              `json:"large"`
	Summary audit.Summary     `json:"summary"`
	Results []auditJSONResult `json:"results"`
}

func (a *app) newAuditCmd() *cobra.Command {
	opts := &auditOptions{}

	cmd := &cobra.Command{
		Use:   "audit FILE",
		Short: "Check colour pairs listed in a file",
		Long: `Check every foreground/background pair in FILE against WCAG 2.1.

Each line holds a foreground and a background colour, optionally followed by
a label. Blank lines and lines starting with "# " are ignored:

  # buttons
  #ffffff #1a365d  primary
  #777777 #ffffff  disabled

With --watch the file is checked again every time it is saved.`,
		Example: `  wcagtint audit colours.txt
  wcagtint audit colours.txt --large --json
  wcagtint audit colours.txt --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()

			if !opts.watch {
				return a.runAudit(out, path, opts)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := a.runAudit(out, path, opts); err != nil && !errors.Is(err, ErrAuditFailed) {
				a.logger.Error("audit failed", "error", err)
			}
			a.logger.Info("watching for changes", "file", path)

			return audit.Watch(ctx, path, opts.debounce,
				func() {
					fmt.Fprintln(out)
					if err := a.runAudit(out, path, opts); err != nil && !errors.Is(err, ErrAuditFailed) {
						a.logger.Error("audit failed", "error", err)
					}
				},
				func(err error) {
					a.logger.Warn("watch error", "error", err)
				},
			)
		},
	}

	cmd.Flags().BoolVar(&opts.large, "large", false, "Use the large-text thresholds")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run whenever the file changes")
	cmd.Flags().BoolVar(&opts.failOnError, "fail-on-error", false, "Exit non-zero when any pair fails AA")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print JSON")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", audit.DefaultDebounce, "Quiet period before re-running in watch mode")

	return cmd
}

// runAudit checks the file once. Malformed lines are reported but do not
// stop the well-formed pairs from being checked.
func (a *app) runAudit(out io.Writer, path string, opts *auditOptions) error {
	pairs, parseErr := audit.ParseFile(path)
	if parseErr != nil && len(pairs) == 0 {
		return parseErr
	}
	if parseErr != nil {
		a.logger.Warn("skipped malformed lines", "file", path, "error", parseErr)
	}

	results := audit.Check(pairs, opts.large)
	summary := audit.Summarise(results)

	if opts.asJSON {
		doc := auditJSON{File: path, Large: opts.large, Summary: summary, Results: make([]auditJSONResult, len(results))}
		for i, r := range results {
			doc.Results[i] = auditJSONResult{
				Line:       r.Line,
				Foreground: r.Foreground.Hex(),
				Background: r.Background.Hex(),
				Label:      r.Label,
				Ratio:      r.Ratio,
				Level:      r.Level,
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return err
		}
	} else {
		table := NewTable([]string{"Line", "Sample", "Foreground", "Background", "Ratio", "Level", "Label"})
		table.SetColumnAlign(0, AlignRight)
		table.SetColumnAlign(4, AlignRight)
		for _, r := range results {
			table.AddRow(
				fmt.Sprint(r.Line),
				colour.SwatchWithText(r.Background, r.Foreground, "Aa", 6),
				r.Foreground.Hex(),
				r.Background.Hex(),
				fmt.Sprintf("%.2f:1", r.Ratio),
				colour.LevelString(r.Level),
				r.Label,
			)
		}
		_, _ = table.WriteTo(out)
		fmt.Fprintf(out, "\n%d pairs: %d AAA, %d AA, %d failed\n", summary.Total, summary.AAA, summary.AA, summary.Failed)
	}

	if opts.failOnError && summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrAuditFailed, summary.Failed, summary.Total)
	}
	return nil
}
