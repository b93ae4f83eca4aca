package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
)

type contrastResult struct {
	Foreground string       `json:"fg"`
	Background string       `json:"bg"`
	Ratio      float64      `json:"ratio"`
	Normal     colour.Level `json:"normal"`
	Large      colour.Level `json:"large"`
}

func (a *app) newContrastCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "contrast FG BG",
		Short: "Check the contrast ratio of a text and background colour",
		Long: `Compute the WCAG 2.1 contrast ratio between two colours and the level
reached for normal text and for large text (18pt, or 14pt bold).`,
		Example: `  wcagtint contrast '#ffffff' '#1a365d'
  wcagtint contrast 777777 ffffff --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fg, err := colour.ParseHex(args[0])
			if err != nil {
				return fmt.Errorf("foreground: %w", err)
			}
			bg, err := colour.ParseHex(args[1])
			if err != nil {
				return fmt.Errorf("background: %w", err)
			}

			ratio := colour.Contrast(fg, bg)
			result := contrastResult{
				Foreground: fg.Hex(),
				Background: bg.Hex(),
				Ratio:      ratio,
				Normal:     colour.WCAGLevel(ratio, false),
				Large:      colour.WCAGLevel(ratio, true),
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprintf(out, "%s  %s on %s  %.2f:1\n",
				colour.SwatchWithText(bg, fg, "Aa", 6), result.Foreground, result.Background, ratio)
			fmt.Fprintf(out, "  Normal text: %s\n", colour.LevelString(result.Normal))
			fmt.Fprintf(out, "  Large text:  %s\n", colour.LevelString(result.Large))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
