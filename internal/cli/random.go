package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/colour"
	"github.com/jmylchreest/wcagtint/internal/plugin/input/shared/seed"
)

type randomColour struct {
	Hex  string     `json:"hex"`
	RGB  colour.RGB `json:"rgb"`
	HSL  colour.HSL `json:"hsl"`
	Seed uint64     `json:"seed"`
}

func (a *app) newRandomCmd() *cobra.Command {
	var (
		seedValue uint64
		text      string
		count     int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print random vivid base colours",
		Long: `Print random base colours with saturation between 60% and 100% and
lightness between 30% and 70%, suitable as palette seeds.

A --seed or --text value makes the output reproducible.`,
		Example: `  wcagtint random
  wcagtint random --seed 42 --count 5
  wcagtint random --text "Acme Coffee" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("invalid --count %d: must be at least 1", count)
			}

			cfg := seed.Config{Mode: seed.ModeRandom}
			switch {
			case cmd.Flags().Changed("seed") && text != "":
				return fmt.Errorf("--seed and --text are mutually exclusive")
			case cmd.Flags().Changed("seed"):
				cfg.Mode, cfg.Value = seed.ModeManual, &seedValue
			case text != "":
				cfg.Mode, cfg.Text = seed.ModeText, text
			}

			s, err := seed.Calculate(cfg)
			if err != nil {
				return err
			}
			a.logger.Debug("random colours", "seed", s, "mode", cfg.Mode)

			rng := colour.NewSeededSampler(s)
			colours := make([]randomColour, count)
			for i := range colours {
				c := colour.RandomRGB(rng)
				colours[i] = randomColour{Hex: c.Hex(), RGB: c, HSL: c.HSL(), Seed: s}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if count == 1 {
					return enc.Encode(colours[0])
				}
				return enc.Encode(colours)
			}
			for _, c := range colours {
				fmt.Fprintf(out, "%s %s  %s\n", colour.ColourPreview(c.RGB, 4), c.Hex, c.HSL)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seedValue, "seed", 0, "Seed for reproducible colours")
	cmd.Flags().StringVar(&text, "text", "", "Derive the seed from text (e.g. a brand name)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of colours to print")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}
