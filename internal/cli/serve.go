package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/wcagtint/internal/server"
)

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the palette and contrast API over HTTP",
		Long: `Serve a JSON API exposing palette generation and contrast checks.

Endpoints (GET):
  /healthz
  /v1/palette?base=%231a365d[&harmony=..&minContrast=..&maxContrast=..
              &saturationRange=min,max&lightnessRange=min,max]
  /v1/random[?seed=N]
  /v1/contrast?fg=ffffff&bg=1a365d
  /v1/level?ratio=4.5[&large=true]

Cross-origin requests are accepted from WCAGTINT_ALLOWED_ORIGINS, plus
localhost when WCAGTINT_DEV_MODE is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(a.cfg, a.logger.Named("http")).Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&a.cfg.HTTPAddr, "addr", a.cfg.HTTPAddr, "Listen address")
	cmd.Flags().StringSliceVar(&a.cfg.AllowedOrigins, "allowed-origins", a.cfg.AllowedOrigins, "Origins allowed to make cross-origin requests")
	cmd.Flags().DurationVar(&a.cfg.ShutdownTimeout, "shutdown-timeout", a.cfg.ShutdownTimeout, "Graceful shutdown timeout")
	cmd.Flags().BoolVar(&a.cfg.DevMode, "dev", a.cfg.DevMode, "Development mode (allow localhost origins, include caller info in errors)")

	return cmd
}
