package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"deltakey/internal/api"
	"deltakey/internal/config"
	"deltakey/internal/logging"
	"deltakey/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the identification API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd.Context(), func(cfg *config.Config, svc *api.KeyService) error {
				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}

				bind := bindFlag
				if bind == "" {
					bind = cfg.Paths.APIBind
				}

				runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				srv := server.New(bind, svc, cfg.Key.MaxAutoSteps, logger)
				if err := srv.Start(runCtx); err != nil {
					return err
				}
				defer srv.Stop()

				fmt.Fprintf(cmd.OutOrStdout(), "Serving identification API on %s\n", srv.Addr())
				<-runCtx.Done()
				logger.Info("api server shutting down")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&bindFlag, "bind", "", "Listen address (defaults to the configured api_bind)")
	return cmd
}
