package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhirendraxd/CyberSentry-sub000/internal/api"
	"github.com/dhirendraxd/CyberSentry-sub000/internal/utils/logger"
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, err := buildPipeline(ctx)
		if err != nil {
			return err
		}

		server := api.NewServer(p.sessions, p.registry, p.cfg.Server.Listen, p.cfg.Server.MaxUploadBytes)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(ctx)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			logger.Named(ctx, "api").Infof("Received %s, shutting down", sig)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Stop(shutdownCtx)
		}
	},
}
