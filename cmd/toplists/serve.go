package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/varoOP/toplists/internal/app"
	"github.com/varoOP/toplists/internal/config"
	"github.com/varoOP/toplists/internal/domain"
	"github.com/varoOP/toplists/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the addon over HTTP",
	Long: `Serve loads the static catalog, builds the manifest and starts the HTTP
server. It is also what runs when toplists is called without a subcommand.

A CSV file that cannot be read, or that holds no valid rows, stops startup.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	return application.Serve(ctx)
}

// bootstrap loads configuration, builds the logger and wires the application.
func bootstrap(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	log := logger.NewLoggerWithLevel(logger.ParseLevel(cfg.LogLevel))
	logStartup(log, cfg)

	application, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize application")
	}

	return application, nil
}

func logStartup(log zerolog.Logger, cfg *domain.Config) {
	log.Info().
		Str("version", version).
		Str("commit", commit).
		Str("log_level", cfg.LogLevel).
		Bool("notifications", cfg.DiscordWebhookURL != "").
		Msg("Starting toplists")
}
