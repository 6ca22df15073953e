package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/taskflow/internal/config"
	"github.com/dropDatabas3/taskflow/internal/http/server"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
	"github.com/dropDatabas3/taskflow/internal/store/adapters/pg"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.Log.Level,
				ServiceName: cfg.App.Name,
				Version:     cfg.App.Version,
			})
			defer func() { _ = logger.Sync() }()
			log := logger.L()

			if cfg.Storage.Driver == "postgres" && cfg.Storage.Migrate {
				if err := pg.Migrate(cfg.Storage.DSN, pg.Up); err != nil {
					return err
				}
				log.Info("migrations applied")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, cfg)
		},
	}
}

// loadConfig carga .env (si existe) y después la config.
func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return config.Load(path)
}
