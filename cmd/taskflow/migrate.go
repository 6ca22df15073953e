package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/taskflow/internal/store/adapters/pg"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Aplica o revierte las migraciones de Postgres",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(pg.Up), string(pg.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := pg.Up
			if len(args) == 1 {
				dir = pg.Direction(args[0])
			}

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				return fmt.Errorf("migrate: storage.driver is %q, expected postgres", cfg.Storage.Driver)
			}
			if err := pg.Migrate(cfg.Storage.DSN, dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations %s: ok\n", dir)
			return nil
		},
	}
}
