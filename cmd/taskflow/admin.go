package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/taskflow/internal/bootstrap"
	"github.com/dropDatabas3/taskflow/internal/security/password"
	"github.com/dropDatabas3/taskflow/internal/store"
)

func newAdminCmd(configPath *string) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Operaciones sobre cuentas ADMIN",
	}

	var email, pwd, name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Crea la cuenta ADMIN si no existe (idempotente)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				return fmt.Errorf("admin create: storage.driver is %q, expected postgres", cfg.Storage.Driver)
			}

			conn, err := store.OpenAdapter(cmd.Context(), store.AdapterConfig{
				Name:         cfg.Storage.Driver,
				DSN:          cfg.Storage.DSN,
				MaxOpenConns: 1,
				QueryTimeout: cfg.Storage.QueryTimeout,
			})
			if err != nil {
				return err
			}
			defer conn.Close()

			m, created, err := bootstrap.EnsureAdmin(cmd.Context(), bootstrap.AdminConfig{
				Members:  conn.Members(),
				Hasher:   password.NewHasher(cfg.Security.BcryptCost),
				Policy:   password.Policy{MinLength: cfg.Security.PasswordPolicy.MinLength},
				Email:    email,
				Password: pwd,
				Username: name,
			})
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "admin created: %s (%s)\n", m.Email, m.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "admin already exists: %s (%s)\n", m.Email, m.ID)
			}
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", envOr("TASKFLOW_ADMIN_EMAIL", ""), "Email (env TASKFLOW_ADMIN_EMAIL)")
	create.Flags().StringVar(&pwd, "password", envOr("TASKFLOW_ADMIN_PASSWORD", ""), "Password (env TASKFLOW_ADMIN_PASSWORD)")
	create.Flags().StringVar(&name, "name", "admin", "Username")

	admin.AddCommand(create)
	return admin
}
