package pg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	migrations "github.com/dropDatabas3/taskflow/migrations/postgres"
)

// Direction de una corrida de migraciones.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migrate aplica (o revierte) las migraciones embebidas sobre dsn.
// dsn debe ser URL (postgres://...); se reescribe al esquema pgx5:// del driver.
// Sin cambios pendientes no es error.
func Migrate(dsn string, dir Direction) error {
	src, err := iofs.New(migrations.FS, migrations.Dir)
	if err != nil {
		return fmt.Errorf("pg: migrate: open source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(dsn))
	if err != nil {
		return fmt.Errorf("pg: migrate: init: %w", err)
	}
	defer m.Close()

	switch dir {
	case Down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("pg: migrate %s: %w", dir, err)
	}
	return nil
}

func migrateURL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
