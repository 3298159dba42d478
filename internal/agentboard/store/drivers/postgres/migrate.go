package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/agentboard/internal/agentboard/store/drivers/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ApplyMigrations runs the embedded migrations through golang-migrate's pgx
// driver, which opens its own connection from the DSN.
func (s *Store) ApplyMigrations() error {
	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}

	instance, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(s.dsn))
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer func() { _, _ = instance.Close() }()

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// migrateURL swaps the postgres scheme for the one golang-migrate registers
// its pgx v5 driver under.
func migrateURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}
