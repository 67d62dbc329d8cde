package app

import (
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/gootp/internal/identity/outbound/db"
	"github.com/shandysiswandi/gootp/internal/pkg/config"
	"github.com/shandysiswandi/gootp/internal/pkg/pgsql"
)

// Migration directions accepted by Migrate.
const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// Migrate applies or rolls back the account schema on the configured
// Postgres database. The MongoDB store needs no migration; its index is
// created at startup.
func Migrate(direction string) error {
	cfg, err := config.NewViper(ConfigPath(), config.WithDefaults(Defaults))
	if err != nil {
		return err
	}
	defer cfg.Close()

	url := cfg.GetString("database.url")
	if url == "" {
		return ErrDatabaseURLRequired
	}

	m, err := pgsql.NewMigrator(url, db.Migrations, db.MigrationsDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			slog.Warn("failed to close migrator", "error", err)
		}
	}()

	switch direction {
	case MigrateUp:
		err = m.Up()
	case MigrateDown:
		err = m.Down()
	default:
		return fmt.Errorf("app: unknown migration direction %q", direction)
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	slog.Info("migration finished", "direction", direction, "version", version, "dirty", dirty)

	return nil
}
