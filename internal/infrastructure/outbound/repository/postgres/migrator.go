package postgres

import (
	"errors"
	"fmt"
	"log/slog"

	"landing/internal/custom_errors"
	ports "landing/internal/domain/ports/output"
	"landing/internal/infrastructure/outbound/repository/postgres/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrator applies schema migrations. With an empty path the embedded
// migrations are used, otherwise the SQL files under path.
type Migrator struct {
	m   *migrate.Migrate
	log ports.Logger
}

func NewMigrator(dsn, path string, log ports.Logger) (*Migrator, error) {
	var (
		m   *migrate.Migrate
		err error
	)
	if path == "" {
		src, srcErr := iofs.New(migrations.FS, ".")
		if srcErr != nil {
			return nil, fmt.Errorf("%w: open embedded migrations: %v", custom_errors.ErrMigration, srcErr)
		}
		m, err = migrate.NewWithSourceInstance("iofs", src, dsn)
	} else {
		m, err = migrate.New("file://"+path, dsn)
	}
	if err != nil {
		log.Error("Failed to initialise migrator", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", custom_errors.ErrMigration, err)
	}
	return &Migrator{m: m, log: log}, nil
}

func (m *Migrator) Up() error {
	if err := m.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info("Database schema is up to date")
			return nil
		}
		m.log.Error("Migration up failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", custom_errors.ErrMigration, err)
	}
	m.logVersion("Migrations applied")
	return nil
}

// Down rolls back a single migration step.
func (m *Migrator) Down() error {
	if err := m.m.Steps(-1); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Info("No migrations to roll back")
			return nil
		}
		m.log.Error("Migration down failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", custom_errors.ErrMigration, err)
	}
	m.logVersion("Migration rolled back")
	return nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (m *Migrator) logVersion(msg string) {
	version, dirty, err := m.m.Version()
	if err != nil {
		m.log.Info(msg)
		return
	}
	m.log.Info(msg, slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
}
