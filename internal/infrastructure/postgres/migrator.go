package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// Migrator applies the entries schema migrations found in a directory.
type Migrator struct {
	databaseURL string
	path        string
	logger      zerolog.Logger
}

// NewMigrator creates a Migrator for the migrations under path.
func NewMigrator(databaseURL, path string, logger zerolog.Logger) *Migrator {
	return &Migrator{databaseURL: databaseURL, path: path, logger: logger}
}

// Up applies every pending migration and returns the resulting schema
// version. A schema left dirty by a failed migration is refused.
func (m *Migrator) Up() (uint, error) {
	mg, err := m.open()
	if err != nil {
		return 0, err
	}
	defer mg.Close()

	version, dirty, err := schemaVersion(mg)
	if err != nil {
		return 0, err
	}
	if dirty {
		return version, fmt.Errorf("schema is dirty at version %d; repair it and force the version", version)
	}

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, err = schemaVersion(mg)
	if err != nil {
		return 0, err
	}
	m.logger.Info().Uint("version", version).Msg("database schema up to date")
	return version, nil
}

// Version reports the applied schema version. Zero means no migration has run.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	mg, err := m.open()
	if err != nil {
		return 0, false, err
	}
	defer mg.Close()
	return schemaVersion(mg)
}

func (m *Migrator) open() (*migrate.Migrate, error) {
	mg, err := migrate.New("file://"+m.path, m.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	mg.Log = migrateLogger{logger: m.logger}
	return mg, nil
}

func schemaVersion(mg *migrate.Migrate) (uint, bool, error) {
	version, dirty, err := mg.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, dirty, nil
}

// migrateLogger sends golang-migrate progress lines to zerolog at debug level.
type migrateLogger struct {
	logger zerolog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool {
	return l.logger.GetLevel() <= zerolog.DebugLevel
}
