package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var fs embed.FS

func newMigrate(opts Options) (*migrate.Migrate, error) {
	if _, err := opts.flavor(); err != nil {
		return nil, err
	}

	// Create a new source instance using the embedded migrations for the driver
	d, err := iofs.New(fs, "migrations/"+opts.Driver)
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, opts.migrationURL())
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}
	return m, nil
}

// Migrate runs all pending migrations using golang-migrate
func Migrate(opts Options) error {
	log.WithField("database", opts.String()).Info("Running migrations")

	m, err := newMigrate(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// Rollback reverts the last applied migration
func Rollback(opts Options) error {
	log.WithField("database", opts.String()).Info("Rolling back last migration")

	m, err := newMigrate(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Steps(-1)
}
