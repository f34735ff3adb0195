package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// Migrator applies the versioned schema under migrations/ to the profile
// database. Only the postgres store uses versioned migrations; the embedded
// sqlite store owns its schema directly.
type Migrator struct {
	m   *migrate.Migrate
	log *logrus.Logger
}

// NewMigrator opens the migration source directory against the profile
// database URL.
func NewMigrator(databaseURL, sourcePath string, logger *logrus.Logger) (*Migrator, error) {
	m, err := migrate.New(fmt.Sprintf("file://%s", sourcePath), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening migrations: %w", err)
	}
	return &Migrator{m: m, log: logger}, nil
}

// Apply brings the profile schema up to the latest version. A schema that is
// already current is not an error.
func (g *Migrator) Apply() error {
	if err := g.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			g.log.Debug("Profile schema already current")
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}

	g.logVersion("Profile schema migrated")
	return nil
}

// Rollback reverts the most recent migration.
func (g *Migrator) Rollback() error {
	if err := g.m.Steps(-1); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			g.log.Debug("No migrations to roll back")
			return nil
		}
		return fmt.Errorf("rolling back migration: %w", err)
	}

	g.logVersion("Migration rolled back")
	return nil
}

// Version reports the current schema version and whether it is dirty.
func (g *Migrator) Version() (uint, bool, error) {
	return g.m.Version()
}

func (g *Migrator) logVersion(msg string) {
	version, dirty, err := g.m.Version()
	if err != nil {
		g.log.WithError(err).Warn("Could not read schema version")
		return
	}
	g.log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info(msg)
}

// Close releases the migration source and database handles.
func (g *Migrator) Close() error {
	sourceErr, dbErr := g.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("closing migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("closing migration database: %w", dbErr)
	}
	return nil
}
