// Package migrations embeds the SQL schema and builds golang-migrate instances for it.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var FS embed.FS

// New returns a migrator for databaseURL. An empty sourceURL uses the embedded
// migrations; otherwise it is handed to golang-migrate as is (e.g. file://migrations).
func New(sourceURL, databaseURL string) (*migrate.Migrate, error) {
	if sourceURL != "" {
		return migrate.New(sourceURL, databaseURL)
	}

	src, err := iofs.New(FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}

// Up applies every pending migration. No pending migrations is not an error.
func Up(sourceURL, databaseURL string) error {
	m, err := New(sourceURL, databaseURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
