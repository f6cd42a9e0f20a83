package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/airqc/schema"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsTable tracks the applied schema version on every backend.
const migrationsTable = "airqc_schema_migrations"

// MigrateRecords runs database migrations for the record store and reports the outcome.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func MigrateRecords(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	from, to, err := runMigrations(backend, connStr, targetVersion)
	if err != nil {
		return err
	}
	if from == to {
		fmt.Printf("No migration needed. Database is already at version %d\n", to)
	} else {
		fmt.Printf("Successfully migrated from version %d to version %d\n", from, to)
	}
	return nil
}

// runMigrations applies migrations on a dedicated connection and returns the versions before and after.
func runMigrations(backend schema.DatabaseBackend, connStr string, targetVersion int) (uint, uint, error) {
	if backend == schema.NoneBackend {
		return 0, 0, fmt.Errorf("migrations are not supported for NoneBackend")
	}

	driverName, dsn, err := driverFor(backend, connStr)
	if err != nil {
		return 0, 0, err
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return 0, 0, fmt.Errorf("failed to ping database: %w", err)
	}

	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: migrationsTable})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: migrationsTable})
	case schema.PostgreSQLBackend:
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{MigrationsTable: migrationsTable})
	}
	if err != nil {
		_ = db.Close()
		return 0, 0, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	// Get the migrations subdirectory
	migrationFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "airqc", driver)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, 0, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return 0, 0, fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, 0, fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
	}

	newVersion, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		newVersion, err = 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read migrated version: %w", err)
	}
	return currentVersion, newVersion, nil
}
