package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"inventoryapi/internal/config"
	dbpkg "inventoryapi/internal/database"
)

//go:embed sql
var files embed.FS

// Source returns the embedded migration files for a dialect.
func Source(driver string) (source.Driver, error) {
	switch driver {
	case config.DriverPostgres, config.DriverMySQL:
		return iofs.New(files, "sql/"+driver)
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}
}

// Migrator applies the embedded schema migrations.
// Close releases the database handle it was built with.
type Migrator struct {
	m      *migrate.Migrate
	log    *zap.Logger
	dbHost string
}

// New builds a Migrator over an open handle. The handle is owned by the
// Migrator afterwards: Close closes it.
func New(db *sql.DB, driver, dbHost string, log *zap.Logger) (*Migrator, error) {
	src, err := Source(driver)
	if err != nil {
		return nil, err
	}

	var inst database.Driver
	switch driver {
	case config.DriverPostgres:
		inst, err = migratepg.WithInstance(db, &migratepg.Config{})
	case config.DriverMySQL:
		inst, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("create %s migration driver: %w", driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, inst)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))
	m.Log = &stepLogger{log: log}
	return &Migrator{m: m, log: log, dbHost: dbHost}, nil
}

// Open connects with its own handle so closing the Migrator never touches the
// pool used for serving requests.
func Open(c config.DatabaseConfig, log *zap.Logger) (*Migrator, error) {
	db, err := dbpkg.Open(c)
	if err != nil {
		return nil, err
	}
	mg, err := New(db, c.Driver, c.Host, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return mg, nil
}

// Up applies all pending migrations.
func (mg *Migrator) Up() error {
	return mg.run("up", mg.m.Up)
}

// Down rolls back all migrations.
func (mg *Migrator) Down() error {
	return mg.run("down", mg.m.Down)
}

// Steps applies n migrations (positive = up, negative = down).
func (mg *Migrator) Steps(n int) error {
	return mg.run(fmt.Sprintf("steps(%d)", n), func() error { return mg.m.Steps(n) })
}

// Version returns the current schema version; 0 when nothing was applied yet.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read migration version: %w", err)
	}
	return v, dirty, nil
}

// Force sets the version without running migrations. It clears a dirty state.
func (mg *Migrator) Force(version int) error {
	mg.log.Warn("forcing migration version", zap.String("event", "db_migration_force"), zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and the database handle.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}

func (mg *Migrator) run(direction string, fn func() error) error {
	start := time.Now()
	mg.log.Info("migration starting",
		zap.String("event", "db_migration_start"),
		zap.String("status", "in_progress"),
		zap.String("direction", direction),
	)

	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.log.Info("schema up to date, skipping migration",
			zap.String("event", "db_migration_skip"),
			zap.String("status", "success"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}
	if err != nil {
		mg.log.Error("migration failed",
			zap.String("event", "db_migration_failed"),
			zap.String("status", "error"),
			zap.String("direction", direction),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	version, dirty, _ := mg.Version()
	mg.log.Info("migration finished",
		zap.String("event", "db_migration_success"),
		zap.String("status", "success"),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

// stepLogger adapts zap to migrate.Logger so each applied file is logged.
type stepLogger struct {
	log *zap.Logger
}

func (l *stepLogger) Printf(format string, v ...any) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)),
		zap.String("event", "db_migration_step"),
		zap.String("status", "success"),
	)
}

func (l *stepLogger) Verbose() bool { return false }
