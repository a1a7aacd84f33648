// Command migrate manages the inventory schema: the one-time table creation
// plus later revisions.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"inventoryapi/internal/config"
	"inventoryapi/internal/database/migration"
	"inventoryapi/internal/logger"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg := config.Load()
	log := logger.New(logger.Config{
		Level:    logLevel,
		Format:   "console",
		Output:   "stdout",
		Location: cfg.Location(),
	})
	defer func() { _ = log.Sync() }()

	log.Info("migration cli started",
		zap.String("command", command),
		zap.String("driver", cfg.Database.Driver),
	)

	mg, err := migration.Open(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer mg.Close()

	if err := execute(mg, command, args[1:], log); err != nil {
		_ = mg.Close()
		log.Fatal("migration command failed", zap.String("command", command), zap.Error(err))
	}
}

// migrator is the subset of *migration.Migrator the commands need.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
}

func execute(m migrator, command string, args []string, log *zap.Logger) error {
	switch command {
	case "up":
		return m.Up()

	case "down":
		return m.Down()

	case "steps":
		n, err := intArg(args, "step count")
		if err != nil {
			return err
		}
		return m.Steps(n)

	case "force":
		v, err := intArg(args, "version")
		if err != nil {
			return err
		}
		return m.Force(v)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("no migrations applied")
			return nil
		}
		log.Info("current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func intArg(args []string, name string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%s required", name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[0])
	}
	return n, nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: migrate [flags] <command> [args]

Commands:
  up            Apply all pending migrations (creates the suppliers and products tables)
  down          Roll back all migrations
  steps <n>     Apply n migrations, negative n rolls back
  version       Print the current schema version
  force <v>     Set the version without running migrations (clears the dirty flag)

Flags:
  -log-level    Log level (debug, info, warn, error)

The database is selected with DB_DRIVER, DB_HOST, DB_PORT, DB_USER, DB_PASSWORD and DB_NAME.
`)
}
