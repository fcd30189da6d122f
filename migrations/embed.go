package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var Files embed.FS

// goose keeps its base FS and dialect in package state
var mu sync.Mutex

func dialectFor(driver string) (dir, dialect string, err error) {
	switch driver {
	case "postgres":
		return "postgres", "postgres", nil
	case "sqlite":
		return "sqlite", "sqlite3", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// Up applies every pending migration for driver. A nil logger keeps goose's
// default output.
func Up(ctx context.Context, db *sql.DB, driver string, logger goose.Logger) error {
	return run(driver, logger, func(dir string) error {
		return goose.UpContext(ctx, db, dir)
	})
}

// Down rolls back the most recent migration for driver
func Down(ctx context.Context, db *sql.DB, driver string, logger goose.Logger) error {
	return run(driver, logger, func(dir string) error {
		return goose.DownContext(ctx, db, dir)
	})
}

// Status logs the applied state of every migration for driver
func Status(ctx context.Context, db *sql.DB, driver string, logger goose.Logger) error {
	return run(driver, logger, func(dir string) error {
		return goose.StatusContext(ctx, db, dir)
	})
}

func run(driver string, logger goose.Logger, fn func(dir string) error) error {
	dir, dialect, err := dialectFor(driver)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(Files)
	if logger != nil {
		goose.SetLogger(logger)
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := fn(dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
