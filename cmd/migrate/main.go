package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sleepharmony/landing/internal/config"
	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/internal/repository/postgres"
	"github.com/sleepharmony/landing/migrations"
)

const usage = `Usage: migrate [up|down|status]

Applies the embedded migrations to the database configured by the DB_*
environment variables. Defaults to "up".
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	dbCfg, logCfg, err := config.LoadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: logCfg.Level, Format: "console", OutputPath: "stderr"})

	db, err := postgres.New(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	switch command {
	case "up":
		err = migrations.Up(ctx, db, dbCfg.Driver, log)
	case "down":
		err = migrations.Down(ctx, db, dbCfg.Driver, log)
	case "status":
		err = migrations.Status(ctx, db, dbCfg.Driver, log)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.ErrorWithErr(err, "Migration failed")
		db.Close()
		os.Exit(1)
	}

	log.With("command", command).Info("Migrations done")
}
