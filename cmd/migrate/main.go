package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/greenmandi/greenmandi-backend/pkg/config"
	"github.com/greenmandi/greenmandi-backend/pkg/db"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
	"github.com/greenmandi/greenmandi-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|redo|up-to|down-to")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	version := flag.String("version", "", "target version for up-to/down-to")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "greenmandi-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "opening database", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := dbClient.Close(); closeErr != nil {
			logg.Error(ctx, "closing database", closeErr)
		}
	}()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(ctx, "unwrapping sql database", err)
		os.Exit(1)
	}

	var args []string
	switch *cmd {
	case "up", "down", "status", "redo":
	case "up-to", "down-to":
		if *version == "" {
			fmt.Fprintln(os.Stderr, "missing -version for", *cmd)
			os.Exit(1)
		}
		args = append(args, *version)
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}

	if err := migrate.Run(ctx, sqlDB, *dir, *cmd, args...); err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "migration complete")
}
