package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/alchemorsel/recipeshare/internal/infrastructure/config"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/postgres"
	"github.com/alchemorsel/recipeshare/pkg/logger"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "Path to a config file",
	Sources: cli.EnvVars("RECIPES_CONFIG_FILE"),
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:  "recipectl",
		Usage: "Operate a recipeshare deployment",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			migrateCmd(),
			configCmd(),
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the Postgres schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: withMigrator(func(_ context.Context, cmd *cli.Command, m *migrations.Migrator) error {
					return m.Up()
				}),
			},
			{
				Name:  "down",
				Usage: "Roll back the latest migration",
				Action: withMigrator(func(_ context.Context, cmd *cli.Command, m *migrations.Migrator) error {
					return m.Down()
				}),
			},
			{
				Name:  "version",
				Usage: "Print the current schema version",
				Action: withMigrator(func(_ context.Context, cmd *cli.Command, m *migrations.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.Root().Writer, "version=%d dirty=%t\n", version, dirty)
					return nil
				}),
			},
			{
				Name:      "force",
				Usage:     "Set the schema version without running migrations",
				ArgsUsage: "VERSION",
				Action: withMigrator(func(_ context.Context, cmd *cli.Command, m *migrations.Migrator) error {
					version, err := strconv.Atoi(cmd.Args().First())
					if err != nil {
						return fmt.Errorf("force needs a numeric VERSION argument")
					}
					return m.Force(version)
				}),
			},
		},
	}
}

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect configuration",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Load and validate configuration, then print a summary",
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg, err := config.Load(cmd.String(configFlag.Name))
					if err != nil {
						return err
					}
					printSummary(cmd.Root().Writer, cfg)
					return nil
				},
			},
		},
	}
}

func printSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "environment: %s\n", cfg.App.Environment)
	fmt.Fprintf(w, "listen:      %s\n", cfg.Address())
	fmt.Fprintf(w, "database:    %s\n", cfg.Database.Driver)
	fmt.Fprintf(w, "cache:       %s\n", cfg.Cache.Driver)
	fmt.Fprintf(w, "provider:    %s\n", cfg.Provider.BaseURL)
	fmt.Fprintf(w, "session:     %s (active %s)\n", cfg.Session.Duration, cfg.Session.ActiveDuration)
}

type migratorAction func(ctx context.Context, cmd *cli.Command, m *migrations.Migrator) error

// withMigrator opens a pool against the configured Postgres database for
// the duration of one migrate subcommand.
func withMigrator(fn migratorAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load(cmd.String(configFlag.Name))
		if err != nil {
			return err
		}
		if cfg.Database.Driver != "postgres" {
			return fmt.Errorf("migrations apply to the postgres driver, not %q", cfg.Database.Driver)
		}

		log, _ := logger.New(logger.Config{Level: cfg.App.LogLevel, Format: "console"})
		defer func() { _ = log.Sync() }()

		pool, err := postgres.NewPool(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer pool.Close()

		m, err := migrations.NewFromPool(pool, cfg.Database.Database, log)
		if err != nil {
			return err
		}

		if err := fn(ctx, cmd, m); err != nil {
			log.Error("Migration command failed", zap.String("command", cmd.Name), zap.Error(err))
			return err
		}
		return nil
	}
}
