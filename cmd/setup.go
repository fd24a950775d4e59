package main

import (
	"context"

	"github.com/ken-ho/squatx/internal/shared"
	"github.com/urfave/cli/v3"
)

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the local database and config file",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the local sqlite database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a starter config.toml in the current directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Usage: "config file path", Value: "config.toml"},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// SetupDatabase creates the sqlite database file and applies migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	return r.writePlainln("✓ Database ready at %s", r.config.Database.Path)
}

// SetupConfig writes the example config to disk for editing.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	return r.writePlainln("✓ Wrote %s", path)
}
