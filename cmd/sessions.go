package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ken-ho/squatx/internal/formatter"
	"github.com/ken-ho/squatx/internal/models"
	"github.com/ken-ho/squatx/internal/shared"
	"github.com/urfave/cli/v3"
)

func sessionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Review past workout sessions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent sessions, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "maximum number of sessions to show",
						Value: r.config.History.Limit,
					},
					&cli.BoolFlag{Name: "cached", Usage: "read from the local cache without contacting the server"},
					&cli.BoolFlag{Name: "json", Usage: "print sessions as JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "indent JSON output"},
				},
				Action: r.SessionsList,
			},
			{
				Name:      "view",
				Usage:     "Show the per-rep breakdown for one session",
				ArgsUsage: "<session id>",
				Action:    r.SessionsView,
			},
		},
	}
}

// SessionsList fetches the session history and prints it. With --cached it
// reads the local sqlite cache instead of contacting the server.
func (r *Runner) SessionsList(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.gate.RequireIdentity(); err != nil {
		return err
	}

	limit := cmd.Int("limit")

	var sessions []models.SessionSummary
	var err error
	if cmd.Bool("cached") {
		sessions, err = r.history.Cached(limit)
	} else {
		sessions, err = r.history.Refresh(ctx, limit)
	}
	if err != nil {
		if errors.Is(err, shared.ErrAuthExpired) {
			return r.writePlainln("Session expired. Run 'squatx auth login' to sign in again.")
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(sessions, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.HistoryToText(sessions))
}

// SessionsView fetches one session's detail. Detail is best effort: a fetch
// failure is reported but does not fail the command.
func (r *Runner) SessionsView(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.Args().First()
	if arg == "" {
		return fmt.Errorf("%w: session id", shared.ErrMissingArgument)
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: session id must be a number", shared.ErrInvalidInput)
	}

	detail, err := r.history.Detail(ctx, id)
	if err != nil {
		return r.writePlainln("Could not load session %d: %v", id, err)
	}

	return r.writePlain("%s", formatter.DetailToText(detail))
}
