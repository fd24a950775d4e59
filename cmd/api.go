package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ken-ho/squatx/internal/services"
	"github.com/ken-ho/squatx/internal/shared"
	"github.com/urfave/cli/v3"
)

func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Send raw requests to the analysis server (debugging)",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "GET a path on the analysis server",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pretty", Usage: "indent JSON output"},
				},
				Action: r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "POST a JSON body to a path on the analysis server",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "data", Usage: "JSON request body", Value: "{}"},
					&cli.BoolFlag{Name: "pretty", Usage: "indent JSON output"},
				},
				Action: r.APIPost,
			},
		},
	}
}

// APIGet performs a raw GET against the analysis server.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("%w: request path", shared.ErrMissingArgument)
	}

	resp, err := r.raw.Get(ctx, path)
	if err != nil {
		return err
	}

	return r.writeAPIResponse(resp, cmd.Bool("pretty"))
}

// APIPost performs a raw POST against the analysis server.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("%w: request path", shared.ErrMissingArgument)
	}

	data := cmd.String("data")
	if !json.Valid([]byte(data)) {
		return fmt.Errorf("%w: --data must be valid JSON", shared.ErrInvalidInput)
	}

	resp, err := r.raw.Post(ctx, path, []byte(data))
	if err != nil {
		return err
	}

	return r.writeAPIResponse(resp, cmd.Bool("pretty"))
}

func (r *Runner) writeAPIResponse(resp *services.APIResponse, pretty bool) error {
	if err := r.writePlain("Status: %d\n", resp.StatusCode); err != nil {
		return err
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}

	return r.writePlain("%s\n", string(resp.Body))
}
