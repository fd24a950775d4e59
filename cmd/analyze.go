package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ken-ho/squatx/internal/analysis"
	"github.com/ken-ho/squatx/internal/formatter"
	"github.com/ken-ho/squatx/internal/shared"
	"github.com/urfave/cli/v3"
)

func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Upload a squat video for form analysis",
		ArgsUsage: "<video file>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "fps",
				Usage: "frames per second to sample from the video",
				Value: r.config.API.DefaultFPS,
			},
			&cli.BoolFlag{Name: "json", Usage: "print the raw analysis response as JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "indent JSON output"},
			&cli.StringFlag{Name: "export", Usage: "write the result to a file (.csv, .md, or .txt)"},
		},
		Action: r.Analyze,
	}
}

// Analyze submits a video to the analysis server, prints the result, and
// waits for the follow-up history refresh so the session list is current
// before the command exits.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("%w: video file path", shared.ErrMissingArgument)
	}

	if _, err := r.gate.RequireIdentity(); err != nil {
		return err
	}

	refreshed := make(chan error, 1)
	r.engine.SetRefreshObserver(func(err error) { refreshed <- err })

	progress := make(chan analysis.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()

	outcome, err := r.engine.Submit(ctx, progress, path, cmd.Int("fps"))
	close(progress)
	<-done
	if err != nil {
		if errors.Is(err, shared.ErrAuthExpired) {
			return r.writePlainln("Session expired. Run 'squatx auth login' to sign in again.")
		}
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(outcome.Raw, cmd.Bool("pretty")); err != nil {
			return err
		}
	} else if err := r.writePlain("%s", formatter.SummaryToText(outcome.Summary)); err != nil {
		return err
	}

	if export := cmd.String("export"); export != "" {
		if err := r.exportSummary(export, filepath.Base(path), outcome.Summary); err != nil {
			return err
		}
		if err := r.writePlainln("✓ Exported to %s", export); err != nil {
			return err
		}
	}

	select {
	case err := <-refreshed:
		if err != nil {
			r.logger.Warn("session history refresh failed", "error", err)
		}
	case <-time.After(r.config.API.Timeout()):
		r.logger.Warn("timed out waiting for session history refresh")
	}

	return nil
}

func (r *Runner) exportSummary(path, fileName string, summary analysis.Summary) error {
	var content []byte
	var err error

	switch filepath.Ext(path) {
	case ".csv":
		content, err = formatter.SummaryToCSV(summary)
		if err != nil {
			return err
		}
	case ".md":
		content = formatter.SummaryToMarkdown(summary, fileName)
	default:
		content = formatter.SummaryToText(summary)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
