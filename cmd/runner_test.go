package main

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/ken-ho/squatx/internal/auth"
	"github.com/ken-ho/squatx/internal/formatter"
	"github.com/ken-ho/squatx/internal/models"
	"github.com/ken-ho/squatx/internal/shared"
	tu "github.com/ken-ho/squatx/internal/testing"
	"github.com/urfave/cli/v3"
)

func signedInGate(t *testing.T) *auth.Gate {
	t.Helper()

	gate := auth.NewGate(nil, shared.NewLogger(nil))
	identity := models.Identity{Token: "tok", UserID: "u1", UserName: "Kai", Email: "kai@example.com"}
	if err := gate.SignIn(identity); err != nil {
		t.Fatalf("failed to sign in test gate: %v", err)
	}
	return gate
}

func runCommand(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()

	app := &cli.Command{Name: "squatx", Commands: runner.register()}
	return app.Run(context.Background(), append([]string{"squatx"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			svc := &tu.MockService{}
			gate := auth.NewGate(nil, logger)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Service:    svc,
				Gate:       gate,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.gate != gate {
				t.Error("expected gate to be set")
			}
			if runner.engine == nil || runner.history == nil {
				t.Error("expected engine and history to be built from the service")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output == nil {
				t.Error("expected default output to be set")
			}
			if runner.gate == nil {
				t.Error("expected default gate to be set")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("compact and pretty", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]int{"reps": 5}, false); err != nil {
				t.Fatalf("expected write to succeed, got %v", err)
			}
			if got := output.String(); got != "{\"reps\":5}\n" {
				t.Errorf("unexpected compact output %q", got)
			}

			output.Reset()
			if err := runner.writeJSON(map[string]int{"reps": 5}, true); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(output.String(), "  \"reps\": 5") {
				t.Errorf("expected indented output, got %q", output.String())
			}
		})

		t.Run("write failure surfaces", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON("x", false); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("auth status", func(t *testing.T) {
		t.Run("signed out", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output, Service: &tu.MockService{}})

			if err := runCommand(t, runner, "auth", "status"); err != nil {
				t.Fatalf("expected status to succeed, got %v", err)
			}
			if !strings.Contains(output.String(), "Not signed in") {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("signed in reports server health", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{
				Output:  output,
				Service: &tu.MockService{},
				Gate:    signedInGate(t),
			})

			if err := runCommand(t, runner, "auth", "status"); err != nil {
				t.Fatalf("expected status to succeed, got %v", err)
			}
			if !strings.Contains(output.String(), "Signed in as Kai <kai@example.com>") {
				t.Errorf("unexpected output %q", output.String())
			}
			if !strings.Contains(output.String(), "Analysis server: ok") {
				t.Errorf("expected health line, got %q", output.String())
			}
		})
	})

	t.Run("auth login signs the gate in", func(t *testing.T) {
		output := &bytes.Buffer{}
		svc := &tu.MockService{
			LoginFunc: func(ctx context.Context, email, password string) (*models.AuthResponse, error) {
				return &models.AuthResponse{AccessToken: "tok", UserID: "u1", Email: email, Name: "Kai"}, nil
			},
		}
		gate := auth.NewGate(nil, shared.NewLogger(nil))
		runner := NewRunner(RunnerOpts{Output: output, Service: svc, Gate: gate})

		err := runCommand(t, runner, "auth", "login", "--email", "kai@example.com", "--password", "hunter2")
		if err != nil {
			t.Fatalf("expected login to succeed, got %v", err)
		}
		if gate.State() != auth.Authenticated {
			t.Error("expected gate to be authenticated")
		}
		if !strings.Contains(output.String(), "Signed in as Kai") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("sessions list", func(t *testing.T) {
		t.Run("renders fetched sessions", func(t *testing.T) {
			output := &bytes.Buffer{}
			svc := &tu.MockService{
				SessionsFunc: func(ctx context.Context, limit int) ([]models.SessionSummary, error) {
					return []models.SessionSummary{{ID: 30, TotalReps: 5}, {ID: 20, TotalReps: 8}}, nil
				},
			}
			runner := NewRunner(RunnerOpts{Output: output, Service: svc, Gate: signedInGate(t)})

			if err := runCommand(t, runner, "sessions", "list"); err != nil {
				t.Fatalf("expected list to succeed, got %v", err)
			}
			if !strings.Contains(output.String(), "#30") || !strings.Contains(output.String(), "#20") {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("empty history prints the placeholder", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output, Service: &tu.MockService{}, Gate: signedInGate(t)})

			if err := runCommand(t, runner, "sessions", "list"); err != nil {
				t.Fatalf("expected list to succeed, got %v", err)
			}
			if strings.Count(output.String(), formatter.NoSessionsPlaceholder) != 1 {
				t.Errorf("expected the placeholder exactly once, got %q", output.String())
			}
		})

		t.Run("signed out is rejected", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Service: &tu.MockService{}})

			if err := runCommand(t, runner, "sessions", "list"); err == nil {
				t.Error("expected list without identity to fail")
			}
		})
	})
}
