package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ken-ho/squatx/internal/models"
	"github.com/ken-ho/squatx/internal/shared"
	tu "github.com/ken-ho/squatx/internal/testing"
)

func newTestEngine(svc *tu.MockService, gate *tu.MockGate) *Engine {
	history := NewHistoryStore(svc, gate, nil, shared.NewLogger(nil))
	return NewEngine(svc, history, gate, shared.NewLogger(nil))
}

func TestEngineSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("local validation short-circuits before any network call", func(t *testing.T) {
		svc := &tu.MockService{}
		gate := &tu.MockGate{Present: true, Current: models.Identity{Token: "t", UserID: "u"}}
		engine := newTestEngine(svc, gate)

		if _, err := engine.Submit(ctx, nil, "lift.webm", 30); !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for bad extension, got %v", err)
		}
		if _, err := engine.Submit(ctx, nil, "lift.mp4", 0); !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for bad fps, got %v", err)
		}
		if calls := svc.AnalyzeCalls.Load(); calls != 0 {
			t.Errorf("expected no analyze calls, got %d", calls)
		}
	})

	t.Run("successful flow returns outcome and refreshes history once", func(t *testing.T) {
		svc := &tu.MockService{
			AnalyzeVideoFunc: func(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
				if req.Media.FileName != "lift.mp4" || req.FPS != 24 {
					return nil, fmt.Errorf("unexpected request: %+v", req)
				}
				return &models.AnalysisResult{
					TotalReps:  2,
					Reps:       []models.Rep{{RepCount: 1, BottomAngle: 90}, {RepCount: 2, BottomAngle: 85}},
					AIFeedback: "solid",
				}, nil
			},
		}
		gate := &tu.MockGate{Present: true, Current: models.Identity{Token: "t", UserID: "u"}}
		engine := newTestEngine(svc, gate)

		refreshed := make(chan error, 1)
		engine.SetRefreshObserver(func(err error) { refreshed <- err })

		outcome, err := engine.Submit(ctx, nil, "lift.mp4", 24)
		if err != nil {
			t.Fatalf("expected submit to succeed, got %v", err)
		}
		if outcome.Raw.TotalReps != 2 {
			t.Errorf("expected raw payload to be preserved, got %+v", outcome.Raw)
		}
		if outcome.Summary.MinAngle != "85.0°" {
			t.Errorf("expected summary to be derived, got %q", outcome.Summary.MinAngle)
		}

		select {
		case err := <-refreshed:
			if err != nil {
				t.Errorf("expected refresh to succeed, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for history refresh")
		}

		if calls := svc.SessionsCalls.Load(); calls != 1 {
			t.Errorf("expected exactly one history refresh, got %d", calls)
		}
		if engine.Loading() {
			t.Error("expected loading latch to be released")
		}
	})

	t.Run("progress updates arrive in pipeline order", func(t *testing.T) {
		svc := &tu.MockService{}
		gate := &tu.MockGate{Present: true, Current: models.Identity{Token: "t", UserID: "u"}}
		engine := newTestEngine(svc, gate)
		engine.SetRefreshObserver(func(error) {})

		progress := make(chan ProgressUpdate, 8)
		if _, err := engine.Submit(ctx, progress, "lift.mp4", 30); err != nil {
			t.Fatalf("expected submit to succeed, got %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			phases = append(phases, update.Phase)
		}

		want := []Phase{Validating, Submitting, Rendering, Refreshing}
		if len(phases) != len(want) {
			t.Fatalf("expected %d updates, got %d", len(want), len(phases))
		}
		for i, phase := range want {
			if phases[i] != phase {
				t.Errorf("expected phase %s at position %d, got %s", phase, i, phases[i])
			}
		}
	})

	t.Run("second submit while one is in flight is rejected", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		svc := &tu.MockService{
			AnalyzeVideoFunc: func(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
				close(started)
				<-release
				return &models.AnalysisResult{TotalReps: 1}, nil
			},
		}
		gate := &tu.MockGate{Present: true, Current: models.Identity{Token: "t", UserID: "u"}}
		engine := newTestEngine(svc, gate)
		engine.SetRefreshObserver(func(error) {})

		first := make(chan error, 1)
		go func() {
			_, err := engine.Submit(ctx, nil, "lift.mp4", 30)
			first <- err
		}()

		<-started
		if !engine.Loading() {
			t.Error("expected loading latch to be set mid-flight")
		}

		_, err := engine.Submit(ctx, nil, "lift.mp4", 30)
		if !errors.Is(err, shared.ErrBusy) {
			t.Fatalf("expected ErrBusy, got %v", err)
		}

		close(release)
		if err := <-first; err != nil {
			t.Fatalf("expected first submit to succeed, got %v", err)
		}
		if calls := svc.AnalyzeCalls.Load(); calls != 1 {
			t.Errorf("expected one analyze call, got %d", calls)
		}
	})

	t.Run("expired credential tears down the identity", func(t *testing.T) {
		svc := &tu.MockService{
			AnalyzeVideoFunc: func(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
				return nil, fmt.Errorf("analyze: %w", shared.ErrAuthExpired)
			},
		}
		gate := &tu.MockGate{Present: true, Current: models.Identity{Token: "t", UserID: "u"}}
		engine := newTestEngine(svc, gate)

		_, err := engine.Submit(ctx, nil, "lift.mp4", 30)
		if !errors.Is(err, shared.ErrAuthExpired) {
			t.Fatalf("expected ErrAuthExpired, got %v", err)
		}
		if gate.Expired.Load() != 1 {
			t.Errorf("expected one expiry, got %d", gate.Expired.Load())
		}
		if engine.Loading() {
			t.Error("expected loading latch to be released after failure")
		}
	})

	t.Run("server rejection does not touch the identity", func(t *testing.T) {
		svc := &tu.MockService{
			AnalyzeVideoFunc: func(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
				return nil, fmt.Errorf("%w: unsupported codec", shared.ErrServerRejected)
			},
		}
		gate := &tu.MockGate{Present: true, Current: models.Identity{Token: "t", UserID: "u"}}
		engine := newTestEngine(svc, gate)

		_, err := engine.Submit(ctx, nil, "lift.mp4", 30)
		if !errors.Is(err, shared.ErrServerRejected) {
			t.Fatalf("expected ErrServerRejected, got %v", err)
		}
		if gate.Expired.Load() != 0 {
			t.Errorf("expected no expiry, got %d", gate.Expired.Load())
		}
	})
}
