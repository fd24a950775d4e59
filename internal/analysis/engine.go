package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/ken-ho/squatx/internal/models"
	"github.com/ken-ho/squatx/internal/services"
	"github.com/ken-ho/squatx/internal/shared"
)

// Outcome carries the raw payload and its presentation model from one
// successful submission.
type Outcome struct {
	Raw     *models.AnalysisResult
	Summary Summary
}

// Engine orchestrates the analyze submission pipeline:
// validate → submit → normalize → render → refresh-history.
//
// Single-flight: a second Submit while one is outstanding fails with ErrBusy
// and produces no network traffic. The loading latch is visible to UI layers
// and is always released, on success and on every failure path.
type Engine struct {
	svc     services.Service
	history *HistoryStore
	gate    Gatekeeper
	logger  *log.Logger

	inFlight atomic.Bool

	// onRefresh observes the outcome of the fire-and-forget history refresh.
	// Defaults to logging failures.
	onRefresh func(error)
}

// NewEngine creates a submission engine.
func NewEngine(svc services.Service, history *HistoryStore, gate Gatekeeper, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{
		svc:     svc,
		history: history,
		gate:    gate,
		logger:  logger,
	}
}

// SetRefreshObserver installs a callback invoked with the result of the
// post-analysis history refresh.
func (e *Engine) SetRefreshObserver(fn func(error)) {
	e.onRefresh = fn
}

// Loading reports whether a submission is currently in flight.
func (e *Engine) Loading() bool {
	return e.inFlight.Load()
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Submit runs one full submission flow for the file at path.
//
// Steps are strictly sequential; the history refresh triggered after a
// successful analysis is fire-and-forget relative to the render step. Local
// validation failures short-circuit before any network call.
func (e *Engine) Submit(ctx context.Context, progress chan<- ProgressUpdate, path string, fps int) (*Outcome, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("%w: wait for the current analysis to finish", shared.ErrBusy)
	}
	defer e.inFlight.Store(false)

	e.sendProgress(progress, validatingUpdate(path))

	media, err := ValidateFile(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateFPS(fps); err != nil {
		return nil, err
	}

	req := models.AnalysisRequest{Media: media, FPS: fps}

	e.sendProgress(progress, submittingUpdate(media.FileName, fps))

	result, err := e.svc.AnalyzeVideo(ctx, req)
	if err != nil {
		if errors.Is(err, shared.ErrAuthExpired) && e.gate != nil {
			e.gate.Expire()
		}
		return nil, err
	}

	summary := Normalize(result)
	e.sendProgress(progress, renderingUpdate(summary))

	e.sendProgress(progress, refreshingUpdate())
	go e.refreshHistory(ctx)

	return &Outcome{Raw: result, Summary: summary}, nil
}

// refreshHistory runs the post-analysis refresh. The user is never blocked
// on it; failures reach the observer (or the log) and nothing else.
func (e *Engine) refreshHistory(ctx context.Context) {
	var err error
	if e.history != nil {
		_, err = e.history.Refresh(ctx, 0)
	}

	if e.onRefresh != nil {
		e.onRefresh(err)
		return
	}
	if err != nil {
		e.logger.Warn("history refresh after analysis failed", "error", err)
	}
}
