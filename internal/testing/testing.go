// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/ken-ho/squatx/internal/models"
)

// MockService is a configurable test double for [services.Service].
// Unset hooks return zero values.
type MockService struct {
	RegisterFunc     func(ctx context.Context, name, email, password string) (*models.AuthResponse, error)
	LoginFunc        func(ctx context.Context, email, password string) (*models.AuthResponse, error)
	AnalyzeVideoFunc func(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
	SessionsFunc     func(ctx context.Context, limit int) ([]models.SessionSummary, error)
	SessionFunc      func(ctx context.Context, sessionID int64) (*models.SessionDetail, error)
	HealthFunc       func(ctx context.Context) error

	AnalyzeCalls  atomic.Int64
	SessionsCalls atomic.Int64
}

func (m *MockService) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	return &models.AuthResponse{}, nil
}

func (m *MockService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &models.AuthResponse{}, nil
}

func (m *MockService) AnalyzeVideo(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	m.AnalyzeCalls.Add(1)
	if m.AnalyzeVideoFunc != nil {
		return m.AnalyzeVideoFunc(ctx, req)
	}
	return &models.AnalysisResult{}, nil
}

func (m *MockService) Sessions(ctx context.Context, limit int) ([]models.SessionSummary, error) {
	m.SessionsCalls.Add(1)
	if m.SessionsFunc != nil {
		return m.SessionsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockService) Session(ctx context.Context, sessionID int64) (*models.SessionDetail, error) {
	if m.SessionFunc != nil {
		return m.SessionFunc(ctx, sessionID)
	}
	return nil, nil
}

func (m *MockService) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

func (m *MockService) Name() string { return "mock" }

// MockGate is a test double for the auth gate's identity/expiry surface.
type MockGate struct {
	Current models.Identity
	Present bool
	Expired atomic.Int64
}

func (g *MockGate) Identity() (models.Identity, bool) {
	return g.Current, g.Present
}

func (g *MockGate) Expire() {
	g.Present = false
	g.Expired.Add(1)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)
