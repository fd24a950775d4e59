// Squat analysis service implementation of [Service]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/ken-ho/squatx/internal/models"
	"github.com/ken-ho/squatx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// AnalysisAPI implements [Service] against the squat analysis HTTP service.
//
// Authenticated requests obtain their bearer credential from an
// [IdentityProvider] at call time via [oauth2.StaticTokenSource]; outbound
// traffic is throttled by a shared [rate.Limiter].
type AnalysisAPI struct {
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
	identity     IdentityProvider
	fpsTransport string
}

// NewAnalysisAPI creates a new analysis service client from the API config.
func NewAnalysisAPI(cfg shared.APIConfig, client *http.Client, identity IdentityProvider) *AnalysisAPI {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}

	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 5
	}

	transport := cfg.FPSTransport
	switch transport {
	case shared.FPSTransportQuery, shared.FPSTransportForm, shared.FPSTransportBoth:
	default:
		transport = shared.FPSTransportBoth
	}

	return &AnalysisAPI{
		baseURL:      baseURL,
		httpClient:   client,
		limiter:      rate.NewLimiter(rate.Limit(perSecond), perSecond),
		identity:     identity,
		fpsTransport: transport,
	}
}

func (a *AnalysisAPI) Name() string { return "Squat Analysis" }

// authClient wraps the base client with a bearer token transport for one call.
func (a *AnalysisAPI) authClient(ctx context.Context, token string) (*http.Client, context.Context) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return oauth2.NewClient(ctx, src), ctx
}

// requireIdentity reads the current identity, failing with ErrNotAuthenticated when absent.
func (a *AnalysisAPI) requireIdentity() (models.Identity, error) {
	if a.identity == nil {
		return models.Identity{}, fmt.Errorf("%w: no identity provider configured", shared.ErrNotAuthenticated)
	}
	id, ok := a.identity.Identity()
	if !ok || !id.Valid() {
		return models.Identity{}, fmt.Errorf("%w: run 'squatx auth register' or 'squatx auth login' first", shared.ErrNotAuthenticated)
	}
	return id, nil
}

// do executes a request after waiting on the limiter and classifies transport failures.
func (a *AnalysisAPI) do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUnreachable, err)
	}

	req.Header.Set("X-Request-ID", shared.GenerateID())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v (verify the analysis server is running)", shared.ErrUnreachable, err)
	}
	return resp, nil
}

// decodeFailure maps a non-2xx response to a sentinel-wrapped error.
//
// 401 signals an expired credential on every authenticated endpoint; other
// statuses surface the structured detail message when one is present.
func decodeFailure(resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status %d", shared.ErrAuthExpired, resp.StatusCode)
	}

	var detail models.ErrorDetail
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return fmt.Errorf("%w: %s", shared.ErrServerRejected, detail.Detail)
	}

	return fmt.Errorf("%w: analysis failed (status %d), please try again", shared.ErrServerRejected, resp.StatusCode)
}

// postJSON sends an unauthenticated JSON POST and decodes a 2xx body into result.
func (a *AnalysisAPI) postJSON(ctx context.Context, path string, payload, result any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.do(ctx, a.httpClient, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			// Bad credentials on login are a rejection, not an expired session.
			var detail models.ErrorDetail
			msg := "invalid credentials"
			if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
				msg = detail.Detail
			}
			return fmt.Errorf("%w: %s", shared.ErrAuthFailed, msg)
		}
		return decodeFailure(resp, body)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Register creates a new account via POST /register.
func (a *AnalysisAPI) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}

	var auth models.AuthResponse
	if err := a.postJSON(ctx, "/register", payload, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Login authenticates an existing account via POST /login.
func (a *AnalysisAPI) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	payload := map[string]string{"email": email, "password": password}

	var auth models.AuthResponse
	if err := a.postJSON(ctx, "/login", payload, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// AnalyzeVideo uploads the selected video via POST /analyze-video.
//
// The multipart body carries the video under field "file"; the sampling rate
// travels as a query parameter, a form field, or both, per the configured
// transport. The caller validates the request before submission.
func (a *AnalysisAPI) AnalyzeVideo(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	identity, err := a.requireIdentity()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(req.Media.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open video: %v", shared.ErrInvalidInput, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("file", req.Media.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, fmt.Errorf("failed to read video: %w", err)
	}

	if a.fpsTransport == shared.FPSTransportForm || a.fpsTransport == shared.FPSTransportBoth {
		if err := w.WriteField("fps", strconv.Itoa(req.FPS)); err != nil {
			return nil, fmt.Errorf("failed to build upload body: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload body: %w", err)
	}

	endpoint := a.baseURL + "/analyze-video"
	if a.fpsTransport == shared.FPSTransportQuery || a.fpsTransport == shared.FPSTransportBoth {
		endpoint += "?fps=" + url.QueryEscape(strconv.Itoa(req.FPS))
	}

	client, ctx := a.authClient(ctx, identity.Token)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := a.do(ctx, client, httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeFailure(resp, body)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}

	return &result, nil
}

// Sessions retrieves the most recent sessions via GET /users/{id}/sessions.
//
// Ordering (newest first) is owned by the service; the client does not re-sort.
func (a *AnalysisAPI) Sessions(ctx context.Context, limit int) ([]models.SessionSummary, error) {
	identity, err := a.requireIdentity()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}

	endpoint := fmt.Sprintf("%s/users/%s/sessions?limit=%d", a.baseURL, url.PathEscape(identity.UserID), limit)

	var sessions []models.SessionSummary
	if err := a.getJSON(ctx, identity.Token, endpoint, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Session retrieves one session's detail via GET /sessions/{id}.
func (a *AnalysisAPI) Session(ctx context.Context, sessionID int64) (*models.SessionDetail, error) {
	identity, err := a.requireIdentity()
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/sessions/%d", a.baseURL, sessionID)

	var detail models.SessionDetail
	if err := a.getJSON(ctx, identity.Token, endpoint, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Health checks service reachability via GET /health.
func (a *AnalysisAPI) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.do(ctx, a.httpClient, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// getJSON performs an authenticated GET and decodes a 2xx body into result.
func (a *AnalysisAPI) getJSON(ctx context.Context, token, endpoint string, result any) error {
	client, ctx := a.authClient(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.do(ctx, client, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeFailure(resp, body)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
