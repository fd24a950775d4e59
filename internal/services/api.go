// Raw HTTP access to the analysis service for debugging
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// RawAPI provides unshaped GET/POST access to the analysis service.
//
// Requests carry the bearer credential when an identity is present, so
// authenticated endpoints can be poked directly from the command line.
type RawAPI struct {
	baseURL    string
	httpClient *http.Client
	identity   IdentityProvider
}

// NewRawAPI creates a raw API client for the analysis service.
func NewRawAPI(baseURL string, client *http.Client, identity IdentityProvider) *RawAPI {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &RawAPI{
		baseURL:    baseURL,
		httpClient: client,
		identity:   identity,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

func (r *RawAPI) send(req *http.Request) (*APIResponse, error) {
	if r.identity != nil {
		if id, ok := r.identity.Identity(); ok && id.Valid() {
			req.Header.Set("Authorization", "Bearer "+id.Token)
		}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (r *RawAPI) Get(ctx context.Context, path string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return r.send(req)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (r *RawAPI) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return r.send(req)
}
