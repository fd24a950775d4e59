// package models defines the data model for the squat analysis client
package models

import (
	"strings"
)

// Identity holds the authenticated user's bearer credential and profile.
//
// Created by a successful register/login call, held for the duration of the
// process, destroyed on logout or on any authenticated call observing a 401.
type Identity struct {
	Token    string
	UserID   string
	UserName string
	Email    string
}

// Valid reports whether the identity carries enough state to authenticate a request.
func (i Identity) Valid() bool {
	return i.Token != "" && i.UserID != ""
}

// SelectedMedia represents a validated video file selection.
// Replaced wholesale on each new selection, never partially mutated.
type SelectedMedia struct {
	Path      string
	FileName  string
	Extension string // lowercased, without the leading dot
}

// AnalysisRequest pairs a media selection with a sampling rate.
// Constructed at submission time and discarded once the flow terminates.
type AnalysisRequest struct {
	Media SelectedMedia
	FPS   int
}

// Rep is one repetition of the tracked movement.
type Rep struct {
	RepCount    int     `json:"rep_count"`
	Depth       string  `json:"depth"`
	BottomAngle float64 `json:"bottom_angle"`
}

// AnalysisResult is the analyze-video response body.
//
// reps[i] corresponds positionally to tempo_per_rep[i] and bar_path_dev[i];
// any of the arrays may be shorter or absent.
type AnalysisResult struct {
	TotalReps        int       `json:"total_reps"`
	Reps             []Rep     `json:"reps"`
	TempoPerRep      []float64 `json:"tempo_per_rep"`
	BarPathDeviation []float64 `json:"bar_path_dev"`
	AIFeedback       string    `json:"ai_feedback"`
}

// SessionSummary is one history entry, immutable once fetched.
// Optional metrics are pointers so absence survives the round trip.
type SessionSummary struct {
	ID           int64     `json:"id"`
	CreatedAt    Timestamp `json:"created_at"`
	TotalReps    int       `json:"total_reps"`
	AvgDepth     *float64  `json:"avg_depth,omitempty"`
	MinKneeAngle *float64  `json:"min_knee_angle,omitempty"`
	Tempo        *float64  `json:"tempo,omitempty"`
	AIFeedback   string    `json:"ai_feedback,omitempty"`
}

// SessionDetail is the full session record served by GET /sessions/{id}.
type SessionDetail struct {
	SessionSummary
	FPS       int      `json:"fps,omitempty"`
	VideoPath string   `json:"video_path,omitempty"`
	Alignment *float64 `json:"alignment,omitempty"`
	BarDev    *float64 `json:"bar_dev,omitempty"`
	Reps      []Rep    `json:"reps,omitempty"`
}

// AuthResponse is the register/login response body.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
}

// Identity converts an auth response into client identity state.
func (a AuthResponse) Identity() Identity {
	return Identity{
		Token:    a.AccessToken,
		UserID:   a.UserID,
		UserName: a.Name,
		Email:    a.Email,
	}
}

// ErrorDetail is the service's structured error body; detail is optional.
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// Feedback returns a trimmed one-line preview of the AI feedback, capped at max runes.
func (s SessionSummary) Feedback(max int) string {
	fb := strings.TrimSpace(s.AIFeedback)
	if fb == "" {
		return ""
	}
	r := []rune(fb)
	if len(r) <= max {
		return fb
	}
	return string(r[:max]) + "..."
}
