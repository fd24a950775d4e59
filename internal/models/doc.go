// Package models defines domain entities and wire types for the squatx analysis client.
//
// The package contains two categories of types:
//
// 1. Client-side state: values owned by the orchestration layer
//   - [Identity] : the authenticated user's credential and profile
//   - [SelectedMedia] : a validated video file selection
//   - [AnalysisRequest] : a selection paired with a sampling rate, ready to submit
//
// 2. Wire types: shapes exchanged with the analysis service
//   - [AnalysisResult] / [Rep] : response of POST /analyze-video
//   - [SessionSummary] : one entry of GET /users/{id}/sessions
//   - [SessionDetail] : response of GET /sessions/{id}
//   - [AuthResponse] : response of POST /register and POST /login
//   - [ErrorDetail] : the service's structured error body
//
// Wire field names follow the collaborator's JSON contract exactly.
package models
