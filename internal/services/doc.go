// Package services implements HTTP clients for the squat analysis service.
//
// [Service] is the contract the orchestration layer depends on; [AnalysisAPI]
// is the production implementation. [RawAPI] exposes unshaped GET/POST access
// for debugging. All outcomes are classified against the sentinel errors in
// internal/shared: transport failures map to ErrUnreachable, structured
// rejections to ErrServerRejected, and HTTP 401 to ErrAuthExpired.
package services
