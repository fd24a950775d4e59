// Package analysis implements the client-side orchestration pipeline for
// video submissions.
//
// The core abstraction is [Engine], which owns the single in-flight analyze
// operation: validation, authenticated submission, result normalization, and
// the follow-up history refresh. Phases emit [ProgressUpdate] values via
// channels for non-blocking status reporting to CLI/UI layers.
//
// [HistoryStore] maintains the paginated session history: a read-through
// snapshot refreshed after every successful analysis and on explicit load,
// with a sqlite-backed copy for offline listing.
package analysis
