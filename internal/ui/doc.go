// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for the analysis dashboard:
//  1. [HistoryView] : Browse past sessions, newest first
//  2. [DetailView] : Inspect the per-rep breakdown of one session
//  3. [PathInputView] : Enter a video file to analyze
//  4. [AnalyzeView] : Monitor real-time progress updates during a submission
//  5. [ResultView] : Display the normalized analysis summary
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the analysis engine, providing non-blocking status reporting during uploads,
// and session data goes through the HistoryStore so the list reflects the same cache the CLI commands use.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
