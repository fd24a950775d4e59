package analysis

import "fmt"

// ProgressUpdate represents a progress event during a submission flow.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Phase enumerates the submission pipeline states. Within one flow the
// phases are strictly sequential.
type Phase int

const (
	Idle Phase = iota
	Validating
	Submitting
	Rendering
	Refreshing
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Rendering:
		return "rendering"
	case Refreshing:
		return "refreshing"
	default:
		return ""
	}
}

func validatingUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Validating,
		Message: fmt.Sprintf("Validating %s...", name),
	}
}

func submittingUpdate(name string, fps int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Submitting,
		Message: fmt.Sprintf("Uploading and analyzing %s (fps %d)...", name, fps),
	}
}

func renderingUpdate(summary Summary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Rendering,
		Message: fmt.Sprintf("Analysis complete: %d reps", summary.TotalReps),
		Data:    summary,
	}
}

func refreshingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Refreshing,
		Message: "Refreshing session history...",
	}
}
