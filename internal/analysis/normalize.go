package analysis

import (
	"fmt"

	"github.com/ken-ho/squatx/internal/models"
)

// Unavailable marks an aggregate or cell that could not be derived from the payload.
const Unavailable = "unavailable"

// Summary is the presentation model derived from a raw analysis payload.
// Every field is ready to print; missing inputs degrade to [Unavailable]
// independently per field.
type Summary struct {
	TotalReps       int
	MinAngle        string
	AvgTempo        string
	AvgBarDeviation string
	Feedback        string
	Rows            []RepRow
}

// RepRow is one line of the per-rep breakdown. Rep metrics pair with tempo
// and bar deviation by index; absence of one array does not suppress the
// others.
type RepRow struct {
	RepCount     int
	Depth        string
	Angle        string
	Tempo        string
	BarDeviation string
}

// Formatting contract for analysis output: angles 1 decimal place in degrees,
// tempo 2 decimal places in seconds, bar deviation 1 decimal place in pixels.

func FormatAngle(v float64) string { return fmt.Sprintf("%.1f°", v) }

func FormatTempo(v float64) string { return fmt.Sprintf("%.2fs", v) }

func FormatDeviation(v float64) string { return fmt.Sprintf("%.1fpx", v) }

// Normalize converts a raw analysis payload into a [Summary]. It never
// fails: nil payloads and missing or empty arrays render as [Unavailable].
func Normalize(result *models.AnalysisResult) Summary {
	summary := Summary{
		MinAngle:        Unavailable,
		AvgTempo:        Unavailable,
		AvgBarDeviation: Unavailable,
		Feedback:        "No feedback available.",
	}

	if result == nil {
		return summary
	}

	summary.TotalReps = result.TotalReps
	if result.AIFeedback != "" {
		summary.Feedback = result.AIFeedback
	}

	if len(result.Reps) > 0 {
		min := result.Reps[0].BottomAngle
		for _, rep := range result.Reps[1:] {
			if rep.BottomAngle < min {
				min = rep.BottomAngle
			}
		}
		summary.MinAngle = FormatAngle(min)
	}

	if len(result.TempoPerRep) > 0 {
		summary.AvgTempo = FormatTempo(mean(result.TempoPerRep))
	}

	if len(result.BarPathDeviation) > 0 {
		summary.AvgBarDeviation = FormatDeviation(mean(result.BarPathDeviation))
	}

	for i, rep := range result.Reps {
		row := RepRow{
			RepCount:     rep.RepCount,
			Depth:        rep.Depth,
			Angle:        FormatAngle(rep.BottomAngle),
			Tempo:        Unavailable,
			BarDeviation: Unavailable,
		}

		// Presence is index presence: a zero value at index i is a value.
		if i < len(result.TempoPerRep) {
			row.Tempo = FormatTempo(result.TempoPerRep[i])
		}
		if i < len(result.BarPathDeviation) {
			row.BarDeviation = FormatDeviation(result.BarPathDeviation[i])
		}

		summary.Rows = append(summary.Rows, row)
	}

	return summary
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
