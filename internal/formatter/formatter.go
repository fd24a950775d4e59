// package formatter renders analysis summaries and session history to
// various formats (plain text, CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/ken-ho/squatx/internal/analysis"
	"github.com/ken-ho/squatx/internal/models"
)

// NoSessionsPlaceholder is printed instead of an empty history list.
const NoSessionsPlaceholder = "No workout sessions yet. Upload a video to get started!"

// Optional formats a nullable metric, degrading to the unavailable marker.
func Optional(v *float64, format func(float64) string) string {
	if v == nil {
		return analysis.Unavailable
	}
	return format(*v)
}

// SummaryToText renders an analysis summary as plain text.
func SummaryToText(summary analysis.Summary) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Total reps: %d\n", summary.TotalReps))
	buf.WriteString(fmt.Sprintf("Min knee angle: %s\n", summary.MinAngle))
	buf.WriteString(fmt.Sprintf("Avg tempo: %s\n", summary.AvgTempo))
	buf.WriteString(fmt.Sprintf("Avg bar deviation: %s\n", summary.AvgBarDeviation))
	buf.WriteString(fmt.Sprintf("\nFeedback: %s\n", summary.Feedback))

	if len(summary.Rows) > 0 {
		buf.WriteString("\nBreakdown:\n")
		for _, row := range summary.Rows {
			buf.WriteString(fmt.Sprintf("  Rep %d: depth %s, knee angle %s, tempo %s, bar deviation %s\n",
				row.RepCount, row.Depth, row.Angle, row.Tempo, row.BarDeviation))
		}
	}

	return buf.Bytes()
}

// SummaryToCSV renders the per-rep breakdown as CSV with columns:
// Rep, Depth, KneeAngle, Tempo, BarDeviation
func SummaryToCSV(summary analysis.Summary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rep", "Depth", "KneeAngle", "Tempo", "BarDeviation"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range summary.Rows {
		record := []string{
			strconv.Itoa(row.RepCount),
			row.Depth,
			row.Angle,
			row.Tempo,
			row.BarDeviation,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SummaryToMarkdown renders an analysis summary as Markdown.
func SummaryToMarkdown(summary analysis.Summary, fileName string) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Analysis: %s\n\n", fileName))
	buf.WriteString(fmt.Sprintf("**Total reps**: %d\n", summary.TotalReps))
	buf.WriteString(fmt.Sprintf("**Min knee angle**: %s\n", summary.MinAngle))
	buf.WriteString(fmt.Sprintf("**Avg tempo**: %s\n", summary.AvgTempo))
	buf.WriteString(fmt.Sprintf("**Avg bar deviation**: %s\n\n", summary.AvgBarDeviation))
	buf.WriteString(fmt.Sprintf("> %s\n", summary.Feedback))

	if len(summary.Rows) > 0 {
		buf.WriteString("\n## Breakdown\n\n")
		buf.WriteString("| Rep | Depth | Knee Angle | Tempo | Bar Deviation |\n")
		buf.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, row := range summary.Rows {
			buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
				row.RepCount, row.Depth, row.Angle, row.Tempo, row.BarDeviation))
		}
	}

	return buf.Bytes()
}

// HistoryToText renders session summaries as plain text, newest first.
// An empty history renders exactly one placeholder line.
func HistoryToText(sessions []models.SessionSummary) []byte {
	var buf bytes.Buffer

	if len(sessions) == 0 {
		buf.WriteString(NoSessionsPlaceholder + "\n")
		return buf.Bytes()
	}

	for _, session := range sessions {
		buf.WriteString(fmt.Sprintf("#%d  %s  %d reps\n",
			session.ID, session.CreatedAt.Format("Jan 2, 2006"), session.TotalReps))
		buf.WriteString(fmt.Sprintf("    Avg depth: %s  Min angle: %s  Tempo: %s\n",
			Optional(session.AvgDepth, analysis.FormatAngle),
			Optional(session.MinKneeAngle, analysis.FormatAngle),
			Optional(session.Tempo, analysis.FormatTempo)))
		if fb := session.Feedback(150); fb != "" {
			buf.WriteString(fmt.Sprintf("    %s\n", fb))
		}
	}

	return buf.Bytes()
}

// DetailToText renders one session's full record as plain text.
func DetailToText(detail *models.SessionDetail) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Session #%d  %s\n", detail.ID, detail.CreatedAt.Format("Jan 2, 2006 15:04")))
	buf.WriteString(fmt.Sprintf("Total reps: %d\n", detail.TotalReps))
	if detail.FPS > 0 {
		buf.WriteString(fmt.Sprintf("Sampling rate: %d fps\n", detail.FPS))
	}
	buf.WriteString(fmt.Sprintf("Avg depth: %s\n", Optional(detail.AvgDepth, analysis.FormatAngle)))
	buf.WriteString(fmt.Sprintf("Min knee angle: %s\n", Optional(detail.MinKneeAngle, analysis.FormatAngle)))
	buf.WriteString(fmt.Sprintf("Tempo: %s\n", Optional(detail.Tempo, analysis.FormatTempo)))
	buf.WriteString(fmt.Sprintf("Bar deviation: %s\n", Optional(detail.BarDev, analysis.FormatDeviation)))

	if detail.AIFeedback != "" {
		buf.WriteString(fmt.Sprintf("\nFeedback: %s\n", detail.AIFeedback))
	}

	if len(detail.Reps) > 0 {
		buf.WriteString("\nReps:\n")
		for _, rep := range detail.Reps {
			buf.WriteString(fmt.Sprintf("  Rep %d: depth %s, knee angle %s\n",
				rep.RepCount, rep.Depth, analysis.FormatAngle(rep.BottomAngle)))
		}
	}

	return buf.Bytes()
}
