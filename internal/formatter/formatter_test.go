package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/ken-ho/squatx/internal/analysis"
	"github.com/ken-ho/squatx/internal/models"
)

func fptr(v float64) *float64 { return &v }

func testSummary() analysis.Summary {
	return analysis.Summary{
		TotalReps:       2,
		MinAngle:        "88.7°",
		AvgTempo:        "1.62s",
		AvgBarDeviation: "3.0px",
		Feedback:        "Keep your chest up.",
		Rows: []analysis.RepRow{
			{RepCount: 1, Depth: "good", Angle: "92.3°", Tempo: "1.50s", BarDeviation: "2.0px"},
			{RepCount: 2, Depth: "shallow", Angle: "88.7°", Tempo: analysis.Unavailable, BarDeviation: analysis.Unavailable},
		},
	}
}

func TestOptional(t *testing.T) {
	if got := Optional(nil, analysis.FormatAngle); got != analysis.Unavailable {
		t.Errorf("expected unavailable for nil, got %q", got)
	}
	if got := Optional(fptr(91.25), analysis.FormatAngle); got != "91.2°" {
		t.Errorf("expected 91.2°, got %q", got)
	}
}

func TestSummaryToText(t *testing.T) {
	text := string(SummaryToText(testSummary()))

	for _, want := range []string{
		"Total reps: 2",
		"Min knee angle: 88.7°",
		"Avg tempo: 1.62s",
		"Keep your chest up.",
		"Rep 2: depth shallow, knee angle 88.7°, tempo unavailable",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, text)
		}
	}
}

func TestSummaryToCSV(t *testing.T) {
	data, err := SummaryToCSV(testSummary())
	if err != nil {
		t.Fatalf("expected CSV rendering to succeed, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Rep,Depth,KneeAngle,Tempo,BarDeviation" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "2,shallow,") {
		t.Errorf("unexpected row %q", lines[2])
	}
}

func TestSummaryToMarkdown(t *testing.T) {
	text := string(SummaryToMarkdown(testSummary(), "lift.mp4"))

	if !strings.Contains(text, "# Analysis: lift.mp4") {
		t.Errorf("expected title, got:\n%s", text)
	}
	if !strings.Contains(text, "| 1 | good | 92.3° | 1.50s | 2.0px |") {
		t.Errorf("expected table row, got:\n%s", text)
	}
}

func TestHistoryToText(t *testing.T) {
	t.Run("empty history renders exactly one placeholder line", func(t *testing.T) {
		text := string(HistoryToText(nil))

		if text != NoSessionsPlaceholder+"\n" {
			t.Errorf("unexpected empty rendering %q", text)
		}
		if strings.Count(text, NoSessionsPlaceholder) != 1 {
			t.Error("expected the placeholder exactly once")
		}
	})

	t.Run("sessions render in the given order", func(t *testing.T) {
		created := models.Timestamp{Time: time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)}
		sessions := []models.SessionSummary{
			{ID: 30, CreatedAt: created, TotalReps: 5, MinKneeAngle: fptr(88.2), AIFeedback: "good work"},
			{ID: 20, CreatedAt: created, TotalReps: 8},
		}

		text := string(HistoryToText(sessions))

		if !strings.Contains(text, "#30  Aug 12, 2026  5 reps") {
			t.Errorf("unexpected first line, got:\n%s", text)
		}
		if strings.Index(text, "#30") > strings.Index(text, "#20") {
			t.Error("expected sessions in given order")
		}
		if !strings.Contains(text, "Min angle: 88.2°") {
			t.Errorf("expected formatted metric, got:\n%s", text)
		}
		if !strings.Contains(text, "Min angle: unavailable") {
			t.Errorf("expected missing metric to degrade, got:\n%s", text)
		}
		if strings.Contains(text, NoSessionsPlaceholder) {
			t.Error("placeholder must not appear with sessions present")
		}
	})

	t.Run("long feedback is truncated to a preview", func(t *testing.T) {
		long := strings.Repeat("push through the heels ", 20)
		sessions := []models.SessionSummary{{ID: 1, TotalReps: 1, AIFeedback: long}}

		text := string(HistoryToText(sessions))

		if !strings.Contains(text, "...") {
			t.Errorf("expected truncated feedback, got:\n%s", text)
		}
		if strings.Contains(text, long) {
			t.Error("expected full feedback to be cut")
		}
	})
}

func TestDetailToText(t *testing.T) {
	detail := &models.SessionDetail{
		SessionSummary: models.SessionSummary{
			ID:           42,
			CreatedAt:    models.Timestamp{Time: time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC)},
			TotalReps:    2,
			MinKneeAngle: fptr(88.2),
			AIFeedback:   "solid session",
		},
		FPS:    24,
		BarDev: fptr(2.5),
		Reps: []models.Rep{
			{RepCount: 1, Depth: "good", BottomAngle: 92.3},
		},
	}

	text := string(DetailToText(detail))

	for _, want := range []string{
		"Session #42",
		"Sampling rate: 24 fps",
		"Min knee angle: 88.2°",
		"Bar deviation: 2.5px",
		"Avg depth: unavailable",
		"solid session",
		"Rep 1: depth good, knee angle 92.3°",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, text)
		}
	}
}
