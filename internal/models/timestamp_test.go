package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp(t *testing.T) {
	t.Run("parses RFC3339", func(t *testing.T) {
		var ts Timestamp
		if err := json.Unmarshal([]byte(`"2026-08-12T14:30:00Z"`), &ts); err != nil {
			t.Fatalf("expected parse to succeed, got %v", err)
		}
		if ts.Year() != 2026 || ts.Hour() != 14 {
			t.Errorf("unexpected time %s", ts.Time)
		}
	})

	t.Run("parses naive ISO 8601 from the service", func(t *testing.T) {
		cases := []string{
			`"2026-08-12T14:30:00.123456"`,
			`"2026-08-12 14:30:00"`,
		}
		for _, raw := range cases {
			var ts Timestamp
			if err := json.Unmarshal([]byte(raw), &ts); err != nil {
				t.Fatalf("expected %s to parse, got %v", raw, err)
			}
			if ts.Day() != 12 || ts.Minute() != 30 {
				t.Errorf("unexpected time %s for %s", ts.Time, raw)
			}
		}
	})

	t.Run("empty and null are zero", func(t *testing.T) {
		for _, raw := range []string{`""`, `null`} {
			var ts Timestamp
			if err := json.Unmarshal([]byte(raw), &ts); err != nil {
				t.Fatalf("expected %s to be tolerated, got %v", raw, err)
			}
			if !ts.IsZero() {
				t.Errorf("expected zero time for %s", raw)
			}
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var ts Timestamp
		if err := json.Unmarshal([]byte(`"last tuesday"`), &ts); err == nil {
			t.Error("expected unparseable timestamp to fail")
		}
	})

	t.Run("marshals back to RFC3339", func(t *testing.T) {
		ts := Timestamp{Time: time.Date(2026, 8, 12, 14, 30, 0, 0, time.UTC)}
		data, err := json.Marshal(ts)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != `"2026-08-12T14:30:00Z"` {
			t.Errorf("unexpected encoding %s", data)
		}
	})
}
