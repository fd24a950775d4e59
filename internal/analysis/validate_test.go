package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/ken-ho/squatx/internal/shared"
)

func TestValidateFile(t *testing.T) {
	t.Run("accepts supported container formats", func(t *testing.T) {
		cases := []struct {
			path string
			ext  string
		}{
			{"lift.mp4", "mp4"},
			{"lift.avi", "avi"},
			{"lift.mov", "mov"},
			{"lift.mkv", "mkv"},
			{"LIFT.MP4", "mp4"},
			{"videos/session.MoV", "mov"},
		}

		for _, tc := range cases {
			media, err := ValidateFile(tc.path)
			if err != nil {
				t.Fatalf("expected %s to validate, got %v", tc.path, err)
			}
			if media.Extension != tc.ext {
				t.Errorf("expected extension %q for %s, got %q", tc.ext, tc.path, media.Extension)
			}
			if media.Path != tc.path {
				t.Errorf("expected path %q, got %q", tc.path, media.Path)
			}
		}
	})

	t.Run("uses the portion after the final dot", func(t *testing.T) {
		media, err := ValidateFile("workout.backup.mp4")
		if err != nil {
			t.Fatalf("expected multi-dot name to validate, got %v", err)
		}
		if media.Extension != "mp4" {
			t.Errorf("expected extension mp4, got %q", media.Extension)
		}
		if media.FileName != "workout.backup.mp4" {
			t.Errorf("expected full base name, got %q", media.FileName)
		}
	})

	t.Run("rejects unsupported formats", func(t *testing.T) {
		for _, path := range []string{"lift.webm", "lift.txt", "lift", "lift.", "", "mp4"} {
			_, err := ValidateFile(path)
			if err == nil {
				t.Fatalf("expected %q to be rejected", path)
			}
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput for %q, got %v", path, err)
			}
			if !strings.Contains(err.Error(), "MP4, AVI, MOV, or MKV") {
				t.Errorf("expected message to list accepted formats, got %q", err.Error())
			}
		}
	})
}

func TestValidateFPS(t *testing.T) {
	t.Run("accepts rates within bounds", func(t *testing.T) {
		for _, fps := range []int{1, 30, 240} {
			if err := ValidateFPS(fps); err != nil {
				t.Errorf("expected fps %d to validate, got %v", fps, err)
			}
		}
	})

	t.Run("rejects rates outside bounds", func(t *testing.T) {
		for _, fps := range []int{0, -1, 241, 1000} {
			err := ValidateFPS(fps)
			if err == nil {
				t.Fatalf("expected fps %d to be rejected", fps)
			}
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput for fps %d, got %v", fps, err)
			}
			if !strings.Contains(err.Error(), "between 1 and 240") {
				t.Errorf("expected message to state bounds, got %q", err.Error())
			}
		}
	})
}
