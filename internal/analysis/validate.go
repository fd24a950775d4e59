package analysis

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ken-ho/squatx/internal/models"
	"github.com/ken-ho/squatx/internal/shared"
)

// Sampling rate bounds accepted by the analysis service.
const (
	MinFPS = 1
	MaxFPS = 240
)

// allowedExtensions lists the video container formats the service accepts.
var allowedExtensions = map[string]bool{
	"mp4": true,
	"avi": true,
	"mov": true,
	"mkv": true,
}

// ValidateFile classifies a selected file before any network activity.
//
// The extension is the portion of the filename after the final dot,
// case-insensitive. Pure function: same input, same verdict.
func ValidateFile(path string) (models.SelectedMedia, error) {
	name := filepath.Base(path)

	ext := ""
	if idx := strings.LastIndex(name, "."); idx >= 0 && idx < len(name)-1 {
		ext = strings.ToLower(name[idx+1:])
	}

	if !allowedExtensions[ext] {
		return models.SelectedMedia{}, fmt.Errorf("%w: invalid file format, please use MP4, AVI, MOV, or MKV", shared.ErrInvalidInput)
	}

	return models.SelectedMedia{
		Path:      path,
		FileName:  name,
		Extension: ext,
	}, nil
}

// ValidateFPS rejects sampling rates outside [MinFPS, MaxFPS] before transmission.
func ValidateFPS(fps int) error {
	if fps < MinFPS || fps > MaxFPS {
		return fmt.Errorf("%w: fps must be between %d and %d", shared.ErrInvalidInput, MinFPS, MaxFPS)
	}
	return nil
}
