// package services defines interface Service for the squat analysis HTTP API
package services

import (
	"context"

	"github.com/ken-ho/squatx/internal/models"
)

// Service defines the client contract for the analysis/identity/session collaborator.
type Service interface {
	// Register creates a new account and returns the issued credential.
	Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error)

	// Login authenticates an existing account and returns the issued credential.
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)

	// AnalyzeVideo uploads a video for biomechanical analysis.
	// Requires an authenticated identity.
	AnalyzeVideo(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)

	// Sessions retrieves the authenticated user's most recent sessions, newest first.
	Sessions(ctx context.Context, limit int) ([]models.SessionSummary, error)

	// Session retrieves one session's full detail.
	Session(ctx context.Context, sessionID int64) (*models.SessionDetail, error)

	// Health checks whether the service is reachable.
	Health(ctx context.Context) error

	// Name returns the service name for display.
	Name() string
}

// IdentityProvider supplies the current identity at call time.
//
// Every authenticated request reads the identity synchronously through this
// interface; the auth gate is the only writer.
type IdentityProvider interface {
	Identity() (models.Identity, bool)
}
