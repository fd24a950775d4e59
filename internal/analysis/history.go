package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ken-ho/squatx/internal/models"
	"github.com/ken-ho/squatx/internal/repositories"
	"github.com/ken-ho/squatx/internal/services"
	"github.com/ken-ho/squatx/internal/shared"
)

// Gatekeeper is the slice of the auth gate the history store needs: a
// synchronous identity read and the 401 teardown transition.
type Gatekeeper interface {
	services.IdentityProvider
	Expire()
}

// HistoryStore fetches, caches, and serves the most recent sessions for the
// authenticated user.
//
// The in-memory snapshot and the sqlite copy are both replaced wholesale on
// each refresh; the store never re-sorts what the service returned.
type HistoryStore struct {
	svc    services.Service
	gate   Gatekeeper
	cache  *repositories.SessionCacheRepository
	logger *log.Logger

	mu       sync.RWMutex
	sessions []models.SessionSummary
	fetched  bool
}

// NewHistoryStore creates a history store. The cache repository is optional;
// without it, offline listing is unavailable but refreshes still work.
func NewHistoryStore(svc services.Service, gate Gatekeeper, cache *repositories.SessionCacheRepository, logger *log.Logger) *HistoryStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &HistoryStore{
		svc:    svc,
		gate:   gate,
		cache:  cache,
		logger: logger,
	}
}

// Refresh fetches the most recent limit sessions and swaps the snapshot.
//
// An HTTP 401 tears down the identity via the gate and surfaces
// ErrAuthExpired so the caller can route to the login flow. This is the only
// data-fetch path that clears credentials.
func (h *HistoryStore) Refresh(ctx context.Context, limit int) ([]models.SessionSummary, error) {
	sessions, err := h.svc.Sessions(ctx, limit)
	if err != nil {
		if errors.Is(err, shared.ErrAuthExpired) {
			h.gate.Expire()
		}
		return nil, fmt.Errorf("failed to refresh session history: %w", err)
	}

	h.mu.Lock()
	h.sessions = sessions
	h.fetched = true
	h.mu.Unlock()

	if h.cache != nil {
		if identity, ok := h.gate.Identity(); ok {
			if err := h.cache.Replace(identity.UserID, sessions); err != nil {
				h.logger.Warn("failed to persist session cache", "error", err)
			}
		}
	}

	return sessions, nil
}

// Snapshot returns the current in-memory list. The second return is false
// until the first successful refresh.
func (h *HistoryStore) Snapshot() ([]models.SessionSummary, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions, h.fetched
}

// Cached serves the sqlite snapshot without touching the network.
func (h *HistoryStore) Cached(limit int) ([]models.SessionSummary, error) {
	if h.cache == nil {
		return nil, fmt.Errorf("session cache not configured")
	}

	identity, ok := h.gate.Identity()
	if !ok {
		return nil, fmt.Errorf("%w: run 'squatx auth register' or 'squatx auth login' first", shared.ErrNotAuthenticated)
	}

	return h.cache.List(identity.UserID, limit)
}

// Detail fetches one session's full record on demand. Best-effort by
// contract: failures are logged here and the error is returned for callers
// that want to swallow it without surfacing a user-facing failure.
func (h *HistoryStore) Detail(ctx context.Context, sessionID int64) (*models.SessionDetail, error) {
	detail, err := h.svc.Session(ctx, sessionID)
	if err != nil {
		h.logger.Warn("failed to fetch session detail", "session", sessionID, "error", err)
		return nil, err
	}
	return detail, nil
}
