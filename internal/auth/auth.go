// package auth owns the process-wide identity state machine
//
// The gate has two states, Anonymous and Authenticated, and is the only
// writer of credential state. Every authenticated request reads the identity
// synchronously through [Gate.Identity] at call time.
package auth

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ken-ho/squatx/internal/models"
	"github.com/ken-ho/squatx/internal/shared"
)

// State enumerates the gate's two states.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// CredentialStore persists identity state between runs.
type CredentialStore interface {
	Save(identity models.Identity) error
	Load() (*models.Identity, error) // nil identity when no credential is stored
	Clear() error
}

// Gate holds the client identity for the lifetime of the process.
type Gate struct {
	mu       sync.RWMutex
	identity *models.Identity
	store    CredentialStore
	logger   *log.Logger
}

// NewGate creates a gate in the Anonymous state backed by the given store.
func NewGate(store CredentialStore, logger *log.Logger) *Gate {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Gate{store: store, logger: logger}
}

// Load restores a stored credential at startup. No stored credential means
// the gate stays Anonymous; that is not an error.
func (g *Gate) Load() error {
	if g.store == nil {
		return nil
	}

	identity, err := g.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load stored credential: %w", err)
	}
	if identity == nil || !identity.Valid() {
		return nil
	}

	g.mu.Lock()
	g.identity = identity
	g.mu.Unlock()

	g.logger.Debug("restored stored credential", "user", identity.UserName)
	return nil
}

// State returns the gate's current state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.identity != nil && g.identity.Valid() {
		return Authenticated
	}
	return Anonymous
}

// Identity returns the current identity. The second return is false while Anonymous.
func (g *Gate) Identity() (models.Identity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.identity == nil || !g.identity.Valid() {
		return models.Identity{}, false
	}
	return *g.identity, true
}

// RequireIdentity returns the current identity or ErrNotAuthenticated,
// directing the user to the login flow.
func (g *Gate) RequireIdentity() (models.Identity, error) {
	identity, ok := g.Identity()
	if !ok {
		return models.Identity{}, fmt.Errorf("%w: run 'squatx auth register' or 'squatx auth login' first", shared.ErrNotAuthenticated)
	}
	return identity, nil
}

// SignIn transitions Anonymous → Authenticated with a freshly issued identity
// and persists it.
func (g *Gate) SignIn(identity models.Identity) error {
	if !identity.Valid() {
		return fmt.Errorf("%w: issued credential is incomplete", shared.ErrAuthFailed)
	}

	g.mu.Lock()
	g.identity = &identity
	g.mu.Unlock()

	if g.store != nil {
		if err := g.store.Save(identity); err != nil {
			return fmt.Errorf("failed to persist credential: %w", err)
		}
	}

	g.logger.Info("signed in", "user", identity.UserName)
	return nil
}

// SignOut transitions Authenticated → Anonymous on explicit logout.
func (g *Gate) SignOut() error {
	g.clear()
	g.logger.Info("signed out")
	return nil
}

// Expire transitions Authenticated → Anonymous after an authenticated call
// observed HTTP 401. The stored credential is cleared so the next startup
// routes to the login flow as well.
func (g *Gate) Expire() {
	g.clear()
	g.logger.Warn("credential expired, cleared stored session")
}

func (g *Gate) clear() {
	g.mu.Lock()
	g.identity = nil
	g.mu.Unlock()

	if g.store != nil {
		if err := g.store.Clear(); err != nil {
			g.logger.Warn("failed to clear stored credential", "error", err)
		}
	}
}
