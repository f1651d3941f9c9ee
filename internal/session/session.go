// Package session persists what a logged-in kiosk needs to come back after a
// restart: the token, the catalog snapshot and the branding.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chrisdamba/kioskorder/internal/catalog"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession      = errors.New("no cached session")
	ErrSessionExpired = errors.New("cached session has expired")
)

type State struct {
	Token    string            `json:"token"`
	Catalog  *catalog.Snapshot `json:"catalog"`
	Branding *models.Branding  `json:"branding,omitempty"`
	SavedAt  time.Time         `json:"saved_at"`
}

// Cache stores a single session. Load returns ErrNoSession when nothing is
// stored and ErrSessionExpired when the token's exp claim has passed.
type Cache interface {
	Load() (*State, error)
	Save(state *State) error
	Clear() error
}

// TokenExpired reports whether token is a JWT whose exp claim lies before
// now. Opaque tokens and tokens without exp never expire client-side; the
// backend remains the authority.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

func validate(state *State) error {
	if state == nil || state.Token == "" {
		return errors.New("session state needs a token")
	}
	if state.Catalog == nil {
		return errors.New("session state needs a catalog snapshot")
	}
	return nil
}

// MemoryCache keeps the session in process memory only.
type MemoryCache struct {
	mu    sync.Mutex
	state *State
	now   func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{now: time.Now}
}

func (m *MemoryCache) Load() (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return nil, ErrNoSession
	}
	if TokenExpired(m.state.Token, m.now()) {
		m.state = nil
		return nil, ErrSessionExpired
	}
	copied := *m.state
	return &copied, nil
}

func (m *MemoryCache) Save(state *State) error {
	if err := validate(state); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	copied := *state
	if copied.SavedAt.IsZero() {
		copied.SavedAt = m.now().UTC()
	}
	m.mu.Lock()
	m.state = &copied
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Clear() error {
	m.mu.Lock()
	m.state = nil
	m.mu.Unlock()
	return nil
}
