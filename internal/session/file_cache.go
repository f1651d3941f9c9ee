package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chrisdamba/kioskorder/internal/catalog"
	"github.com/chrisdamba/kioskorder/internal/models"
	log "github.com/sirupsen/logrus"
)

// Session keys, one file each under the cache directory.
const (
	KeyToken    = "pos_token"
	KeyMenuData = "menu_data.json"
	KeyBranding = "branding.json"
	KeySavedAt  = "saved_at"
)

// FileCache stores the session as one file per key in a private directory.
type FileCache struct {
	dir string
	now func() time.Time
}

func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir, now: time.Now}
}

func (f *FileCache) Dir() string { return f.dir }

func (f *FileCache) Load() (*State, error) {
	token, err := os.ReadFile(f.path(KeyToken))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}

	state := &State{Token: strings.TrimSpace(string(token))}
	if state.Token == "" {
		return nil, ErrNoSession
	}
	if TokenExpired(state.Token, f.now()) {
		if err := f.Clear(); err != nil {
			log.WithError(err).Warn("failed to clear expired session")
		}
		return nil, ErrSessionExpired
	}

	var snap catalog.Snapshot
	if err := f.readJSON(KeyMenuData, &snap); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read cached catalog: %w", err)
	}
	state.Catalog = &snap

	var branding models.Branding
	switch err := f.readJSON(KeyBranding, &branding); {
	case err == nil:
		state.Branding = &branding
	case !errors.Is(err, fs.ErrNotExist):
		log.WithError(err).Warn("ignoring unreadable cached branding")
	}

	if raw, err := os.ReadFile(f.path(KeySavedAt)); err == nil {
		if savedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(string(raw))); err == nil {
			state.SavedAt = savedAt
		}
	}
	return state, nil
}

// Save writes every key. The token is written last so a crash mid-save never
// leaves a token without its catalog.
func (f *FileCache) Save(state *State) error {
	if err := validate(state); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	if err := f.writeJSON(KeyMenuData, state.Catalog); err != nil {
		return err
	}
	if state.Branding != nil {
		if err := f.writeJSON(KeyBranding, state.Branding); err != nil {
			return err
		}
	} else if err := os.Remove(f.path(KeyBranding)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale branding: %w", err)
	}

	savedAt := state.SavedAt
	if savedAt.IsZero() {
		savedAt = f.now().UTC()
	}
	if err := f.writeFile(KeySavedAt, []byte(savedAt.Format(time.RFC3339))); err != nil {
		return err
	}
	return f.writeFile(KeyToken, []byte(state.Token))
}

func (f *FileCache) Clear() error {
	for _, key := range []string{KeyToken, KeyMenuData, KeyBranding, KeySavedAt} {
		if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("clear session key %s: %w", key, err)
		}
	}
	return nil
}

func (f *FileCache) path(key string) string {
	return filepath.Join(f.dir, key)
}

func (f *FileCache) readJSON(key string, v any) error {
	raw, err := os.ReadFile(f.path(key))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func (f *FileCache) writeJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode session key %s: %w", key, err)
	}
	return f.writeFile(key, raw)
}

// writeFile replaces key atomically via a temp file and rename.
func (f *FileCache) writeFile(key string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, "."+key+".*")
	if err != nil {
		return fmt.Errorf("write session key %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session key %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write session key %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("write session key %s: %w", key, err)
	}
	return nil
}
