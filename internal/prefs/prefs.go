// Package prefs holds the process-wide UI preferences: the persisted theme
// and the transient catalog search query.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/roelfdiedericks/devkit/internal/config"
	. "github.com/roelfdiedericks/devkit/internal/logging"
)

// Theme is the rendering mode, always one of ThemeLight or ThemeDark.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeDark
)

// ParseTheme accepts "light" or "dark" in any case.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("invalid theme %q (want light or dark)", s)
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// persisted is the on-disk shape; theme is the only key.
type persisted struct {
	Theme Theme `json:"theme"`
}

// Snapshot is a copy of the store state.
type Snapshot struct {
	Theme  Theme  `json:"theme"`
	Search string `json:"search"`
}

// Store is the preference store. The zero value is not usable, use New or Load.
type Store struct {
	mu       sync.RWMutex
	path     string // empty: memory only
	theme    Theme
	search   string
	onChange []func(Snapshot)
}

// New creates a memory-only store with the default theme.
func New() *Store {
	return &Store{theme: DefaultTheme}
}

// Load reads the store from path. A missing file yields the default theme;
// an unreadable or invalid file is logged and also yields the default.
func Load(path string) (*Store, error) {
	s := &Store{path: path, theme: DefaultTheme}
	if path == "" {
		return s, nil
	}
	theme, err := readTheme(path)
	switch {
	case err == nil:
		s.theme = theme
	case errors.Is(err, os.ErrNotExist):
		L_debug("prefs: no saved preferences, using default", "path", path)
	default:
		L_warn("prefs: ignoring unreadable preferences", "path", path, "error", err)
	}
	return s, nil
}

func readTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return "", fmt.Errorf("invalid preferences JSON: %w", err)
	}
	return ParseTheme(string(p.Theme))
}

// Path returns the backing file, empty for memory-only stores.
func (s *Store) Path() string {
	return s.path
}

// Save writes the theme to disk. Memory-only stores do nothing.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	p := persisted{Theme: s.theme}
	s.mu.RUnlock()

	if err := config.AtomicWriteJSON(s.path, p, 0600); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	L_debug("prefs: saved", "path", s.path, "theme", p.Theme)
	return nil
}

// Theme returns the current theme.
func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme changes and persists the theme.
func (s *Store) SetTheme(t Theme) error {
	parsed, err := ParseTheme(string(t))
	if err != nil {
		return err
	}
	if !s.swapTheme(parsed) {
		return nil
	}
	return s.Save()
}

// Toggle flips between light and dark, persists, and returns the new theme.
func (s *Store) Toggle() (Theme, error) {
	s.mu.Lock()
	s.theme = s.theme.Opposite()
	next := s.theme
	s.mu.Unlock()

	s.notify()
	return next, s.Save()
}

// swapTheme sets the theme and notifies listeners, reporting whether it changed.
func (s *Store) swapTheme(t Theme) bool {
	s.mu.Lock()
	if s.theme == t {
		s.mu.Unlock()
		return false
	}
	s.theme = t
	s.mu.Unlock()
	s.notify()
	return true
}

// Search returns the current search query.
func (s *Store) Search() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search
}

// SetSearch stores the search query as given. It is never persisted.
func (s *Store) SetSearch(q string) {
	s.mu.Lock()
	changed := s.search != q
	s.search = q
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Theme: s.theme, Search: s.search}
}

// OnChange registers a callback invoked after every change.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

func (s *Store) notify() {
	s.mu.RLock()
	snap := Snapshot{Theme: s.theme, Search: s.search}
	callbacks := make([]func(Snapshot), len(s.onChange))
	copy(callbacks, s.onChange)
	s.mu.RUnlock()

	for _, fn := range callbacks {
		fn(snap)
	}
}

// reload re-reads the theme from disk, used by the watcher.
func (s *Store) reload() {
	theme, err := readTheme(s.path)
	if err != nil {
		L_debug("prefs: reload skipped", "error", err)
		return
	}
	if s.swapTheme(theme) {
		L_info("prefs: theme changed on disk", "theme", theme)
	}
}
