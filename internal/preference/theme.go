package preference

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GTDGit/om_console/internal/cache"
)

const (
	themeDark  = "dark"
	themeLight = "light"
)

// ThemeStore is the process-wide dark mode flag.
type ThemeStore struct {
	storage cache.Store

	mu   sync.RWMutex
	dark bool
}

func NewThemeStore(storage cache.Store) *ThemeStore {
	return &ThemeStore{storage: storage}
}

// Load reads the persisted theme. Anything other than "dark" is light.
func (t *ThemeStore) Load(ctx context.Context) error {
	v, err := t.storage.Get(ctx, cache.KeyTheme)
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		return fmt.Errorf("failed to read theme: %w", err)
	}
	t.mu.Lock()
	t.dark = v == themeDark
	t.mu.Unlock()
	return nil
}

func (t *ThemeStore) Dark() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dark
}

// Name returns "dark" or "light".
func (t *ThemeStore) Name() string {
	if t.Dark() {
		return themeDark
	}
	return themeLight
}

// Toggle flips the theme and persists it, returning the new value. The flag
// is left unchanged if it cannot be persisted.
func (t *ThemeStore) Toggle(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := !t.dark
	name := themeLight
	if next {
		name = themeDark
	}
	if err := t.storage.Set(ctx, cache.KeyTheme, name); err != nil {
		return t.dark, fmt.Errorf("failed to save theme: %w", err)
	}
	t.dark = next
	return next, nil
}
