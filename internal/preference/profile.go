package preference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/cache"
	"github.com/GTDGit/om_console/internal/models"
)

// ProfileStore keeps the shop information shown in Settings and on invoices.
type ProfileStore struct {
	storage  cache.Store
	validate *validator.Validate

	mu      sync.RWMutex
	profile models.ShopProfile
}

func NewProfileStore(storage cache.Store) *ProfileStore {
	return &ProfileStore{
		storage:  storage,
		validate: validator.New(),
		profile:  models.DefaultShopProfile(),
	}
}

// Load restores the saved profile. A corrupt entry falls back to defaults.
func (p *ProfileStore) Load(ctx context.Context) error {
	raw, err := p.storage.Get(ctx, cache.KeyShopProfile)
	if errors.Is(err, cache.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read shop profile: %w", err)
	}

	profile := models.DefaultShopProfile()
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		log.Warn().Err(err).Msg("Stored shop profile is unreadable, using defaults")
		return nil
	}

	p.mu.Lock()
	p.profile = profile
	p.mu.Unlock()
	return nil
}

func (p *ProfileStore) Get() models.ShopProfile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.profile
}

// Save validates and persists profile.
func (p *ProfileStore) Save(ctx context.Context, profile models.ShopProfile) error {
	if err := p.validate.Struct(profile); err != nil {
		return err
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal shop profile: %w", err)
	}
	if err := p.storage.Set(ctx, cache.KeyShopProfile, string(data)); err != nil {
		return fmt.Errorf("failed to save shop profile: %w", err)
	}

	p.mu.Lock()
	p.profile = profile
	p.mu.Unlock()
	return nil
}
