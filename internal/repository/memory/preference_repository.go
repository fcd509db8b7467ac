package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/iyhunko/inventory-console/internal/model"
	"github.com/iyhunko/inventory-console/internal/repository"
)

// PreferenceRepository keeps preferences in process memory. Contents are lost on restart.
type PreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[uuid.UUID]model.Preference
}

// NewPreferenceRepository creates an empty PreferenceRepository.
func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{prefs: make(map[uuid.UUID]model.Preference)}
}

// Find returns the preference of profileID or repository.ErrNotFound.
func (r *PreferenceRepository) Find(_ context.Context, profileID uuid.UUID) (model.Preference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pref, ok := r.prefs[profileID]
	if !ok {
		return model.Preference{}, repository.ErrNotFound
	}
	return pref, nil
}

// Save stores pref, replacing any previous preference of the same profile.
func (r *PreferenceRepository) Save(_ context.Context, pref *model.Preference) error {
	pref.InitMeta()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[pref.ProfileID] = *pref
	return nil
}
