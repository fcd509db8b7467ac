package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/iyhunko/inventory-console/internal/model"
)

// ErrNotFound is returned when no preference is stored for a profile.
var ErrNotFound = errors.New("preference not found")

// PreferenceRepository stores the durable settings of browser profiles.
type PreferenceRepository interface {
	// Find returns the preference of profileID or ErrNotFound.
	Find(ctx context.Context, profileID uuid.UUID) (model.Preference, error)
	// Save inserts or replaces pref and stamps its UpdatedAt.
	Save(ctx context.Context, pref *model.Preference) error
}

// ThemeOf returns the stored theme of profileID, or the light theme when none is stored.
func ThemeOf(ctx context.Context, repo PreferenceRepository, profileID uuid.UUID) (model.Theme, error) {
	pref, err := repo.Find(ctx, profileID)
	if errors.Is(err, ErrNotFound) {
		return model.ThemeLight, nil
	}
	if err != nil {
		return model.ThemeLight, err
	}
	return pref.Theme, nil
}
