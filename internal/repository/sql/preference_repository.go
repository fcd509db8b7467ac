package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/iyhunko/inventory-console/internal/model"
	"github.com/iyhunko/inventory-console/internal/repository"
)

// PreferenceRepository stores profile preferences in the preferences table.
type PreferenceRepository struct {
	db preparer
}

// NewPreferenceRepository creates a new PreferenceRepository instance.
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Find retrieves the preference of a single profile.
func (r *PreferenceRepository) Find(ctx context.Context, profileID uuid.UUID) (model.Preference, error) {
	query := `SELECT profile_id, theme, updated_at FROM preferences WHERE profile_id = $1`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return model.Preference{}, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var (
		result model.Preference
		theme  string
	)
	err = stmt.QueryRowContext(ctx, profileID).Scan(&result.ProfileID, &theme, &result.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Preference{}, repository.ErrNotFound
		}
		return model.Preference{}, fmt.Errorf("failed to query preference: %w", err)
	}
	result.Theme = model.ParseTheme(theme)

	return result, nil
}

// Save upserts the preference keyed by its profile id.
func (r *PreferenceRepository) Save(ctx context.Context, pref *model.Preference) error {
	pref.InitMeta()

	query := `INSERT INTO preferences (profile_id, theme, updated_at) VALUES ($1, $2, $3)
	          ON CONFLICT (profile_id) DO UPDATE SET theme = EXCLUDED.theme, updated_at = EXCLUDED.updated_at`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert statement: %w", err)
	}
	defer stmt.Close()

	if _, err = stmt.ExecContext(ctx, pref.ProfileID, string(pref.Theme), pref.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}

	return nil
}
