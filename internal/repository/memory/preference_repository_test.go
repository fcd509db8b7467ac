package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/iyhunko/inventory-console/internal/model"
	"github.com/iyhunko/inventory-console/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("missing profile", func(t *testing.T) {
		repo := NewPreferenceRepository()

		_, err := repo.Find(ctx, uuid.New())

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("save then find", func(t *testing.T) {
		// given
		repo := NewPreferenceRepository()
		pref := &model.Preference{ProfileID: uuid.New(), Theme: model.ThemeDark}

		// when
		require.NoError(t, repo.Save(ctx, pref))
		found, err := repo.Find(ctx, pref.ProfileID)

		// then
		require.NoError(t, err)
		assert.Equal(t, model.ThemeDark, found.Theme)
		assert.False(t, found.UpdatedAt.IsZero())
	})

	t.Run("theme of unknown profile is light", func(t *testing.T) {
		repo := NewPreferenceRepository()

		theme, err := repository.ThemeOf(ctx, repo, uuid.New())

		require.NoError(t, err)
		assert.Equal(t, model.ThemeLight, theme)
	})
}
