package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/inventory-console/internal/config"
	"github.com/iyhunko/inventory-console/internal/model"
	"github.com/iyhunko/inventory-console/internal/repository"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "inventory:prefs:"

// Cmdable is the subset of the redis client used by PreferenceRepository.
type Cmdable interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// Connect opens a redis client and checks it answers PING.
func Connect(ctx context.Context, conf config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// PreferenceRepository stores each preference as a JSON document under its own key.
type PreferenceRepository struct {
	rdb Cmdable
}

// NewPreferenceRepository creates a new PreferenceRepository instance.
func NewPreferenceRepository(rdb Cmdable) *PreferenceRepository {
	return &PreferenceRepository{rdb: rdb}
}

type preferenceDoc struct {
	Theme     string    `json:"theme"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the redis key holding the preference of profileID.
func Key(profileID uuid.UUID) string {
	return keyPrefix + profileID.String()
}

// Find reads the preference document of profileID. A missing key is repository.ErrNotFound.
func (r *PreferenceRepository) Find(ctx context.Context, profileID uuid.UUID) (model.Preference, error) {
	data, err := r.rdb.Get(ctx, Key(profileID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return model.Preference{}, repository.ErrNotFound
		}
		return model.Preference{}, fmt.Errorf("failed to get preference: %w", err)
	}

	var doc preferenceDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.Preference{}, fmt.Errorf("failed to decode preference: %w", err)
	}
	return model.Preference{
		ProfileID: profileID,
		Theme:     model.ParseTheme(doc.Theme),
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// Save writes pref as a JSON document without expiry.
func (r *PreferenceRepository) Save(ctx context.Context, pref *model.Preference) error {
	pref.InitMeta()
	data, err := json.Marshal(preferenceDoc{Theme: string(pref.Theme), UpdatedAt: pref.UpdatedAt})
	if err != nil {
		return fmt.Errorf("failed to encode preference: %w", err)
	}
	if err := r.rdb.Set(ctx, Key(pref.ProfileID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}
