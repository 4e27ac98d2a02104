package repository

import (
	"context"
	"encoding/json"

	"github.com/dayoon-dev/homeroom-api/internal/models"
	"github.com/dayoon-dev/homeroom-api/internal/storage"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

// SettingsRepository is the string-keyed preference store.
type SettingsRepository struct {
	store *storage.Store
}

// NewSettingsRepository constructs a new settings repository.
func NewSettingsRepository(store *storage.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Set stores value under key, replacing any previous value.
func (r *SettingsRepository) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode setting")
	}
	_, err = r.store.Put(ctx, storage.AppSettings, models.Setting{Key: key, Value: raw})
	return err
}

// Get decodes the stored value into out and reports whether the key was
// present; out is left untouched when it was not, so the caller's zero or
// preset value acts as the default.
func (r *SettingsRepository) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	raw, found, err := r.store.Get(ctx, storage.AppSettings, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	setting, err := storage.Decode[models.Setting](raw)
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(setting.Value, out); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "decode setting")
	}
	return true, nil
}

// SetActiveClassID records the class the UI currently works on.
func (r *SettingsRepository) SetActiveClassID(ctx context.Context, classID string) error {
	return r.Set(ctx, models.SettingActiveClassID, classID)
}

// ActiveClassID returns the active class id, or "" when unset.
func (r *SettingsRepository) ActiveClassID(ctx context.Context) (string, error) {
	var id string
	if _, err := r.Get(ctx, models.SettingActiveClassID, &id); err != nil {
		return "", err
	}
	return id, nil
}

// SetLastTemplateID records the template last used for printing.
func (r *SettingsRepository) SetLastTemplateID(ctx context.Context, templateID string) error {
	return r.Set(ctx, models.SettingLastTemplateID, templateID)
}

// LastTemplateID returns the last-used template id, or "" when unset.
func (r *SettingsRepository) LastTemplateID(ctx context.Context) (string, error) {
	var id string
	if _, err := r.Get(ctx, models.SettingLastTemplateID, &id); err != nil {
		return "", err
	}
	return id, nil
}
