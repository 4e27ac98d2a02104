package repository

import (
	"context"

	"github.com/dayoon-dev/homeroom-api/internal/models"
	"github.com/dayoon-dev/homeroom-api/internal/storage"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

// PrintProfileRepository manages persistence for print calibration profiles.
type PrintProfileRepository struct {
	store *storage.Store
	now   func() int64
}

// NewPrintProfileRepository constructs a new print profile repository.
func NewPrintProfileRepository(store *storage.Store) *PrintProfileRepository {
	return &PrintProfileRepository{store: store, now: nowMillis}
}

// GetOrCreate resolves the profile for a template: a class-scoped profile
// wins when classID is given, then the global profile, and when neither
// exists a default profile is created, persisted and returned. A repeated
// call with the same arguments therefore returns the same id.
func (r *PrintProfileRepository) GetOrCreate(ctx context.Context, templateID string, classID *string) (*models.PrintProfile, error) {
	if classID != nil && *classID != "" {
		raws, err := r.store.GetAllByIndex(ctx, storage.PrintProfiles, storage.IndexByClassID, *classID)
		if err != nil {
			return nil, err
		}
		profiles, err := storage.DecodeAll[models.PrintProfile](raws)
		if err != nil {
			return nil, err
		}
		for i := range profiles {
			if profiles[i].TemplateID == templateID {
				return &profiles[i], nil
			}
		}
	}

	raws, err := r.store.GetAllByIndex(ctx, storage.PrintProfiles, storage.IndexByTemplateID, templateID)
	if err != nil {
		return nil, err
	}
	profiles, err := storage.DecodeAll[models.PrintProfile](raws)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].ClassID == nil {
			return &profiles[i], nil
		}
	}

	profile := models.DefaultPrintProfile(templateID, r.now())
	if _, err := r.store.Put(ctx, storage.PrintProfiles, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save restamps updatedAt, persists and returns the updated profile.
func (r *PrintProfileRepository) Save(ctx context.Context, profile models.PrintProfile) (*models.PrintProfile, error) {
	profile.UpdatedAt = r.now()
	if _, err := r.store.Put(ctx, storage.PrintProfiles, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateOffset sets the calibration offset on an existing profile. Fails
// with NotFound when the profile is absent.
func (r *PrintProfileRepository) UpdateOffset(ctx context.Context, profileID string, x, y float64) (*models.PrintProfile, error) {
	raw, found, err := r.store.Get(ctx, storage.PrintProfiles, profileID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "print profile not found: "+profileID)
	}
	profile, err := storage.Decode[models.PrintProfile](raw)
	if err != nil {
		return nil, err
	}
	profile.OffsetMm = models.OffsetMm{X: x, Y: y}
	return r.Save(ctx, profile)
}
