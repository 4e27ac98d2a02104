package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dayoon-dev/homeroom-api/internal/models"
	"github.com/dayoon-dev/homeroom-api/internal/storage"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	store *storage.Store
	now   func() int64
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(store *storage.Store) *ClassRepository {
	return &ClassRepository{store: store, now: nowMillis}
}

// Create fills unset draft fields with defaults, stamps both timestamps
// once, persists and returns the full record. A duplicate
// (schoolYear, term, grade, classNo) tuple fails with a constraint
// violation from the store.
func (r *ClassRepository) Create(ctx context.Context, draft models.ClassDraft) (*models.ClassRoom, error) {
	now := r.now()
	class := models.ClassRoom{
		ID:          models.NewClassID(),
		SchoolYear:  intOr(draft.SchoolYear, time.UnixMilli(now).Year()),
		Term:        intOr(draft.Term, 1),
		Grade:       intOr(draft.Grade, 1),
		ClassNo:     intOr(draft.ClassNo, 1),
		TeacherName: stringOr(draft.TeacherName, ""),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	class.Nickname = stringOr(draft.Nickname, fmt.Sprintf("%d-%d", class.Grade, class.ClassNo))

	if _, err := r.store.Put(ctx, storage.Classes, class); err != nil {
		return nil, err
	}
	return &class, nil
}

// Get returns a class by id.
func (r *ClassRepository) Get(ctx context.Context, id string) (*models.ClassRoom, error) {
	raw, found, err := r.store.Get(ctx, storage.Classes, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found: "+id)
	}
	class, err := storage.Decode[models.ClassRoom](raw)
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// Update merges provided fields over the existing record and restamps
// updatedAt. Fails with NotFound when the id is absent.
func (r *ClassRepository) Update(ctx context.Context, id string, draft models.ClassDraft) (*models.ClassRoom, error) {
	class, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if draft.SchoolYear != nil {
		class.SchoolYear = *draft.SchoolYear
	}
	if draft.Term != nil {
		class.Term = *draft.Term
	}
	if draft.Grade != nil {
		class.Grade = *draft.Grade
	}
	if draft.ClassNo != nil {
		class.ClassNo = *draft.ClassNo
	}
	if draft.TeacherName != nil {
		class.TeacherName = *draft.TeacherName
	}
	if draft.Nickname != nil {
		class.Nickname = *draft.Nickname
	}
	class.UpdatedAt = r.now()

	if _, err := r.store.Put(ctx, storage.Classes, class); err != nil {
		return nil, err
	}
	return class, nil
}

// Delete removes the class record only. Cascading the owned students is the
// caller's responsibility; the students stay queryable by classId until
// explicitly removed.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, storage.Classes, id)
}

// ListAll returns every class, most recently touched first.
func (r *ClassRepository) ListAll(ctx context.Context) ([]models.ClassRoom, error) {
	raws, err := r.store.GetAll(ctx, storage.Classes)
	if err != nil {
		return nil, err
	}
	classes, err := storage.DecodeAll[models.ClassRoom](raws)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(classes, func(i, j int) bool {
		return classes[i].UpdatedAt > classes[j].UpdatedAt
	})
	return classes, nil
}

// DisplayName renders the label shown for a class in lists and print
// headers.
func DisplayName(class *models.ClassRoom) string {
	if class == nil {
		return ""
	}
	if class.Nickname != "" {
		return class.Nickname
	}
	return fmt.Sprintf("%d-%d", class.Grade, class.ClassNo)
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func stringOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
