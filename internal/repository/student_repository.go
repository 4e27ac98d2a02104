package repository

import (
	"context"
	"sort"

	"github.com/dayoon-dev/homeroom-api/internal/models"
	"github.com/dayoon-dev/homeroom-api/internal/storage"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

// StudentRepository manages persistence for students.
type StudentRepository struct {
	store *storage.Store
	now   func() int64
}

// NewStudentRepository constructs a new student repository.
func NewStudentRepository(store *storage.Store) *StudentRepository {
	return &StudentRepository{store: store, now: nowMillis}
}

// Create fills unset draft fields with defaults and persists the student.
// Active defaults to true unless the draft explicitly set it to false. A
// duplicate (classId, number) fails with a constraint violation.
func (r *StudentRepository) Create(ctx context.Context, classID string, draft models.StudentDraft) (*models.Student, error) {
	now := r.now()
	student := r.buildStudent(classID, draft, 1, now)

	if _, err := r.store.Put(ctx, storage.Students, student); err != nil {
		return nil, err
	}
	return &student, nil
}

// Get returns a student by id.
func (r *StudentRepository) Get(ctx context.Context, id string) (*models.Student, error) {
	raw, found, err := r.store.Get(ctx, storage.Students, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found: "+id)
	}
	student, err := storage.Decode[models.Student](raw)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Update merges provided fields over the existing record and restamps
// updatedAt. Fails with NotFound when the id is absent.
func (r *StudentRepository) Update(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error) {
	student, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Number != nil {
		student.Number = *patch.Number
	}
	if patch.Name != nil {
		student.Name = *patch.Name
	}
	if patch.Gender != nil {
		student.Gender = *patch.Gender
	}
	if patch.Notes != nil {
		student.Notes = *patch.Notes
	}
	if patch.LockerNo != nil {
		student.LockerNo = patch.LockerNo
	}
	if patch.Active != nil {
		student.Active = *patch.Active
	}
	student.UpdatedAt = r.now()

	if _, err := r.store.Put(ctx, storage.Students, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Delete removes a single student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, storage.Students, id)
}

// ListByClass returns the roster for a class sorted ascending by number,
// optionally restricted to active students.
func (r *StudentRepository) ListByClass(ctx context.Context, classID string, activeOnly bool) ([]models.Student, error) {
	raws, err := r.store.GetAllByIndex(ctx, storage.Students, storage.IndexByClassID, classID)
	if err != nil {
		return nil, err
	}
	students, err := storage.DecodeAll[models.Student](raws)
	if err != nil {
		return nil, err
	}
	if activeOnly {
		filtered := students[:0]
		for _, s := range students {
			if s.Active {
				filtered = append(filtered, s)
			}
		}
		students = filtered
	}
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].Number < students[j].Number
	})
	return students, nil
}

// ReplaceForClass swaps the whole roster of a class: deletes every existing
// student via the classId index, then bulk-inserts records built from the
// drafts (number taken from the draft, or its 1-based position when unset).
//
// The delete and the insert are two separate transactions; the insert is
// all-or-nothing, but a crash between the phases loses the old roster
// without having written the new one. Known limitation, kept on purpose.
func (r *StudentRepository) ReplaceForClass(ctx context.Context, classID string, drafts []models.StudentDraft) ([]models.Student, error) {
	if err := r.store.DeleteAllByIndex(ctx, storage.Students, storage.IndexByClassID, classID); err != nil {
		return nil, err
	}

	now := r.now()
	students := make([]models.Student, len(drafts))
	records := make([]interface{}, len(drafts))
	for i, draft := range drafts {
		students[i] = r.buildStudent(classID, draft, i+1, now)
		records[i] = students[i]
	}

	if err := r.store.PutMany(ctx, storage.Students, records); err != nil {
		return nil, err
	}
	return students, nil
}

// UpdateMany restamps updatedAt on every record and bulk-writes them in one
// transaction. Used by the autosave batch path; the records keep their ids.
func (r *StudentRepository) UpdateMany(ctx context.Context, students []models.Student) error {
	now := r.now()
	records := make([]interface{}, len(students))
	for i := range students {
		students[i].UpdatedAt = now
		records[i] = students[i]
	}
	return r.store.PutMany(ctx, storage.Students, records)
}

// DeleteByClass removes every student of a class in one transaction. The
// class record itself is untouched; callers compose the cascade.
func (r *StudentRepository) DeleteByClass(ctx context.Context, classID string) error {
	return r.store.DeleteAllByIndex(ctx, storage.Students, storage.IndexByClassID, classID)
}

// Count returns the number of active students in a class.
func (r *StudentRepository) Count(ctx context.Context, classID string) (int, error) {
	students, err := r.ListByClass(ctx, classID, true)
	if err != nil {
		return 0, err
	}
	return len(students), nil
}

func (r *StudentRepository) buildStudent(classID string, draft models.StudentDraft, fallbackNumber int, now int64) models.Student {
	number := draft.Number
	if number == 0 {
		number = fallbackNumber
	}
	active := true
	if draft.Active != nil {
		active = *draft.Active
	}
	return models.Student{
		ID:        models.NewStudentID(),
		ClassID:   classID,
		Number:    number,
		Name:      draft.Name,
		Gender:    draft.Gender,
		Notes:     draft.Notes,
		LockerNo:  draft.LockerNo,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
