package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayoon-dev/homeroom-api/internal/models"
	"github.com/dayoon-dev/homeroom-api/internal/paste"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

type studentRepository interface {
	Create(ctx context.Context, classID string, draft models.StudentDraft) (*models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Update(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error)
	Delete(ctx context.Context, id string) error
	ListByClass(ctx context.Context, classID string, activeOnly bool) ([]models.Student, error)
	ReplaceForClass(ctx context.Context, classID string, drafts []models.StudentDraft) ([]models.Student, error)
}

type classLookup interface {
	Get(ctx context.Context, id string) (*models.ClassRoom, error)
}

// CreateStudentRequest holds payload for adding one student.
type CreateStudentRequest struct {
	Number   int    `json:"number" validate:"omitempty,gte=1,lte=99"`
	Name     string `json:"name" validate:"required"`
	Gender   string `json:"gender" validate:"omitempty,oneof=M F"`
	Notes    string `json:"notes"`
	LockerNo *int   `json:"lockerNo"`
	Active   *bool  `json:"active"`
}

// UpdateStudentRequest holds payload for updating one student; nil fields
// keep their stored value.
type UpdateStudentRequest struct {
	Number   *int    `json:"number" validate:"omitempty,gte=1,lte=99"`
	Name     *string `json:"name"`
	Gender   *string `json:"gender" validate:"omitempty,oneof='' M F"`
	Notes    *string `json:"notes"`
	LockerNo *int    `json:"lockerNo"`
	Active   *bool   `json:"active"`
}

// ReplaceRosterRequest carries the drafts that replace a class roster.
type ReplaceRosterRequest struct {
	Students []models.StudentDraft `json:"students" validate:"required"`
}

// PastePreviewRequest carries raw clipboard text for parsing.
type PastePreviewRequest struct {
	Text string `json:"text"`
}

// StudentService handles roster use-cases.
type StudentService struct {
	students  studentRepository
	classes   classLookup
	autosave  *AutosaveBuffer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(students studentRepository, classes classLookup, autosave *AutosaveBuffer, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, classes: classes, autosave: autosave, validator: validate, logger: logger}
}

// List returns the roster of a class sorted by number.
func (s *StudentService) List(ctx context.Context, classID string, activeOnly bool) ([]models.Student, error) {
	if _, err := s.classes.Get(ctx, classID); err != nil {
		return nil, err
	}
	return s.students.ListByClass(ctx, classID, activeOnly)
}

// Create adds one student to a class.
func (s *StudentService) Create(ctx context.Context, classID string, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if _, err := s.classes.Get(ctx, classID); err != nil {
		return nil, err
	}
	return s.students.Create(ctx, classID, models.StudentDraft{
		Number:   req.Number,
		Name:     req.Name,
		Gender:   req.Gender,
		Notes:    req.Notes,
		LockerNo: req.LockerNo,
		Active:   req.Active,
	})
}

// Update modifies one student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	return s.students.Update(ctx, id, models.StudentPatch{
		Number:   req.Number,
		Name:     req.Name,
		Gender:   req.Gender,
		Notes:    req.Notes,
		LockerNo: req.LockerNo,
		Active:   req.Active,
	})
}

// Delete removes one student.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.students.Get(ctx, id); err != nil {
		return err
	}
	return s.students.Delete(ctx, id)
}

// PastePreview parses clipboard text into drafts without touching storage,
// so the UI can show an editable preview. Unparseable lines are dropped;
// an empty result is the caller's cue to prompt the user.
func (s *StudentService) PastePreview(req PastePreviewRequest) []models.StudentDraft {
	return paste.Parse(req.Text)
}

// ReplaceRoster swaps the whole roster of a class with the given drafts.
func (s *StudentService) ReplaceRoster(ctx context.Context, classID string, req ReplaceRosterRequest) ([]models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid roster payload")
	}
	if _, err := s.classes.Get(ctx, classID); err != nil {
		return nil, err
	}
	students, err := s.students.ReplaceForClass(ctx, classID, req.Students)
	if err != nil {
		return nil, err
	}
	s.logger.Info("roster replaced", zap.String("class_id", classID), zap.Int("students", len(students)))
	return students, nil
}

// ImportPaste parses clipboard text, renumbers the drafts to a dense 1..N
// sequence and replaces the class roster with them.
func (s *StudentService) ImportPaste(ctx context.Context, classID string, req PastePreviewRequest) ([]models.Student, error) {
	drafts := paste.Renumber(paste.Parse(req.Text))
	if len(drafts) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no students recognized in pasted text")
	}
	return s.ReplaceRoster(ctx, classID, ReplaceRosterRequest{Students: drafts})
}

// QueueAutosave stages edited records for the debounced batch write. The
// write fires after the quiescence window elapses with no further edits.
func (s *StudentService) QueueAutosave(students []models.Student) {
	if s.autosave == nil {
		return
	}
	s.autosave.Queue(students...)
}
