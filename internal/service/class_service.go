package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayoon-dev/homeroom-api/internal/models"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

type classRepository interface {
	Create(ctx context.Context, draft models.ClassDraft) (*models.ClassRoom, error)
	Get(ctx context.Context, id string) (*models.ClassRoom, error)
	Update(ctx context.Context, id string, draft models.ClassDraft) (*models.ClassRoom, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]models.ClassRoom, error)
}

type classStudentRepository interface {
	DeleteByClass(ctx context.Context, classID string) error
	Count(ctx context.Context, classID string) (int, error)
}

type activeClassSettings interface {
	SetActiveClassID(ctx context.Context, classID string) error
	ActiveClassID(ctx context.Context) (string, error)
}

// CreateClassRequest holds payload for creating classes. Unset fields get
// repository defaults.
type CreateClassRequest struct {
	SchoolYear  *int    `json:"schoolYear" validate:"omitempty,gte=2000,lte=2100"`
	Term        *int    `json:"term" validate:"omitempty,oneof=1 2"`
	Grade       *int    `json:"grade" validate:"omitempty,gte=1,lte=13"`
	ClassNo     *int    `json:"classNo" validate:"omitempty,gte=1,lte=99"`
	TeacherName *string `json:"teacherName"`
	Nickname    *string `json:"nickname"`
}

// UpdateClassRequest holds payload for updating classes; nil fields keep
// their stored value.
type UpdateClassRequest struct {
	SchoolYear  *int    `json:"schoolYear" validate:"omitempty,gte=2000,lte=2100"`
	Term        *int    `json:"term" validate:"omitempty,oneof=1 2"`
	Grade       *int    `json:"grade" validate:"omitempty,gte=1,lte=13"`
	ClassNo     *int    `json:"classNo" validate:"omitempty,gte=1,lte=99"`
	TeacherName *string `json:"teacherName"`
	Nickname    *string `json:"nickname"`
}

// ClassSummary is a class with its active roster size.
type ClassSummary struct {
	models.ClassRoom
	StudentCount int `json:"studentCount"`
}

// ClassService handles homeroom use-cases.
type ClassService struct {
	classes   classRepository
	students  classStudentRepository
	settings  activeClassSettings
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs the class service.
func NewClassService(classes classRepository, students classStudentRepository, settings activeClassSettings, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{classes: classes, students: students, settings: settings, validator: validate, logger: logger}
}

// List returns every class, most recently touched first, with roster sizes.
func (s *ClassService) List(ctx context.Context) ([]ClassSummary, error) {
	classes, err := s.classes.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]ClassSummary, len(classes))
	for i, class := range classes {
		count, err := s.students.Count(ctx, class.ID)
		if err != nil {
			return nil, err
		}
		summaries[i] = ClassSummary{ClassRoom: class, StudentCount: count}
	}
	return summaries, nil
}

// Get returns one class.
func (s *ClassService) Get(ctx context.Context, id string) (*models.ClassRoom, error) {
	return s.classes.Get(ctx, id)
}

// Create registers a new class and makes it the active one.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.ClassRoom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	class, err := s.classes.Create(ctx, models.ClassDraft{
		SchoolYear:  req.SchoolYear,
		Term:        req.Term,
		Grade:       req.Grade,
		ClassNo:     req.ClassNo,
		TeacherName: req.TeacherName,
		Nickname:    req.Nickname,
	})
	if err != nil {
		return nil, err
	}
	if err := s.settings.SetActiveClassID(ctx, class.ID); err != nil {
		s.logger.Warn("failed to set active class", zap.String("class_id", class.ID), zap.Error(err))
	}
	return class, nil
}

// Update modifies an existing class.
func (s *ClassService) Update(ctx context.Context, id string, req UpdateClassRequest) (*models.ClassRoom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	return s.classes.Update(ctx, id, models.ClassDraft{
		SchoolYear:  req.SchoolYear,
		Term:        req.Term,
		Grade:       req.Grade,
		ClassNo:     req.ClassNo,
		TeacherName: req.TeacherName,
		Nickname:    req.Nickname,
	})
}

// Delete removes a class and cascades its roster. The cascade lives here,
// not in the repository: students first, then the class record.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if _, err := s.classes.Get(ctx, id); err != nil {
		return err
	}
	if err := s.students.DeleteByClass(ctx, id); err != nil {
		return err
	}
	if err := s.classes.Delete(ctx, id); err != nil {
		return err
	}
	active, err := s.settings.ActiveClassID(ctx)
	if err != nil {
		s.logger.Warn("failed to read active class", zap.Error(err))
	} else if active == id {
		if err := s.settings.SetActiveClassID(ctx, ""); err != nil {
			s.logger.Warn("failed to clear active class", zap.Error(err))
		}
	}
	s.logger.Info("class deleted", zap.String("class_id", id))
	return nil
}
