package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dayoon-dev/homeroom-api/internal/models"
	"github.com/dayoon-dev/homeroom-api/internal/templates"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

type printProfileRepository interface {
	GetOrCreate(ctx context.Context, templateID string, classID *string) (*models.PrintProfile, error)
	Save(ctx context.Context, profile models.PrintProfile) (*models.PrintProfile, error)
	UpdateOffset(ctx context.Context, profileID string, x, y float64) (*models.PrintProfile, error)
}

type printStudentLister interface {
	ListByClass(ctx context.Context, classID string, activeOnly bool) ([]models.Student, error)
}

type printSettings interface {
	SetLastTemplateID(ctx context.Context, templateID string) error
	LastTemplateID(ctx context.Context) (string, error)
}

// SaveProfileRequest carries editable calibration fields.
type SaveProfileRequest struct {
	Paper       string          `json:"paper" validate:"omitempty,oneof=A4"`
	Orientation string          `json:"orientation" validate:"omitempty,oneof=portrait landscape"`
	MarginMm    models.MarginMm `json:"marginMm"`
	OffsetMm    models.OffsetMm `json:"offsetMm"`
	FontScale   float64         `json:"fontScale" validate:"omitempty,gt=0,lte=3"`
}

// UpdateOffsetRequest carries a calibration offset adjustment.
type UpdateOffsetRequest struct {
	X float64 `json:"x" validate:"gte=-50,lte=50"`
	Y float64 `json:"y" validate:"gte=-50,lte=50"`
}

// RenderRequest selects a template, an optional class scope and options.
type RenderRequest struct {
	TemplateID string                 `json:"templateId" validate:"required"`
	ClassID    *string                `json:"classId"`
	Options    map[string]interface{} `json:"options"`
}

// PrintService ties templates, profiles and rosters into print output.
type PrintService struct {
	registry  *templates.Registry
	profiles  printProfileRepository
	students  printStudentLister
	classes   classLookup
	settings  printSettings
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPrintService constructs the print service.
func NewPrintService(registry *templates.Registry, profiles printProfileRepository, students printStudentLister, classes classLookup, settings printSettings, validate *validator.Validate, logger *zap.Logger) *PrintService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintService{registry: registry, profiles: profiles, students: students, classes: classes, settings: settings, validator: validate, logger: logger}
}

// Templates lists every registered print template.
func (s *PrintService) Templates() []templates.Template {
	return s.registry.All()
}

// Profile resolves the calibration profile for a template, creating the
// default lazily. Class-scoped wins over global.
func (s *PrintService) Profile(ctx context.Context, templateID string, classID *string) (*models.PrintProfile, error) {
	if _, ok := s.registry.Get(templateID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown template: "+templateID)
	}
	return s.profiles.GetOrCreate(ctx, templateID, classID)
}

// SaveProfile overwrites the editable fields of a resolved profile.
func (s *PrintService) SaveProfile(ctx context.Context, templateID string, classID *string, req SaveProfileRequest) (*models.PrintProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	profile, err := s.Profile(ctx, templateID, classID)
	if err != nil {
		return nil, err
	}
	if req.Paper != "" {
		profile.Paper = req.Paper
	}
	if req.Orientation != "" {
		profile.Orientation = req.Orientation
	}
	profile.MarginMm = req.MarginMm
	profile.OffsetMm = req.OffsetMm
	if req.FontScale > 0 {
		profile.FontScale = req.FontScale
	}
	return s.profiles.Save(ctx, *profile)
}

// UpdateOffset adjusts only the calibration offset of an existing profile.
func (s *PrintService) UpdateOffset(ctx context.Context, profileID string, req UpdateOffsetRequest) (*models.PrintProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid offset payload")
	}
	return s.profiles.UpdateOffset(ctx, profileID, req.X, req.Y)
}

// Render produces the PDF for a template. The render context carries the
// class (when scoped), its active roster sorted by number, the resolved
// profile and the template options. The rendered template becomes the
// last-used one.
func (s *PrintService) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid render payload")
	}
	if _, ok := s.registry.Get(req.TemplateID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown template: "+req.TemplateID)
	}

	renderCtx := templates.RenderContext{Options: req.Options}
	if renderCtx.Options == nil {
		renderCtx.Options = map[string]interface{}{}
	}

	if req.ClassID != nil && *req.ClassID != "" {
		class, err := s.classes.Get(ctx, *req.ClassID)
		if err != nil {
			return nil, err
		}
		renderCtx.ClassInfo = class
		students, err := s.students.ListByClass(ctx, class.ID, true)
		if err != nil {
			return nil, err
		}
		renderCtx.Students = students
	}

	profile, err := s.profiles.GetOrCreate(ctx, req.TemplateID, req.ClassID)
	if err != nil {
		return nil, err
	}
	renderCtx.Profile = *profile

	pdf, err := s.registry.Render(req.TemplateID, renderCtx)
	if err != nil {
		return nil, err
	}

	if err := s.settings.SetLastTemplateID(ctx, req.TemplateID); err != nil {
		s.logger.Warn("failed to record last template", zap.String("template_id", req.TemplateID), zap.Error(err))
	}
	return pdf, nil
}

// LastTemplateID returns the template last rendered, or the empty string.
func (s *PrintService) LastTemplateID(ctx context.Context) (string, error) {
	return s.settings.LastTemplateID(ctx)
}
