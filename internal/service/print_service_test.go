package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayoon-dev/homeroom-api/internal/models"
	"github.com/dayoon-dev/homeroom-api/internal/repository"
	"github.com/dayoon-dev/homeroom-api/internal/storage"
	"github.com/dayoon-dev/homeroom-api/internal/templates"
	"github.com/dayoon-dev/homeroom-api/pkg/database"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

type printEnv struct {
	*serviceEnv
	prints *PrintService
}

func newPrintEnv(t *testing.T) *printEnv {
	t.Helper()
	db, err := database.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := storage.Open(db, nil)
	require.NoError(t, err)

	classRepo := repository.NewClassRepository(store)
	studentRepo := repository.NewStudentRepository(store)
	profileRepo := repository.NewPrintProfileRepository(store)
	settingsRepo := repository.NewSettingsRepository(store)
	registry := templates.NewRegistry("")

	env := &serviceEnv{
		classes:  NewClassService(classRepo, studentRepo, settingsRepo, nil, nil),
		students: NewStudentService(studentRepo, classRepo, nil, nil, nil),
		settings: settingsRepo,
	}
	return &printEnv{
		serviceEnv: env,
		prints:     NewPrintService(registry, profileRepo, studentRepo, classRepo, settingsRepo, nil, nil),
	}
}

func TestPrintServiceTemplates(t *testing.T) {
	env := newPrintEnv(t)

	all := env.prints.Templates()
	require.Len(t, all, 3)
	assert.Equal(t, "attendance_label_v1", all[0].ID)
}

func TestPrintServiceProfileUnknownTemplate(t *testing.T) {
	env := newPrintEnv(t)

	_, err := env.prints.Profile(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestPrintServiceSaveProfile(t *testing.T) {
	env := newPrintEnv(t)
	ctx := context.Background()

	saved, err := env.prints.SaveProfile(ctx, "roster_table_v1", nil, SaveProfileRequest{
		Orientation: models.OrientationLandscape,
		MarginMm:    models.MarginMm{Top: 5, Left: 5},
		OffsetMm:    models.OffsetMm{X: 1.2},
		FontScale:   1.1,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrientationLandscape, saved.Orientation)
	assert.Equal(t, 1.1, saved.FontScale)

	// The resolved profile keeps the saved calibration.
	got, err := env.prints.Profile(ctx, "roster_table_v1", nil)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, models.OffsetMm{X: 1.2}, got.OffsetMm)
}

func TestPrintServiceSaveProfileValidation(t *testing.T) {
	env := newPrintEnv(t)

	_, err := env.prints.SaveProfile(context.Background(), "roster_table_v1", nil, SaveProfileRequest{Paper: "Letter"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = env.prints.SaveProfile(context.Background(), "roster_table_v1", nil, SaveProfileRequest{FontScale: 5})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestPrintServiceUpdateOffsetValidation(t *testing.T) {
	env := newPrintEnv(t)

	_, err := env.prints.UpdateOffset(context.Background(), "pp_x", UpdateOffsetRequest{X: 80})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestPrintServiceRenderScopedToClass(t *testing.T) {
	env := newPrintEnv(t)
	ctx := context.Background()

	class, err := env.classes.Create(ctx, CreateClassRequest{Grade: intPtr(3), ClassNo: intPtr(2)})
	require.NoError(t, err)
	_, err = env.students.Create(ctx, class.ID, CreateStudentRequest{Number: 1, Name: "김민수"})
	require.NoError(t, err)

	pdf, err := env.prints.Render(ctx, RenderRequest{TemplateID: "attendance_label_v1", ClassID: &class.ID})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	last, err := env.prints.LastTemplateID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "attendance_label_v1", last)
}

func TestPrintServiceRenderUnknownClass(t *testing.T) {
	env := newPrintEnv(t)

	missing := "cls_missing"
	_, err := env.prints.Render(context.Background(), RenderRequest{TemplateID: "roster_table_v1", ClassID: &missing})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestPrintServiceRenderUnknownTemplate(t *testing.T) {
	env := newPrintEnv(t)

	_, err := env.prints.Render(context.Background(), RenderRequest{TemplateID: "nope"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
