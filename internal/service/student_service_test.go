package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayoon-dev/homeroom-api/internal/models"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

func TestStudentServiceCreateRequiresClass(t *testing.T) {
	env := newServiceEnv(t)

	_, err := env.students.Create(context.Background(), "cls_missing", CreateStudentRequest{Number: 1, Name: "김민수"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestStudentServiceCreateValidation(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	class, err := env.classes.Create(ctx, CreateClassRequest{})
	require.NoError(t, err)

	_, err = env.students.Create(ctx, class.ID, CreateStudentRequest{Number: 1})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = env.students.Create(ctx, class.ID, CreateStudentRequest{Number: 1, Name: "김민수", Gender: "X"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = env.students.Create(ctx, class.ID, CreateStudentRequest{Number: 100, Name: "김민수"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestStudentServiceUpdateAndDelete(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	class, err := env.classes.Create(ctx, CreateClassRequest{})
	require.NoError(t, err)
	created, err := env.students.Create(ctx, class.ID, CreateStudentRequest{Number: 1, Name: "김민수"})
	require.NoError(t, err)

	updated, err := env.students.Update(ctx, created.ID, UpdateStudentRequest{Active: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	require.NoError(t, env.students.Delete(ctx, created.ID))
	err = env.students.Delete(ctx, created.ID)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestStudentServicePastePreviewIsReadOnly(t *testing.T) {
	env := newServiceEnv(t)

	drafts := env.students.PastePreview(PastePreviewRequest{Text: "1\t김민수\n2\t이서연"})
	require.Len(t, drafts, 2)
	assert.Equal(t, "김민수", drafts[0].Name)
}

func TestStudentServiceImportPaste(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	class, err := env.classes.Create(ctx, CreateClassRequest{})
	require.NoError(t, err)
	_, err = env.students.Create(ctx, class.ID, CreateStudentRequest{Number: 1, Name: "떠난학생"})
	require.NoError(t, err)

	students, err := env.students.ImportPaste(ctx, class.ID, PastePreviewRequest{Text: "7\t김민수\n3\t이서연"})
	require.NoError(t, err)
	require.Len(t, students, 2)

	roster, err := env.students.List(ctx, class.ID, false)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	// Renumbered dense in parsed number order, old roster gone.
	assert.Equal(t, 1, roster[0].Number)
	assert.Equal(t, "이서연", roster[0].Name)
	assert.Equal(t, 2, roster[1].Number)
	assert.Equal(t, "김민수", roster[1].Name)
}

func TestStudentServiceImportPasteRejectsUnparseableText(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	class, err := env.classes.Create(ctx, CreateClassRequest{})
	require.NoError(t, err)

	_, err = env.students.ImportPaste(ctx, class.ID, PastePreviewRequest{Text: "   \n\n"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestStudentServiceReplaceRoster(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	class, err := env.classes.Create(ctx, CreateClassRequest{})
	require.NoError(t, err)

	students, err := env.students.ReplaceRoster(ctx, class.ID, ReplaceRosterRequest{Students: []models.StudentDraft{
		{Number: 1, Name: "김민수", Gender: models.GenderMale},
		{Number: 2, Name: "이서연", Gender: models.GenderFemale},
	}})
	require.NoError(t, err)
	assert.Len(t, students, 2)
}
