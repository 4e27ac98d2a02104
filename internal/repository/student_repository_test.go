package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayoon-dev/homeroom-api/internal/models"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

func TestStudentCreateDefaults(t *testing.T) {
	repo := NewStudentRepository(newTestStore(t))
	clock, _ := fixedClock(2000)
	repo.now = clock

	student, err := repo.Create(context.Background(), "cls_a", models.StudentDraft{Number: 7, Name: "김민수", Gender: models.GenderMale})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(student.ID, "stu_"))
	assert.Equal(t, "cls_a", student.ClassID)
	assert.Equal(t, 7, student.Number)
	assert.Equal(t, "김민수", student.Name)
	assert.True(t, student.Active)
	assert.Nil(t, student.LockerNo)
	assert.Equal(t, int64(2000), student.CreatedAt)
	assert.Equal(t, int64(2000), student.UpdatedAt)
}

func TestStudentCreateInactive(t *testing.T) {
	repo := NewStudentRepository(newTestStore(t))

	student, err := repo.Create(context.Background(), "cls_a", models.StudentDraft{Number: 1, Name: "김민수", Active: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, student.Active)
}

func TestStudentDuplicateNumberInClassFails(t *testing.T) {
	repo := NewStudentRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "cls_a", models.StudentDraft{Number: 3, Name: "김민수"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, "cls_a", models.StudentDraft{Number: 3, Name: "이서연"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConstraintViolation))

	// Same number in a different class is fine.
	_, err = repo.Create(ctx, "cls_b", models.StudentDraft{Number: 3, Name: "이서연"})
	require.NoError(t, err)
}

func TestStudentUpdateMergesAndRestamps(t *testing.T) {
	repo := NewStudentRepository(newTestStore(t))
	clock, tick := fixedClock(2000)
	repo.now = clock
	ctx := context.Background()

	created, err := repo.Create(ctx, "cls_a", models.StudentDraft{Number: 1, Name: "김민수"})
	require.NoError(t, err)

	tick(100)
	updated, err := repo.Update(ctx, created.ID, models.StudentPatch{
		Notes:    strPtr("전학 예정"),
		LockerNo: intPtr(12),
	})
	require.NoError(t, err)

	assert.Equal(t, "김민수", updated.Name)
	assert.Equal(t, "전학 예정", updated.Notes)
	require.NotNil(t, updated.LockerNo)
	assert.Equal(t, 12, *updated.LockerNo)
	assert.Equal(t, int64(2000), updated.CreatedAt)
	assert.Equal(t, int64(2100), updated.UpdatedAt)
}

func TestStudentUpdateAbsent(t *testing.T) {
	repo := NewStudentRepository(newTestStore(t))

	_, err := repo.Update(context.Background(), "stu_missing", models.StudentPatch{Name: strPtr("x")})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestStudentListByClassSortsAndFilters(t *testing.T) {
	repo := NewStudentRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "cls_a", models.StudentDraft{Number: 2, Name: "이서연"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, "cls_a", models.StudentDraft{Number: 1, Name: "김민수"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, "cls_a", models.StudentDraft{Number: 3, Name: "박지훈", Active: boolPtr(false)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, "cls_b", models.StudentDraft{Number: 1, Name: "최유진"})
	require.NoError(t, err)

	all, err := repo.ListByClass(ctx, "cls_a", false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{all[0].Number, all[1].Number, all[2].Number})

	active, err := repo.ListByClass(ctx, "cls_a", true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "김민수", active[0].Name)
	assert.Equal(t, "이서연", active[1].Name)
}

func TestStudentReplaceForClass(t *testing.T) {
	repo := NewStudentRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "cls_a", models.StudentDraft{Number: 1, Name: "떠난학생"})
	require.NoError(t, err)
	keep, err := repo.Create(ctx, "cls_b", models.StudentDraft{Number: 1, Name: "다른반"})
	require.NoError(t, err)

	students, err := repo.ReplaceForClass(ctx, "cls_a", []models.StudentDraft{
		{Number: 5, Name: "김민수"},
		{Name: "이서연"},
	})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, 5, students[0].Number)
	// Draft without a number takes its 1-based position.
	assert.Equal(t, 2, students[1].Number)

	roster, err := repo.ListByClass(ctx, "cls_a", false)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "이서연", roster[0].Name)
	assert.Equal(t, "김민수", roster[1].Name)

	// Other classes are untouched.
	other, err := repo.Get(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, "다른반", other.Name)
}

func TestStudentReplaceForClassDuplicateNumbersRollBack(t *testing.T) {
	repo := NewStudentRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.ReplaceForClass(ctx, "cls_a", []models.StudentDraft{
		{Number: 1, Name: "김민수"},
		{Number: 1, Name: "이서연"},
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConstraintViolation))

	roster, err := repo.ListByClass(ctx, "cls_a", false)
	require.NoError(t, err)
	assert.Empty(t, roster)
}

func TestStudentUpdateManyRestamps(t *testing.T) {
	repo := NewStudentRepository(newTestStore(t))
	clock, tick := fixedClock(2000)
	repo.now = clock
	ctx := context.Background()

	a, err := repo.Create(ctx, "cls_a", models.StudentDraft{Number: 1, Name: "김민수"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, "cls_a", models.StudentDraft{Number: 2, Name: "이서연"})
	require.NoError(t, err)

	tick(50)
	a.Notes = "봉사활동"
	b.Notes = "도서부"
	require.NoError(t, repo.UpdateMany(ctx, []models.Student{*a, *b}))

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "봉사활동", got.Notes)
	assert.Equal(t, int64(2050), got.UpdatedAt)
}

func TestStudentDeleteByClassAndCount(t *testing.T) {
	repo := NewStudentRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "cls_a", models.StudentDraft{Number: 1, Name: "김민수"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, "cls_a", models.StudentDraft{Number: 2, Name: "이서연", Active: boolPtr(false)})
	require.NoError(t, err)

	count, err := repo.Count(ctx, "cls_a")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.DeleteByClass(ctx, "cls_a"))
	roster, err := repo.ListByClass(ctx, "cls_a", false)
	require.NoError(t, err)
	assert.Empty(t, roster)
}
