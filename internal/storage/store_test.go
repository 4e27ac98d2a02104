package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayoon-dev/homeroom-api/pkg/database"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

type classDoc struct {
	ID         string `json:"id"`
	SchoolYear int    `json:"schoolYear"`
	Term       int    `json:"term"`
	Grade      int    `json:"grade"`
	ClassNo    int    `json:"classNo"`
	UpdatedAt  int64  `json:"updatedAt"`
}

type studentDoc struct {
	ID      string `json:"id"`
	ClassID string `json:"classId"`
	Number  int    `json:"number"`
	Name    string `json:"name"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := Open(db, nil)
	require.NoError(t, err)
	return store
}

func TestOpenIsIdempotent(t *testing.T) {
	db, err := database.NewMemory()
	require.NoError(t, err)
	defer db.Close()

	_, err = Open(db, nil)
	require.NoError(t, err)

	// Reopening an already-migrated database applies no further steps.
	_, err = Open(db, nil)
	require.NoError(t, err)

	var version int
	require.NoError(t, db.Get(&version, "PRAGMA user_version"))
	assert.Equal(t, SchemaVersion, version)
}

func TestPutGetReadYourWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := classDoc{ID: "cls_1", SchoolYear: 2026, Term: 1, Grade: 3, ClassNo: 2, UpdatedAt: 100}
	key, err := store.Put(ctx, Classes, doc)
	require.NoError(t, err)
	assert.Equal(t, "cls_1", key)

	raw, found, err := store.Get(ctx, Classes, "cls_1")
	require.NoError(t, err)
	require.True(t, found)

	got, err := Decode[classDoc](raw)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestGetAbsentKey(t *testing.T) {
	store := newTestStore(t)

	raw, found, err := store.Get(context.Background(), Classes, "cls_missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, raw)
}

func TestPutReplacesByPrimaryKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, Classes, classDoc{ID: "cls_1", SchoolYear: 2026, Term: 1, Grade: 1, ClassNo: 1})
	require.NoError(t, err)
	_, err = store.Put(ctx, Classes, classDoc{ID: "cls_1", SchoolYear: 2026, Term: 1, Grade: 1, ClassNo: 1, UpdatedAt: 42})
	require.NoError(t, err)

	raws, err := store.GetAll(ctx, Classes)
	require.NoError(t, err)
	require.Len(t, raws, 1)

	got, err := Decode[classDoc](raws[0])
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.UpdatedAt)
}

func TestUniqueIndexViolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, Classes, classDoc{ID: "cls_1", SchoolYear: 2026, Term: 1, Grade: 3, ClassNo: 2})
	require.NoError(t, err)

	// Same (schoolYear, term, grade, classNo) tuple under a different id.
	_, err = store.Put(ctx, Classes, classDoc{ID: "cls_2", SchoolYear: 2026, Term: 1, Grade: 3, ClassNo: 2})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConstraintViolation))
}

func TestGetAllByIndex(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, s := range []studentDoc{
		{ID: "stu_1", ClassID: "cls_a", Number: 1, Name: "김민수"},
		{ID: "stu_2", ClassID: "cls_a", Number: 2, Name: "이서연"},
		{ID: "stu_3", ClassID: "cls_b", Number: 1, Name: "박지훈"},
	} {
		_, err := store.Put(ctx, Students, s)
		require.NoError(t, err)
	}

	raws, err := store.GetAllByIndex(ctx, Students, IndexByClassID, "cls_a")
	require.NoError(t, err)
	assert.Len(t, raws, 2)

	raws, err = store.GetAllByIndex(ctx, Students, IndexByClassID, "cls_missing")
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestGetAllByIndexCompoundPrefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, Students, studentDoc{ID: "stu_1", ClassID: "cls_a", Number: 7, Name: "김민수"})
	require.NoError(t, err)

	raws, err := store.GetAllByIndex(ctx, Students, IndexByClassIDNumber, "cls_a", 7)
	require.NoError(t, err)
	assert.Len(t, raws, 1)
}

func TestPutManyIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, Students, studentDoc{ID: "stu_0", ClassID: "cls_a", Number: 9, Name: "최유진"})
	require.NoError(t, err)

	// stu_2 collides with stu_0 on (classId, number); the whole batch must
	// roll back.
	err = store.PutMany(ctx, Students, []interface{}{
		studentDoc{ID: "stu_1", ClassID: "cls_a", Number: 1, Name: "김민수"},
		studentDoc{ID: "stu_2", ClassID: "cls_a", Number: 9, Name: "이서연"},
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConstraintViolation))

	raws, err := store.GetAllByIndex(ctx, Students, IndexByClassID, "cls_a")
	require.NoError(t, err)
	assert.Len(t, raws, 1)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, Students, studentDoc{ID: "stu_1", ClassID: "cls_a", Number: 1, Name: "김민수"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, Students, "stu_1"))
	_, found, err := store.Get(ctx, Students, "stu_1")
	require.NoError(t, err)
	assert.False(t, found)

	// Absent keys delete silently.
	require.NoError(t, store.Delete(ctx, Students, "stu_1"))
}

func TestDeleteAllByIndex(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, s := range []studentDoc{
		{ID: "stu_1", ClassID: "cls_a", Number: 1, Name: "김민수"},
		{ID: "stu_2", ClassID: "cls_a", Number: 2, Name: "이서연"},
		{ID: "stu_3", ClassID: "cls_b", Number: 1, Name: "박지훈"},
	} {
		_, err := store.Put(ctx, Students, s)
		require.NoError(t, err)
	}

	require.NoError(t, store.DeleteAllByIndex(ctx, Students, IndexByClassID, "cls_a"))

	raws, err := store.GetAll(ctx, Students)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	got, err := Decode[studentDoc](raws[0])
	require.NoError(t, err)
	assert.Equal(t, "stu_3", got.ID)
}

func TestUnknownCollectionAndIndex(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.Get(ctx, "nope", "k")
	require.Error(t, err)

	_, err = store.GetAllByIndex(ctx, Students, "by_nothing", "v")
	require.Error(t, err)
}

func TestSettingsKeyedByOwnField(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	type setting struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	}
	key, err := store.Put(ctx, AppSettings, setting{Key: "activeClassId", Value: json.RawMessage(`"cls_1"`)})
	require.NoError(t, err)
	assert.Equal(t, "activeClassId", key)

	_, found, err := store.Get(ctx, AppSettings, "activeClassId")
	require.NoError(t, err)
	assert.True(t, found)
}
