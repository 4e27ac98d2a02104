package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dayoon-dev/homeroom-api/internal/storage"
	"github.com/dayoon-dev/homeroom-api/pkg/database"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := database.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := storage.Open(db, nil)
	require.NoError(t, err)
	return store
}

// fixedClock returns a clock stuck at ms, advanced by calling the returned
// tick function.
func fixedClock(ms int64) (func() int64, func(delta int64)) {
	current := ms
	return func() int64 { return current }, func(delta int64) { current += delta }
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
