package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayoon-dev/homeroom-api/internal/models"
)

type recordingBatchWriter struct {
	mu      sync.Mutex
	batches [][]models.Student
}

func (w *recordingBatchWriter) UpdateMany(_ context.Context, students []models.Student) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	batch := make([]models.Student, len(students))
	copy(batch, students)
	w.batches = append(w.batches, batch)
	return nil
}

func (w *recordingBatchWriter) snapshot() [][]models.Student {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([][]models.Student, len(w.batches))
	copy(out, w.batches)
	return out
}

func waitForBatches(t *testing.T, w *recordingBatchWriter, want int) [][]models.Student {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if batches := w.snapshot(); len(batches) >= want {
			return batches
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d autosave batches", want)
	return nil
}

func TestAutosaveDebouncesIntoOneBatch(t *testing.T) {
	writer := &recordingBatchWriter{}
	buf := NewAutosaveBuffer(writer, 30*time.Millisecond, nil)
	defer buf.Stop()

	buf.Queue(models.Student{ID: "stu_1", Name: "김민수"})
	buf.Queue(models.Student{ID: "stu_2", Name: "이서연"})
	// Last edit per id wins.
	buf.Queue(models.Student{ID: "stu_1", Name: "김민수", Notes: "수정됨"})

	batches := waitForBatches(t, writer, 1)
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 2)

	byID := make(map[string]models.Student, 2)
	for _, s := range batches[0] {
		byID[s.ID] = s
	}
	assert.Equal(t, "수정됨", byID["stu_1"].Notes)
	assert.Equal(t, "이서연", byID["stu_2"].Name)
}

func TestAutosaveQueueResetsWindow(t *testing.T) {
	writer := &recordingBatchWriter{}
	buf := NewAutosaveBuffer(writer, 60*time.Millisecond, nil)
	defer buf.Stop()

	buf.Queue(models.Student{ID: "stu_1"})
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, writer.snapshot())

	buf.Queue(models.Student{ID: "stu_2"})
	time.Sleep(30 * time.Millisecond)
	// Still inside the restarted window.
	assert.Empty(t, writer.snapshot())

	batches := waitForBatches(t, writer, 1)
	assert.Len(t, batches[0], 2)
}

func TestAutosaveFlushWritesImmediately(t *testing.T) {
	writer := &recordingBatchWriter{}
	buf := NewAutosaveBuffer(writer, time.Hour, nil)
	defer buf.Stop()

	buf.Queue(models.Student{ID: "stu_1"})
	require.NoError(t, buf.Flush(context.Background()))

	batches := writer.snapshot()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 1)

	// Nothing pending: flush is a no-op.
	require.NoError(t, buf.Flush(context.Background()))
	assert.Len(t, writer.snapshot(), 1)
}

func TestAutosaveStopDropsQueuedEdits(t *testing.T) {
	writer := &recordingBatchWriter{}
	buf := NewAutosaveBuffer(writer, 20*time.Millisecond, nil)

	buf.Queue(models.Student{ID: "stu_1"})
	buf.Stop()
	buf.Queue(models.Student{ID: "stu_2"})

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, writer.snapshot())
}
