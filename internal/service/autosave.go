package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dayoon-dev/homeroom-api/internal/models"
)

type studentBatchWriter interface {
	UpdateMany(ctx context.Context, students []models.Student) error
}

// AutosaveBuffer batches interactive roster edits behind a quiescence
// window: each queued edit resets the timer, and the batch is written only
// after the window elapses with no further edits. This is a scheduling
// policy, not a durability guarantee; edits pending at process exit are
// lost unless Flush is called first.
type AutosaveBuffer struct {
	repo     studentBatchWriter
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	pending map[string]models.Student
	timer   *time.Timer
	stopped bool
}

// NewAutosaveBuffer constructs the buffer. A non-positive debounce falls
// back to one second, matching the interactive editor's expectations.
func NewAutosaveBuffer(repo studentBatchWriter, debounce time.Duration, logger *zap.Logger) *AutosaveBuffer {
	if debounce <= 0 {
		debounce = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutosaveBuffer{
		repo:     repo,
		debounce: debounce,
		logger:   logger,
		pending:  make(map[string]models.Student),
	}
}

// Queue stages records for the next batch write, last edit per id wins,
// and resets the quiescence window.
func (b *AutosaveBuffer) Queue(students ...models.Student) {
	if len(students) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	for _, s := range students {
		b.pending[s.ID] = s
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, b.fire)
}

func (b *AutosaveBuffer) fire() {
	if err := b.Flush(context.Background()); err != nil {
		b.logger.Error("autosave flush failed", zap.Error(err))
	}
}

// Flush writes every pending record immediately, in one transaction. Used
// by the timer and at shutdown.
func (b *AutosaveBuffer) Flush(ctx context.Context) error {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if len(b.pending) == 0 {
		b.mu.Unlock()
		return nil
	}
	batch := make([]models.Student, 0, len(b.pending))
	for _, s := range b.pending {
		batch = append(batch, s)
	}
	b.pending = make(map[string]models.Student)
	b.mu.Unlock()

	if err := b.repo.UpdateMany(ctx, batch); err != nil {
		return err
	}
	b.logger.Debug("autosave batch written", zap.Int("students", len(batch)))
	return nil
}

// Stop prevents further queuing and cancels any pending timer. It does not
// flush; callers wanting durability call Flush first.
func (b *AutosaveBuffer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
