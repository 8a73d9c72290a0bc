package reclog

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facestream-labs/facestream/internal/domain"
	"github.com/facestream-labs/facestream/internal/repository"
)

type captureRepo struct {
	mu      sync.Mutex
	batches [][]domain.RecognitionLog
}

func (r *captureRepo) CreateBatch(_ context.Context, logs []domain.RecognitionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch := append([]domain.RecognitionLog(nil), logs...)
	r.batches = append(r.batches, batch)
	return nil
}

func (r *captureRepo) List(_ context.Context, _ repository.RecognitionLogFilter) ([]domain.RecognitionLog, error) {
	return nil, nil
}

func (r *captureRepo) Stats(_ context.Context, _ time.Time) (*repository.RecognitionStats, error) {
	return nil, nil
}

func (r *captureRepo) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.batches {
		n += len(b)
	}
	return n
}

func (r *captureRepo) batchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nopWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func event(session string) domain.RecognitionLog {
	return domain.RecognitionLog{
		TrackID:    "track-1",
		SessionID:  session,
		Confidence: 0.9,
		Box:        domain.BoundingBox{Top: 0, Right: 100, Bottom: 100, Left: 0},
		CreatedAt:  time.Now(),
	}
}

func TestWorker_FlushesOnStop(t *testing.T) {
	repo := &captureRepo{}
	w := NewWorker(repo, discardLogger(), WithFlushInterval(time.Hour))

	go w.Run(context.Background())

	w.Record(event("sess-1"))
	w.Record(event("sess-1"))
	w.Record(event("sess-2"))

	w.Stop()

	assert.Equal(t, 3, repo.total())
}

func TestWorker_FlushesWhenBatchFull(t *testing.T) {
	repo := &captureRepo{}
	w := NewWorker(repo, discardLogger(), WithFlushInterval(time.Hour), WithBatchSize(2))

	go w.Run(context.Background())

	for i := 0; i < 4; i++ {
		w.Record(event("sess-1"))
	}

	require.Eventually(t, func() bool { return repo.total() == 4 }, time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, repo.batchCount(), 2)

	w.Stop()
}

func TestWorker_FlushesOnInterval(t *testing.T) {
	repo := &captureRepo{}
	w := NewWorker(repo, discardLogger(), WithFlushInterval(20*time.Millisecond))

	go w.Run(context.Background())
	defer w.Stop()

	w.Record(event("sess-1"))

	require.Eventually(t, func() bool { return repo.total() == 1 }, time.Second, 10*time.Millisecond)
}

func TestWorker_ContextCancelDrainsBuffer(t *testing.T) {
	repo := &captureRepo{}
	w := NewWorker(repo, discardLogger(), WithFlushInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	w.Record(event("sess-1"))
	w.Record(event("sess-2"))

	cancel()
	<-done

	assert.Equal(t, 2, repo.total())
}

func TestWorker_DropsWhenBufferFull(t *testing.T) {
	repo := &captureRepo{}
	w := NewWorker(repo, discardLogger(), WithFlushInterval(time.Hour), WithBufferSize(1))

	// Worker parado: o primeiro evento ocupa o buffer, o segundo é descartado.
	w.Record(event("sess-1"))
	w.Record(event("sess-2"))

	go w.Run(context.Background())
	w.Stop()

	assert.Equal(t, 1, repo.total())
}
