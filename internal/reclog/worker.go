// Package reclog grava eventos de reconhecimento em lote, fora do caminho
// quente do frame. Os eventos entram por um canal com buffer; se o buffer
// encher, o evento é descartado em vez de atrasar o pipeline.
package reclog

import (
	"context"
	"log/slog"
	"time"

	"github.com/facestream-labs/facestream/internal/domain"
	"github.com/facestream-labs/facestream/internal/repository"
)

const (
	defaultBufferSize    = 1024
	defaultFlushInterval = 2 * time.Second
	defaultBatchSize     = 100
)

// Worker acumula eventos e os persiste em lotes periódicos.
type Worker struct {
	repo     repository.RecognitionLogRepositoryInterface
	logger   *slog.Logger
	events   chan domain.RecognitionLog
	interval time.Duration
	batch    int
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// Option configures the worker.
type Option func(*Worker)

// WithFlushInterval overrides how often buffered events are flushed.
func WithFlushInterval(d time.Duration) Option {
	return func(w *Worker) { w.interval = d }
}

// WithBatchSize overrides the maximum events per INSERT.
func WithBatchSize(n int) Option {
	return func(w *Worker) { w.batch = n }
}

// WithBufferSize overrides the channel buffer.
func WithBufferSize(n int) Option {
	return func(w *Worker) { w.events = make(chan domain.RecognitionLog, n) }
}

func NewWorker(repo repository.RecognitionLogRepositoryInterface, logger *slog.Logger, opts ...Option) *Worker {
	w := &Worker{
		repo:     repo,
		logger:   logger,
		events:   make(chan domain.RecognitionLog, defaultBufferSize),
		interval: defaultFlushInterval,
		batch:    defaultBatchSize,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Record enfileira um evento sem bloquear. Eventos são descartados quando o
// buffer está cheio.
func (w *Worker) Record(log domain.RecognitionLog) {
	select {
	case w.events <- log:
	default:
		w.logger.Warn("recognition log buffer full, event dropped",
			"session_id", log.SessionID,
		)
	}
}

// Run consome o canal até o contexto ser cancelado ou Stop ser chamado.
// Um flush final drena o que restar no buffer antes de retornar.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	w.logger.Info("recognition log worker started")

	pending := make([]domain.RecognitionLog, 0, w.batch)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		// Usa um contexto próprio para o flush final sobreviver ao cancelamento.
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := w.repo.CreateBatch(flushCtx, pending); err != nil {
			w.logger.Error("failed to persist recognition logs",
				"count", len(pending),
				"error", err,
			)
		}
		pending = pending[:0]
	}

	for {
		select {
		case <-ctx.Done():
			w.drain(&pending)
			flush()
			w.logger.Info("recognition log worker stopped")
			return
		case <-w.stopCh:
			w.drain(&pending)
			flush()
			w.logger.Info("recognition log worker stopped")
			return
		case event := <-w.events:
			pending = append(pending, event)
			if len(pending) >= w.batch {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Stop encerra o worker e espera o flush final.
func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// drain moves whatever is buffered in the channel into the pending slice.
func (w *Worker) drain(pending *[]domain.RecognitionLog) {
	for {
		select {
		case event := <-w.events:
			*pending = append(*pending, event)
		default:
			return
		}
	}
}
