// Package pipeline liga detecção, extração, matching e tracking em um único
// passo por frame. Cada sessão tem o seu próprio estado; o pipeline em si é
// compartilhado e sem estado mutável.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/facestream-labs/facestream/internal/domain"
	"github.com/facestream-labs/facestream/internal/gallery"
	"github.com/facestream-labs/facestream/internal/match"
	"github.com/facestream-labs/facestream/internal/provider"
	"github.com/facestream-labs/facestream/internal/track"
)

// Recorder receives recognition events for analytics. Implementations must
// not block; the pipeline calls it inline on the frame path.
type Recorder interface {
	Record(log domain.RecognitionLog)
}

// Config holds the thresholds applied on every frame.
type Config struct {
	// MatchThreshold is the maximum blended distance for a face to match
	MatchThreshold float64
	// ConfidenceThreshold is the minimum confidence to accept a match
	ConfidenceThreshold float64
	// MinFaceSize discards detections smaller than this (pixels per side)
	MinFaceSize int
}

// FrameResult is the outcome of processing one frame.
type FrameResult struct {
	// Dropped indicates the frame was discarded by the rate limiter
	Dropped bool
	// FacesDetected counts detections before the size filter
	FacesDetected int
	// Faces carries one result per face visible in this frame
	Faces []domain.RecognitionResult
}

// Pipeline processa frames: detecta rostos, extrai embeddings, compara com a
// galeria e atualiza o tracker da sessão.
type Pipeline struct {
	detector  provider.Detector
	extractor provider.Extractor
	gallery   *gallery.Store
	recorder  Recorder
	cfg       Config
	logger    *slog.Logger
}

// New creates a Pipeline. The recorder is optional; pass nil to disable
// analytics recording.
func New(detector provider.Detector, extractor provider.Extractor, store *gallery.Store, recorder Recorder, cfg Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		detector:  detector,
		extractor: extractor,
		gallery:   store,
		recorder:  recorder,
		cfg:       cfg,
		logger:    logger,
	}
}

// ProcessFrame runs the full pipeline for one frame of a session.
//
// Failures are isolated by scope: a failed extraction downgrades that face to
// unknown, a failed detection fails only this frame, and the session itself
// survives both. Rate-limited frames are dropped silently.
func (p *Pipeline) ProcessFrame(ctx context.Context, session *Session, image []byte) (*FrameResult, error) {
	if !session.Limiter.Allow() {
		return &FrameResult{Dropped: true}, nil
	}

	boxes, err := p.detector.DetectFaces(ctx, image)
	if err != nil {
		p.logger.WarnContext(ctx, "face detection failed",
			"session_id", session.ID,
			"error", err,
		)
		return nil, domain.ErrDetectionFailed.WithError(err)
	}

	detected := len(boxes)

	// Rostos pequenos demais geram embeddings ruins; descarta antes de extrair.
	kept := boxes[:0]
	for _, box := range boxes {
		if box.Width() < p.cfg.MinFaceSize || box.Height() < p.cfg.MinFaceSize {
			continue
		}
		kept = append(kept, box)
	}
	boxes = kept

	candidates, err := p.gallery.Snapshot(ctx)
	if err != nil {
		// Sem galeria todo rosto vira desconhecido, mas o tracking continua.
		p.logger.ErrorContext(ctx, "gallery snapshot unavailable",
			"session_id", session.ID,
			"error", err,
		)
		candidates = nil
	}

	observations := make([]track.Observation, 0, len(boxes))
	for _, box := range boxes {
		observations = append(observations, p.observe(ctx, session, image, box, candidates))
	}

	tracks := session.Tracker.Update(observations)

	result := &FrameResult{
		FacesDetected: detected,
		Faces:         make([]domain.RecognitionResult, 0, len(tracks)),
	}

	now := time.Now().UTC()
	for _, t := range tracks {
		if !t.Matched {
			// Tracks perdidos continuam vivos no tracker mas não são
			// reportados até reaparecerem.
			continue
		}

		face := domain.RecognitionResult{
			TrackID:    t.ID,
			IdentityID: t.IdentityID,
			Name:       t.Name,
			Confidence: t.Confidence,
			Box:        t.Box,
			Unknown:    t.Unknown(),
		}
		result.Faces = append(result.Faces, face)

		if p.recorder != nil {
			p.recorder.Record(domain.RecognitionLog{
				IdentityID: t.IdentityID,
				TrackID:    t.ID.String(),
				SessionID:  session.ID,
				Confidence: t.Confidence,
				Unknown:    t.Unknown(),
				Box:        t.Box,
				CreatedAt:  now,
			})
		}
	}

	return result, nil
}

// observe extrai o embedding de uma box e resolve a identidade contra a
// galeria. Qualquer falha rebaixa o rosto para desconhecido.
func (p *Pipeline) observe(ctx context.Context, session *Session, image []byte, box domain.BoundingBox, candidates []match.Candidate) track.Observation {
	obs := track.Observation{Box: box}

	embedding, err := p.extractor.ExtractEmbedding(ctx, image, box)
	if err != nil {
		p.logger.WarnContext(ctx, "embedding extraction failed, face treated as unknown",
			"session_id", session.ID,
			"error", err,
		)
		return obs
	}

	best, ok := match.FindBestMatch(embedding, candidates, p.cfg.MatchThreshold, p.cfg.ConfidenceThreshold)
	if !ok {
		return obs
	}

	id := best.IdentityID
	obs.IdentityID = &id
	obs.Name = best.Name
	obs.Confidence = best.Confidence
	return obs
}
