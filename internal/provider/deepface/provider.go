package deepface

import (
	"context"
	"encoding/base64"

	"github.com/facestream-labs/facestream/internal/domain"
)

// Provider implementa provider.Detector e provider.Extractor usando a API DeepFace.
type Provider struct {
	client *Client
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// DetectFaces detects faces in the image via POST /analyze
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]domain.BoundingBox, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Analyze(ctx, imageBase64)
	if err != nil {
		return nil, domain.ErrDetectionFailed.WithError(err)
	}

	boxes := make([]domain.BoundingBox, 0, len(resp.Results))
	for _, result := range resp.Results {
		box := regionToBox(result.Region)
		if !box.Valid() {
			continue
		}
		boxes = append(boxes, box)
	}

	return boxes, nil
}

// ExtractEmbedding extracts the embedding for the face at the given box.
// DeepFace re-runs detection on the full frame, so we pick the result
// whose facial area best overlaps the requested box.
func (p *Provider) ExtractEmbedding(ctx context.Context, image []byte, box domain.BoundingBox) ([]float64, error) {
	if !box.Valid() {
		return nil, domain.ErrMalformedBoundingBox
	}

	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Represent(ctx, imageBase64)
	if err != nil {
		return nil, domain.ErrExtractionFailed.WithError(err)
	}

	if len(resp.Results) == 0 {
		return nil, domain.ErrNoFaceDetected.WithError(ErrNoFaceInResponse)
	}

	best := -1
	bestOverlap := 0.0
	for i, result := range resp.Results {
		overlap := overlapRatio(box, regionToBox(result.FacialArea))
		if overlap > bestOverlap {
			best = i
			bestOverlap = overlap
		}
	}

	// No area overlaps the requested box, fall back to the first face.
	if best < 0 {
		best = 0
	}

	embedding := resp.Results[best].Embedding
	if len(embedding) == 0 {
		return nil, domain.ErrExtractionFailed.WithError(ErrInvalidResponse)
	}

	return embedding, nil
}

// regionToBox converte a área facial (x, y, w, h) para o formato
// (top, right, bottom, left) usado internamente.
func regionToBox(area FacialArea) domain.BoundingBox {
	return domain.BoundingBox{
		Top:    area.Y,
		Right:  area.X + area.W,
		Bottom: area.Y + area.H,
		Left:   area.X,
	}
}

// overlapRatio returns intersection over union of two boxes.
func overlapRatio(a, b domain.BoundingBox) float64 {
	top := max(a.Top, b.Top)
	left := max(a.Left, b.Left)
	bottom := min(a.Bottom, b.Bottom)
	right := min(a.Right, b.Right)

	if bottom <= top || right <= left {
		return 0
	}

	inter := float64((bottom - top) * (right - left))
	union := float64(a.Area()+b.Area()) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}
