// Package provider define as interfaces para os colaboradores externos de
// detecção e extração de embeddings. O núcleo de matching e tracking só
// conhece estas portas, nunca um backend específico.
package provider

import (
	"context"

	"github.com/facestream-labs/facestream/internal/domain"
)

// Detector finds faces in a frame.
type Detector interface {
	// DetectFaces retorna as bounding boxes de todas as faces na imagem,
	// em coordenadas de pixel (top, right, bottom, left).
	DetectFaces(ctx context.Context, image []byte) ([]domain.BoundingBox, error)
}

// Extractor turns one face region into a fixed-length embedding.
type Extractor interface {
	// ExtractEmbedding extrai o embedding da face dentro da box indicada.
	ExtractEmbedding(ctx context.Context, image []byte, box domain.BoundingBox) ([]float64, error)
}

// Provider bundles both capabilities; backends that do detection and
// extraction in one service implement it directly.
type Provider interface {
	Detector
	Extractor
}
