// Package mock implementa um provider determinístico para testes e
// desenvolvimento, sem nenhum backend de visão computacional real.
package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/facestream-labs/facestream/internal/domain"
)

// Provider generates detections and embeddings derived from the image bytes,
// so the same image always produces the same result.
type Provider struct {
	dimension int
}

// New cria um provider mock produzindo embeddings com a dimensão dada.
func New(dimension int) *Provider {
	if dimension <= 0 {
		dimension = 128
	}
	return &Provider{dimension: dimension}
}

// DetectFaces simula detecção: uma face centralizada, com tamanho derivado
// do hash da imagem. Imagens muito pequenas são rejeitadas como inválidas.
func (p *Provider) DetectFaces(ctx context.Context, image []byte) ([]domain.BoundingBox, error) {
	if len(image) < 100 {
		return nil, domain.ErrInvalidImage
	}

	hash := sha256.Sum256(image)
	size := 100 + int(binary.BigEndian.Uint16(hash[:2]))%200

	return []domain.BoundingBox{
		{Top: 50, Right: 50 + size, Bottom: 50 + size, Left: 50},
	}, nil
}

// ExtractEmbedding gera um embedding unitário determinístico a partir do hash
// da imagem e da box.
func (p *Provider) ExtractEmbedding(ctx context.Context, image []byte, box domain.BoundingBox) ([]float64, error) {
	if len(image) < 100 {
		return nil, domain.ErrInvalidImage
	}
	if !box.Valid() {
		return nil, domain.ErrMalformedBoundingBox
	}

	seed := sha256.New()
	seed.Write(image)
	var boxBytes [16]byte
	binary.BigEndian.PutUint32(boxBytes[0:4], uint32(box.Top))
	binary.BigEndian.PutUint32(boxBytes[4:8], uint32(box.Right))
	binary.BigEndian.PutUint32(boxBytes[8:12], uint32(box.Bottom))
	binary.BigEndian.PutUint32(boxBytes[12:16], uint32(box.Left))
	seed.Write(boxBytes[:])
	hash := seed.Sum(nil)

	embedding := make([]float64, p.dimension)
	for i := range embedding {
		embedding[i] = (float64(hash[i%len(hash)])/255.0)*2 - 1
	}

	var norm float64
	for _, v := range embedding {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for i := range embedding {
		embedding[i] /= norm
	}

	return embedding, nil
}
