// Package service contém a lógica de cadastro: identidades e seus embeddings
// de referência. O caminho de streaming não passa por aqui; este pacote só
// alimenta a galeria.
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/facestream-labs/facestream/internal/domain"
	"github.com/facestream-labs/facestream/internal/gallery"
	"github.com/facestream-labs/facestream/internal/provider"
	"github.com/facestream-labs/facestream/internal/repository"
)

// EnrollmentConfig holds validation knobs for face enrollment.
type EnrollmentConfig struct {
	// MinFaceSize rejects enrollment photos with faces smaller than this
	MinFaceSize int
	// EmbeddingDimension is the expected embedding length
	EmbeddingDimension int
}

// EnrollmentService gerencia identidades e embeddings de referência.
type EnrollmentService struct {
	identities repository.IdentityRepositoryInterface
	embeddings repository.EmbeddingRepositoryInterface
	detector   provider.Detector
	extractor  provider.Extractor
	gallery    *gallery.Store
	cfg        EnrollmentConfig
	logger     *slog.Logger
}

func NewEnrollmentService(
	identities repository.IdentityRepositoryInterface,
	embeddings repository.EmbeddingRepositoryInterface,
	detector provider.Detector,
	extractor provider.Extractor,
	store *gallery.Store,
	cfg EnrollmentConfig,
	logger *slog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		identities: identities,
		embeddings: embeddings,
		detector:   detector,
		extractor:  extractor,
		gallery:    store,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *EnrollmentService) CreateIdentity(ctx context.Context, name string) (*domain.Identity, error) {
	if name == "" {
		return nil, domain.ErrValidationFailed
	}

	identity := &domain.Identity{Name: name, Active: true}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "identity created",
		slog.String("identity_id", identity.ID.String()),
		slog.String("name", identity.Name),
	)
	return identity, nil
}

func (s *EnrollmentService) GetIdentity(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	return s.identities.GetByID(ctx, id)
}

func (s *EnrollmentService) ListIdentities(ctx context.Context, activeOnly bool) ([]domain.Identity, error) {
	return s.identities.List(ctx, activeOnly)
}

func (s *EnrollmentService) UpdateIdentity(ctx context.Context, id uuid.UUID, name string, active bool) (*domain.Identity, error) {
	if name == "" {
		return nil, domain.ErrValidationFailed
	}

	identity, err := s.identities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	identity.Name = name
	identity.Active = active
	if err := s.identities.Update(ctx, identity); err != nil {
		return nil, err
	}

	// Ativação/desativação muda o conteúdo da galeria.
	s.gallery.Invalidate()
	return identity, nil
}

func (s *EnrollmentService) DeleteIdentity(ctx context.Context, id uuid.UUID) error {
	if err := s.identities.Delete(ctx, id); err != nil {
		return err
	}
	s.gallery.Invalidate()
	return nil
}

// AddFace valida a foto de cadastro, extrai o embedding e o registra para a
// identidade. A foto deve conter exatamente um rosto com tamanho mínimo.
func (s *EnrollmentService) AddFace(ctx context.Context, identityID uuid.UUID, image []byte, label string) (*domain.FaceEmbedding, error) {
	if _, err := s.identities.GetByID(ctx, identityID); err != nil {
		return nil, err
	}

	boxes, err := s.detector.DetectFaces(ctx, image)
	if err != nil {
		return nil, err
	}

	switch {
	case len(boxes) == 0:
		return nil, domain.ErrNoFaceDetected
	case len(boxes) > 1:
		return nil, domain.ErrMultipleFaces
	}

	box := boxes[0]
	if box.Width() < s.cfg.MinFaceSize || box.Height() < s.cfg.MinFaceSize {
		return nil, domain.ErrFaceTooSmall
	}

	embedding, err := s.extractor.ExtractEmbedding(ctx, image, box)
	if err != nil {
		return nil, err
	}

	if s.cfg.EmbeddingDimension > 0 && len(embedding) != s.cfg.EmbeddingDimension {
		return nil, domain.ErrDimensionMismatch
	}

	face := &domain.FaceEmbedding{
		IdentityID: identityID,
		Embedding:  embedding,
		Label:      label,
	}
	if err := s.embeddings.Create(ctx, face); err != nil {
		return nil, err
	}

	s.gallery.Invalidate()

	s.logger.InfoContext(ctx, "face enrolled",
		slog.String("identity_id", identityID.String()),
		slog.String("embedding_id", face.ID.String()),
		slog.String("label", label),
	)
	return face, nil
}

func (s *EnrollmentService) ListFaces(ctx context.Context, identityID uuid.UUID) ([]domain.FaceEmbedding, error) {
	if _, err := s.identities.GetByID(ctx, identityID); err != nil {
		return nil, err
	}
	return s.embeddings.ListByIdentity(ctx, identityID)
}

func (s *EnrollmentService) DeleteFace(ctx context.Context, id uuid.UUID) error {
	if err := s.embeddings.Delete(ctx, id); err != nil {
		return err
	}
	s.gallery.Invalidate()
	return nil
}
