package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facestream-labs/facestream/internal/domain"
	"github.com/facestream-labs/facestream/internal/gallery"
	"github.com/facestream-labs/facestream/internal/match"
)

type fakeIdentityRepo struct {
	identities map[uuid.UUID]*domain.Identity
	createErr  error
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{identities: make(map[uuid.UUID]*domain.Identity)}
}

func (r *fakeIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	if r.createErr != nil {
		return r.createErr
	}
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	identity.CreatedAt = time.Now()
	identity.UpdatedAt = identity.CreatedAt
	r.identities[identity.ID] = identity
	return nil
}

func (r *fakeIdentityRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Identity, error) {
	identity, ok := r.identities[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return identity, nil
}

func (r *fakeIdentityRepo) List(_ context.Context, activeOnly bool) ([]domain.Identity, error) {
	out := make([]domain.Identity, 0)
	for _, identity := range r.identities {
		if activeOnly && !identity.Active {
			continue
		}
		out = append(out, *identity)
	}
	return out, nil
}

func (r *fakeIdentityRepo) Update(_ context.Context, identity *domain.Identity) error {
	if _, ok := r.identities[identity.ID]; !ok {
		return domain.ErrIdentityNotFound
	}
	r.identities[identity.ID] = identity
	return nil
}

func (r *fakeIdentityRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.identities[id]; !ok {
		return domain.ErrIdentityNotFound
	}
	delete(r.identities, id)
	return nil
}

type fakeEmbeddingRepo struct {
	embeddings []domain.FaceEmbedding
	galleryGen int
}

func (r *fakeEmbeddingRepo) Create(_ context.Context, e *domain.FaceEmbedding) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.embeddings = append(r.embeddings, *e)
	return nil
}

func (r *fakeEmbeddingRepo) ListByIdentity(_ context.Context, identityID uuid.UUID) ([]domain.FaceEmbedding, error) {
	out := make([]domain.FaceEmbedding, 0)
	for _, e := range r.embeddings {
		if e.IdentityID == identityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmbeddingRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, e := range r.embeddings {
		if e.ID == id {
			r.embeddings = append(r.embeddings[:i], r.embeddings[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeEmbeddingRepo) ListGallery(_ context.Context) ([]match.Candidate, error) {
	r.galleryGen++
	return nil, nil
}

type stubDetector struct {
	boxes []domain.BoundingBox
	err   error
}

func (d *stubDetector) DetectFaces(_ context.Context, _ []byte) ([]domain.BoundingBox, error) {
	return d.boxes, d.err
}

type stubExtractor struct {
	embedding []float64
	err       error
}

func (e *stubExtractor) ExtractEmbedding(_ context.Context, _ []byte, _ domain.BoundingBox) ([]float64, error) {
	return e.embedding, e.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(identities *fakeIdentityRepo, embeddings *fakeEmbeddingRepo, detector *stubDetector, extractor *stubExtractor) *EnrollmentService {
	store := gallery.NewStore(embeddings, time.Minute, discard())
	cfg := EnrollmentConfig{MinFaceSize: 100, EmbeddingDimension: 4}
	return NewEnrollmentService(identities, embeddings, detector, extractor, store, cfg, discard())
}

func validBox() domain.BoundingBox {
	return domain.BoundingBox{Top: 0, Right: 150, Bottom: 150, Left: 0}
}

func TestCreateIdentity(t *testing.T) {
	svc := newService(newFakeIdentityRepo(), &fakeEmbeddingRepo{}, &stubDetector{}, &stubExtractor{})

	identity, err := svc.CreateIdentity(context.Background(), "Elena")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, identity.ID)
	assert.True(t, identity.Active)

	_, err = svc.CreateIdentity(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestAddFace(t *testing.T) {
	identities := newFakeIdentityRepo()
	embeddings := &fakeEmbeddingRepo{}
	detector := &stubDetector{boxes: []domain.BoundingBox{validBox()}}
	extractor := &stubExtractor{embedding: []float64{1, 0, 0, 0}}
	svc := newService(identities, embeddings, detector, extractor)

	identity, err := svc.CreateIdentity(context.Background(), "Elena")
	require.NoError(t, err)

	face, err := svc.AddFace(context.Background(), identity.ID, []byte("photo"), "frontal")
	require.NoError(t, err)
	assert.Equal(t, identity.ID, face.IdentityID)
	assert.Equal(t, "frontal", face.Label)
	require.Len(t, embeddings.embeddings, 1)
}

func TestAddFace_ValidationErrors(t *testing.T) {
	identities := newFakeIdentityRepo()
	identity := &domain.Identity{Name: "Elena", Active: true}
	require.NoError(t, identities.Create(context.Background(), identity))

	tests := []struct {
		name      string
		detector  *stubDetector
		extractor *stubExtractor
		wantErr   *domain.AppError
	}{
		{
			name:      "no face",
			detector:  &stubDetector{},
			extractor: &stubExtractor{embedding: []float64{1, 0, 0, 0}},
			wantErr:   domain.ErrNoFaceDetected,
		},
		{
			name:      "multiple faces",
			detector:  &stubDetector{boxes: []domain.BoundingBox{validBox(), {Top: 0, Right: 300, Bottom: 150, Left: 160}}},
			extractor: &stubExtractor{embedding: []float64{1, 0, 0, 0}},
			wantErr:   domain.ErrMultipleFaces,
		},
		{
			name:      "face too small",
			detector:  &stubDetector{boxes: []domain.BoundingBox{{Top: 0, Right: 50, Bottom: 50, Left: 0}}},
			extractor: &stubExtractor{embedding: []float64{1, 0, 0, 0}},
			wantErr:   domain.ErrFaceTooSmall,
		},
		{
			name:      "dimension mismatch",
			detector:  &stubDetector{boxes: []domain.BoundingBox{validBox()}},
			extractor: &stubExtractor{embedding: []float64{1, 0}},
			wantErr:   domain.ErrDimensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(identities, &fakeEmbeddingRepo{}, tt.detector, tt.extractor)
			_, err := svc.AddFace(context.Background(), identity.ID, []byte("photo"), "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddFace_UnknownIdentity(t *testing.T) {
	svc := newService(newFakeIdentityRepo(), &fakeEmbeddingRepo{}, &stubDetector{boxes: []domain.BoundingBox{validBox()}}, &stubExtractor{embedding: []float64{1, 0, 0, 0}})

	_, err := svc.AddFace(context.Background(), uuid.New(), []byte("photo"), "")
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
}

func TestDeleteIdentity_InvalidatesGallery(t *testing.T) {
	identities := newFakeIdentityRepo()
	embeddings := &fakeEmbeddingRepo{}
	svc := newService(identities, embeddings, &stubDetector{}, &stubExtractor{})

	identity, err := svc.CreateIdentity(context.Background(), "Elena")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteIdentity(context.Background(), identity.ID))
	assert.Empty(t, identities.identities)

	err = svc.DeleteIdentity(context.Background(), identity.ID)
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
}
