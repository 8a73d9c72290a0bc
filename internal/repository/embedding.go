package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/facestream-labs/facestream/internal/domain"
	"github.com/facestream-labs/facestream/internal/match"
)

type EmbeddingRepository struct {
	pool PgxPool
}

func NewEmbeddingRepository(pool PgxPool) *EmbeddingRepository {
	return &EmbeddingRepository{pool: pool}
}

func (r *EmbeddingRepository) Create(ctx context.Context, embedding *domain.FaceEmbedding) error {
	query := `
		INSERT INTO face_embeddings (id, identity_id, embedding, label, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	if embedding.ID == uuid.Nil {
		embedding.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		embedding.ID,
		embedding.IdentityID,
		toVector(embedding.Embedding),
		embedding.Label,
	).Scan(&embedding.CreatedAt)

	if err != nil {
		return fmt.Errorf("create embedding: %w", err)
	}

	return nil
}

func (r *EmbeddingRepository) ListByIdentity(ctx context.Context, identityID uuid.UUID) ([]domain.FaceEmbedding, error) {
	query := `
		SELECT id, identity_id, embedding, label, created_at
		FROM face_embeddings
		WHERE identity_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, identityID)
	if err != nil {
		return nil, fmt.Errorf("list embeddings: %w", err)
	}
	defer rows.Close()

	embeddings := make([]domain.FaceEmbedding, 0)
	for rows.Next() {
		var e domain.FaceEmbedding
		var vec pgvector.Vector
		if err := rows.Scan(&e.ID, &e.IdentityID, &vec, &e.Label, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		e.Embedding = fromVector(vec)
		embeddings = append(embeddings, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate embeddings: %w", err)
	}

	return embeddings, nil
}

func (r *EmbeddingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM face_embeddings WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete embedding: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// ListGallery carrega todos os embeddings das identidades ativas, agrupados
// por identidade. É a consulta que alimenta o snapshot em memória usado no
// caminho quente do matching.
func (r *EmbeddingRepository) ListGallery(ctx context.Context) ([]match.Candidate, error) {
	query := `
		SELECT i.id, i.name, e.embedding
		FROM identities i
		INNER JOIN face_embeddings e ON e.identity_id = i.id
		WHERE i.is_active = TRUE
		ORDER BY i.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	defer rows.Close()

	candidates := make([]match.Candidate, 0)
	index := make(map[uuid.UUID]int)

	for rows.Next() {
		var id uuid.UUID
		var name string
		var vec pgvector.Vector
		if err := rows.Scan(&id, &name, &vec); err != nil {
			return nil, fmt.Errorf("scan gallery row: %w", err)
		}

		i, ok := index[id]
		if !ok {
			i = len(candidates)
			index[id] = i
			candidates = append(candidates, match.Candidate{ID: id, Name: name})
		}
		candidates[i].Embeddings = append(candidates[i].Embeddings, fromVector(vec))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gallery: %w", err)
	}

	return candidates, nil
}

func toVector(embedding []float64) pgvector.Vector {
	floats := make([]float32, len(embedding))
	for i, v := range embedding {
		floats[i] = float32(v)
	}
	return pgvector.NewVector(floats)
}

func fromVector(vec pgvector.Vector) []float64 {
	slice := vec.Slice()
	embedding := make([]float64, len(slice))
	for i, v := range slice {
		embedding[i] = float64(v)
	}
	return embedding
}
