package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity representa uma pessoa cadastrada na galeria.
type Identity struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FaceEmbedding é uma captura enrolada de uma identidade. Uma identidade pode
// ter vários embeddings (ângulos diferentes da mesma face).
type FaceEmbedding struct {
	ID         uuid.UUID `json:"id"`
	IdentityID uuid.UUID `json:"identity_id"`
	Embedding  []float64 `json:"-"`
	Label      string    `json:"label,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
