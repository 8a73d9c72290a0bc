package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/facestream-labs/facestream/internal/domain"
	"github.com/facestream-labs/facestream/internal/match"
)

// PgxPool is the subset of pgxpool.Pool used by the repositories,
// compatible with pgxmock for unit testing
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// IdentityRepositoryInterface defines operations for identity data access
type IdentityRepositoryInterface interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Identity, error)
	Update(ctx context.Context, identity *domain.Identity) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// EmbeddingRepositoryInterface defines operations for face embedding data access
type EmbeddingRepositoryInterface interface {
	Create(ctx context.Context, embedding *domain.FaceEmbedding) error
	ListByIdentity(ctx context.Context, identityID uuid.UUID) ([]domain.FaceEmbedding, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListGallery(ctx context.Context) ([]match.Candidate, error)
}

// RecognitionLogRepositoryInterface defines operations for recognition analytics
type RecognitionLogRepositoryInterface interface {
	CreateBatch(ctx context.Context, logs []domain.RecognitionLog) error
	List(ctx context.Context, filter RecognitionLogFilter) ([]domain.RecognitionLog, error)
	Stats(ctx context.Context, since time.Time) (*RecognitionStats, error)
}

// RecognitionLogFilter narrows List queries
type RecognitionLogFilter struct {
	SessionID  string
	IdentityID *uuid.UUID
	Limit      int
	Offset     int
}

// RecognitionStats aggregates recognition activity since a point in time
type RecognitionStats struct {
	TotalEvents    int64           `json:"total_events"`
	UnknownEvents  int64           `json:"unknown_events"`
	UniqueSessions int64           `json:"unique_sessions"`
	TopIdentities  []IdentityCount `json:"top_identities"`
}

// IdentityCount is one identity's share of recognition events
type IdentityCount struct {
	IdentityID uuid.UUID `json:"identity_id"`
	Name       string    `json:"name"`
	Events     int64     `json:"events"`
}
