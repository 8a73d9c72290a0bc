package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/facestream-labs/facestream/internal/domain"
)

type IdentityRepository struct {
	pool PgxPool
}

func NewIdentityRepository(pool PgxPool) *IdentityRepository {
	return &IdentityRepository{pool: pool}
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	query := `
		INSERT INTO identities (id, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		identity.ID,
		identity.Name,
		identity.Active,
	).Scan(&identity.CreatedAt, &identity.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("create identity: %w", err)
	}

	return nil
}

func (r *IdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM identities
		WHERE id = $1
	`

	var identity domain.Identity
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&identity.ID,
		&identity.Name,
		&identity.Active,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	return &identity, nil
}

func (r *IdentityRepository) List(ctx context.Context, activeOnly bool) ([]domain.Identity, error) {
	query := `
		SELECT id, name, is_active, created_at, updated_at
		FROM identities
	`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	identities := make([]domain.Identity, 0)
	for rows.Next() {
		var identity domain.Identity
		if err := rows.Scan(
			&identity.ID,
			&identity.Name,
			&identity.Active,
			&identity.CreatedAt,
			&identity.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identities = append(identities, identity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}

	return identities, nil
}

func (r *IdentityRepository) Update(ctx context.Context, identity *domain.Identity) error {
	query := `
		UPDATE identities
		SET name = $2, is_active = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		identity.ID,
		identity.Name,
		identity.Active,
	).Scan(&identity.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrIdentityNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("update identity: %w", err)
	}

	return nil
}

func (r *IdentityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM identities WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}
