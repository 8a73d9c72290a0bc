package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/facestream-labs/facestream/internal/domain"
)

type RecognitionLogRepository struct {
	pool PgxPool
}

func NewRecognitionLogRepository(pool PgxPool) *RecognitionLogRepository {
	return &RecognitionLogRepository{pool: pool}
}

// logColumns is the insert column list shared by CreateBatch
const logColumns = "identity_id, track_id, session_id, confidence, is_unknown, box_top, box_right, box_bottom, box_left, created_at"

// CreateBatch insere vários eventos em um único INSERT. É chamado pelo
// worker de gravação, nunca pelo caminho quente do frame.
func (r *RecognitionLogRepository) CreateBatch(ctx context.Context, logs []domain.RecognitionLog) error {
	if len(logs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO recognition_logs (" + logColumns + ") VALUES ")

	args := make([]interface{}, 0, len(logs)*10)
	for i, log := range logs {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 10
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10))

		createdAt := log.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		args = append(args,
			log.IdentityID,
			log.TrackID,
			log.SessionID,
			log.Confidence,
			log.Unknown,
			log.Box.Top,
			log.Box.Right,
			log.Box.Bottom,
			log.Box.Left,
			createdAt,
		)
	}

	if _, err := r.pool.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert recognition logs: %w", err)
	}

	return nil
}

func (r *RecognitionLogRepository) List(ctx context.Context, filter RecognitionLogFilter) ([]domain.RecognitionLog, error) {
	query := `
		SELECT id, identity_id, track_id, session_id, confidence, is_unknown,
		       box_top, box_right, box_bottom, box_left, created_at
		FROM recognition_logs
	`

	var conditions []string
	var args []interface{}

	if filter.SessionID != "" {
		args = append(args, filter.SessionID)
		conditions = append(conditions, fmt.Sprintf("session_id = $%d", len(args)))
	}
	if filter.IdentityID != nil {
		args = append(args, *filter.IdentityID)
		conditions = append(conditions, fmt.Sprintf("identity_id = $%d", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recognition logs: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.RecognitionLog, 0)
	for rows.Next() {
		var log domain.RecognitionLog
		if err := rows.Scan(
			&log.ID,
			&log.IdentityID,
			&log.TrackID,
			&log.SessionID,
			&log.Confidence,
			&log.Unknown,
			&log.Box.Top,
			&log.Box.Right,
			&log.Box.Bottom,
			&log.Box.Left,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recognition log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recognition logs: %w", err)
	}

	return logs, nil
}

// Stats agrega a atividade de reconhecimento desde o instante informado.
func (r *RecognitionLogRepository) Stats(ctx context.Context, since time.Time) (*RecognitionStats, error) {
	stats := &RecognitionStats{}

	summary := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_unknown),
		       COUNT(DISTINCT session_id)
		FROM recognition_logs
		WHERE created_at >= $1
	`
	err := r.pool.QueryRow(ctx, summary, since).Scan(
		&stats.TotalEvents,
		&stats.UnknownEvents,
		&stats.UniqueSessions,
	)
	if err != nil {
		return nil, fmt.Errorf("recognition stats summary: %w", err)
	}

	top := `
		SELECT l.identity_id, i.name, COUNT(*) AS events
		FROM recognition_logs l
		INNER JOIN identities i ON i.id = l.identity_id
		WHERE l.created_at >= $1 AND l.identity_id IS NOT NULL
		GROUP BY l.identity_id, i.name
		ORDER BY events DESC
		LIMIT 10
	`
	rows, err := r.pool.Query(ctx, top, since)
	if err != nil {
		return nil, fmt.Errorf("recognition stats top identities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var count IdentityCount
		if err := rows.Scan(&count.IdentityID, &count.Name, &count.Events); err != nil {
			return nil, fmt.Errorf("scan identity count: %w", err)
		}
		stats.TopIdentities = append(stats.TopIdentities, count)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identity counts: %w", err)
	}

	return stats, nil
}
