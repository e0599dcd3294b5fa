package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"factcheck/internal/domain"
)

// CheckRepository persiste y consulta el historial de checks.
type CheckRepository interface {
	Create(ctx context.Context, check domain.CheckRecord) error
	// QueryChecks devuelve los checks del usuario con checked_at >= from,
	// del mas reciente al mas antiguo. limit <= 0 significa sin limite.
	QueryChecks(ctx context.Context, userID string, from time.Time, limit int) ([]domain.CheckRecord, error)
}

type PgCheckRepository struct {
	pool *pgxpool.Pool
}

func NewPgCheckRepository(pool *pgxpool.Pool) *PgCheckRepository {
	return &PgCheckRepository{pool: pool}
}

func (r *PgCheckRepository) Create(ctx context.Context, check domain.CheckRecord) error {
	const query = `
		INSERT INTO checks (id, user_id, url, credibility_score, is_malicious, summary, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		check.ID,
		check.UserID,
		check.URL,
		check.CredibilityScore,
		check.IsMalicious,
		check.Summary,
		check.CheckedAt.UTC(),
	)
	return err
}

func (r *PgCheckRepository) QueryChecks(ctx context.Context, userID string, from time.Time, limit int) ([]domain.CheckRecord, error) {
	const query = `
		SELECT id, user_id, url, credibility_score, is_malicious, summary, checked_at
		FROM checks
		WHERE user_id = $1 AND checked_at >= $2
		ORDER BY checked_at DESC
		LIMIT NULLIF($3::int, 0)
	`
	if limit < 0 {
		limit = 0
	}

	rows, err := r.pool.Query(ctx, query, userID, from.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []domain.CheckRecord
	for rows.Next() {
		var c domain.CheckRecord
		err = rows.Scan(
			&c.ID,
			&c.UserID,
			&c.URL,
			&c.CredibilityScore,
			&c.IsMalicious,
			&c.Summary,
			&c.CheckedAt,
		)
		if err != nil {
			return nil, err
		}
		c.CheckedAt = c.CheckedAt.UTC()
		checks = append(checks, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return checks, nil
}
