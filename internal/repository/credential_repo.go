package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"factcheck/internal/domain"
)

// ErrDuplicateEmail indica que ya existe una credencial con ese email.
var ErrDuplicateEmail = errors.New("duplicate email")

const uniqueViolation = "23505"

// CredentialRepository guarda las cuentas del proveedor de identidad local.
type CredentialRepository interface {
	Create(ctx context.Context, cred domain.Credential) error
	GetByEmail(ctx context.Context, email string) (domain.Credential, error)
}

type PgCredentialRepository struct {
	pool *pgxpool.Pool
}

func NewPgCredentialRepository(pool *pgxpool.Pool) *PgCredentialRepository {
	return &PgCredentialRepository{pool: pool}
}

func (r *PgCredentialRepository) Create(ctx context.Context, cred domain.Credential) error {
	const query = `
		INSERT INTO credentials (id, email, password_hash, display_name, email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		cred.ID,
		cred.Email,
		cred.PasswordHash,
		cred.DisplayName,
		cred.EmailVerified,
		cred.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateEmail
	}
	return err
}

func (r *PgCredentialRepository) GetByEmail(ctx context.Context, email string) (domain.Credential, error) {
	const query = `
		SELECT id, email, password_hash, display_name, email_verified, created_at
		FROM credentials
		WHERE email = $1
	`
	var c domain.Credential
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&c.ID,
		&c.Email,
		&c.PasswordHash,
		&c.DisplayName,
		&c.EmailVerified,
		&c.CreatedAt,
	)
	if err != nil {
		return domain.Credential{}, err
	}
	return c, nil
}
