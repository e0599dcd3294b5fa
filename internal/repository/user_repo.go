package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"factcheck/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
// Los metodos devuelven pgx.ErrNoRows cuando el usuario no existe.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (domain.UserRecord, error)
	// CreateIfAbsent inserta el usuario si no existe y devuelve el registro
	// vigente. Dos llamadas concurrentes con el mismo id resuelven al mismo registro.
	CreateIfAbsent(ctx context.Context, user domain.UserRecord) (domain.UserRecord, error)
	// UpdateProfile escribe solo los campos no nil y agrega changes al historial
	// en la misma sentencia.
	UpdateProfile(ctx context.Context, id string, fields domain.ProfileFields, changes []domain.SettingsChange, at time.Time) error
	IncrementChecks(ctx context.Context, id, feature string, at time.Time) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.UserRecord, error) {
	const query = `
		SELECT id, email, first_name, last_name, is_verified, bio, avatar,
		       links_checked, feature_usage, settings_history,
		       created_at, last_login_at, updated_at
		FROM users
		WHERE id = $1
	`
	var (
		u        domain.UserRecord
		usageRaw []byte
		histRaw  []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.IsVerified,
		&u.Profile.Bio,
		&u.Profile.Avatar,
		&u.Stats.LinksChecked,
		&usageRaw,
		&histRaw,
		&u.CreatedAt,
		&u.LastLoginAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.UserRecord{}, err
	}
	if err := decodeJSONColumn(usageRaw, &u.Stats.FeatureUsage); err != nil {
		return domain.UserRecord{}, fmt.Errorf("decode feature_usage: %w", err)
	}
	if err := decodeJSONColumn(histRaw, &u.SettingsHistory); err != nil {
		return domain.UserRecord{}, fmt.Errorf("decode settings_history: %w", err)
	}
	if u.Stats.FeatureUsage == nil {
		u.Stats.FeatureUsage = map[string]int{}
	}
	return u, nil
}

func (r *PgUserRepository) CreateIfAbsent(ctx context.Context, user domain.UserRecord) (domain.UserRecord, error) {
	const query = `
		INSERT INTO users (id, email, first_name, last_name, is_verified,
		                   links_checked, created_at, last_login_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.IsVerified,
		user.Stats.LinksChecked,
		user.CreatedAt,
		user.LastLoginAt,
	)
	if err != nil {
		return domain.UserRecord{}, err
	}
	return r.GetByID(ctx, user.ID)
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, id string, fields domain.ProfileFields, changes []domain.SettingsChange, at time.Time) error {
	if changes == nil {
		changes = []domain.SettingsChange{}
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return err
	}
	const query = `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    bio = COALESCE($4, bio),
		    avatar = COALESCE($5, avatar),
		    settings_history = settings_history || $6::jsonb,
		    updated_at = $7
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		id,
		fields.FirstName,
		fields.LastName,
		fields.Bio,
		fields.Avatar,
		string(changesJSON),
		at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) IncrementChecks(ctx context.Context, id, feature string, at time.Time) error {
	const query = `
		UPDATE users
		SET links_checked = links_checked + 1,
		    feature_usage = jsonb_set(
		        feature_usage,
		        ARRAY[$2::text],
		        to_jsonb(COALESCE((feature_usage->>$2::text)::int, 0) + 1)
		    ),
		    updated_at = $3
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, feature, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func decodeJSONColumn(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
