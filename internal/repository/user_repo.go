package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bricks-api/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByProviderID(ctx context.Context, providerID string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id string, role domain.UserRole) error
	SetVerified(ctx context.Context, id string, verified bool) error
	Delete(ctx context.Context, id string) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, password, role, verified, provider, provider_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		nullIfEmpty(user.PasswordHash),
		user.Role,
		user.Verified,
		nullIfEmpty(string(user.Provider)),
		nullIfEmpty(user.ProviderID),
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = userSelect + ` WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = userSelect + ` WHERE email = $1`
	return r.scanOne(ctx, query, email)
}

func (r *PgUserRepository) GetByProviderID(ctx context.Context, providerID string) (domain.User, error) {
	const query = userSelect + ` WHERE provider_id = $1`
	return r.scanOne(ctx, query, providerID)
}

func (r *PgUserRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = userSelect + ` ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password = $2, updated_at = now() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, passwordHash)
	return err
}

func (r *PgUserRepository) UpdateRole(ctx context.Context, id string, role domain.UserRole) error {
	const query = `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, role)
	return err
}

func (r *PgUserRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	const query = `UPDATE users SET verified = $2, updated_at = now() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, verified)
	return err
}

func (r *PgUserRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

const userSelect = `
	SELECT id, email, password, role, verified, provider, provider_id, created_at, updated_at
	FROM users`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PgUserRepository) scanOne(ctx context.Context, query string, args ...any) (domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u          domain.User
		password   *string
		provider   *string
		providerID *string
		createdAt  time.Time
		updatedAt  time.Time
	)
	err := row.Scan(
		&u.ID,
		&u.Email,
		&password,
		&u.Role,
		&u.Verified,
		&provider,
		&providerID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	if password != nil {
		u.PasswordHash = *password
	}
	if provider != nil {
		u.Provider = domain.AuthProvider(*provider)
	}
	if providerID != nil {
		u.ProviderID = *providerID
	}
	u.CreatedAt = createdAt
	u.UpdatedAt = updatedAt
	return u, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
