package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bricks-api/internal/domain"
)

// VerificationRepository persiste los codigos de un solo uso.
type VerificationRepository interface {
	Create(ctx context.Context, record domain.Verification) error
	GetByCode(ctx context.Context, code string) (domain.Verification, error)
	// Delete elimina el registro por id. Devuelve pgx.ErrNoRows cuando el
	// registro ya no existe; el consumidor concurrente perdedor cae aqui.
	Delete(ctx context.Context, id string) error
}

// PgVerificationRepository implementa VerificationRepository usando pgxpool.
type PgVerificationRepository struct {
	pool *pgxpool.Pool
}

func NewPgVerificationRepository(pool *pgxpool.Pool) *PgVerificationRepository {
	return &PgVerificationRepository{pool: pool}
}

func (r *PgVerificationRepository) Create(ctx context.Context, record domain.Verification) error {
	const query = `
		INSERT INTO verifications (id, user_id, code, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.Code,
		record.ExpiresAt,
		record.CreatedAt,
	)
	return err
}

func (r *PgVerificationRepository) GetByCode(ctx context.Context, code string) (domain.Verification, error) {
	const query = `
		SELECT id, user_id, code, expires_at, created_at
		FROM verifications
		WHERE code = $1
	`
	var v domain.Verification
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&v.ID,
		&v.UserID,
		&v.Code,
		&v.ExpiresAt,
		&v.CreatedAt,
	)
	if err != nil {
		return domain.Verification{}, err
	}
	return v, nil
}

func (r *PgVerificationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM verifications WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
