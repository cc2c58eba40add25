package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"bricks-api/internal/domain"
)

// AddressRepository define el contrato de persistencia para direcciones.
type AddressRepository interface {
	Create(ctx context.Context, address domain.Address) error
	Find(ctx context.Context, street, city, state string, zip int) (domain.Address, error)
}

// PgAddressRepository implementa AddressRepository usando pgxpool.
type PgAddressRepository struct {
	pool *pgxpool.Pool
}

func NewPgAddressRepository(pool *pgxpool.Pool) *PgAddressRepository {
	return &PgAddressRepository{pool: pool}
}

func (r *PgAddressRepository) Create(ctx context.Context, address domain.Address) error {
	const query = `
		INSERT INTO addresses (id, street, city, state, zip, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		address.ID,
		address.Street,
		address.City,
		address.State,
		address.Zip,
		address.Country,
		address.CreatedAt,
	)
	return err
}

func (r *PgAddressRepository) Find(ctx context.Context, street, city, state string, zip int) (domain.Address, error) {
	const query = `
		SELECT id, street, city, state, zip, country, created_at
		FROM addresses
		WHERE street = $1 AND city = $2 AND state = $3 AND zip = $4
	`
	var a domain.Address
	err := r.pool.QueryRow(ctx, query, street, city, state, zip).Scan(
		&a.ID,
		&a.Street,
		&a.City,
		&a.State,
		&a.Zip,
		&a.Country,
		&a.CreatedAt,
	)
	if err != nil {
		return domain.Address{}, err
	}
	return a, nil
}
