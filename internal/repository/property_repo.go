package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"bricks-api/internal/domain"
)

// PropertyRepository define el contrato de persistencia para propiedades.
type PropertyRepository interface {
	Create(ctx context.Context, property domain.Property) error
	GetByID(ctx context.Context, id string) (domain.Property, error)
	Search(ctx context.Context, filter domain.PropertyFilter) (domain.PropertyPage, error)
}

// PgPropertyRepository implementa PropertyRepository usando pgxpool.
type PgPropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPgPropertyRepository(pool *pgxpool.Pool) *PgPropertyRepository {
	return &PgPropertyRepository{pool: pool}
}

func (r *PgPropertyRepository) Create(ctx context.Context, property domain.Property) error {
	const query = `
		INSERT INTO properties (id, title, description, price, size, sold, category_id, address_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		property.ID,
		property.Title,
		property.Description,
		property.Price,
		property.Size,
		property.Sold,
		property.CategoryID,
		property.AddressID,
		property.CreatedAt,
		property.UpdatedAt,
	)
	return err
}

const propertySelect = `
	SELECT p.id, p.title, p.description, p.price, p.size, p.sold,
	       p.category_id, p.address_id, p.created_at, p.updated_at,
	       c.id, c.name, c.slug, c.created_at,
	       a.id, a.street, a.city, a.state, a.zip, a.country, a.created_at
	FROM properties p
	JOIN categories c ON c.id = p.category_id
	JOIN addresses a ON a.id = p.address_id`

func (r *PgPropertyRepository) GetByID(ctx context.Context, id string) (domain.Property, error) {
	const query = propertySelect + ` WHERE p.id = $1`
	return scanProperty(r.pool.QueryRow(ctx, query, id))
}

func (r *PgPropertyRepository) Search(ctx context.Context, filter domain.PropertyFilter) (domain.PropertyPage, error) {
	where := " WHERE 1=1"
	args := []any{}
	if len(filter.Categories) > 0 {
		args = append(args, filter.Categories)
		where += fmt.Sprintf(" AND c.slug = ANY($%d)", len(args))
	}
	if filter.Sold != nil {
		args = append(args, *filter.Sold)
		where += fmt.Sprintf(" AND p.sold = $%d", len(args))
	}

	page := domain.PropertyPage{
		Offset: filter.Offset,
		Limit:  filter.Limit,
		Items:  []domain.Property{},
	}

	countQuery := `
		SELECT count(*)
		FROM properties p
		JOIN categories c ON c.id = p.category_id
		JOIN addresses a ON a.id = p.address_id` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&page.Total); err != nil {
		return domain.PropertyPage{}, err
	}

	args = append(args, filter.Limit)
	limitArg := len(args)
	args = append(args, filter.Offset)
	offsetArg := len(args)
	query := propertySelect + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", limitArg, offsetArg)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return domain.PropertyPage{}, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return domain.PropertyPage{}, err
		}
		page.Items = append(page.Items, p)
	}
	return page, rows.Err()
}

func scanProperty(row rowScanner) (domain.Property, error) {
	var (
		p domain.Property
		c domain.Category
		a domain.Address
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.Size, &p.Sold,
		&p.CategoryID, &p.AddressID, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.Slug, &c.CreatedAt,
		&a.ID, &a.Street, &a.City, &a.State, &a.Zip, &a.Country, &a.CreatedAt,
	)
	if err != nil {
		return domain.Property{}, err
	}
	p.Category = &c
	p.Address = &a
	return p, nil
}
