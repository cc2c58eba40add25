package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"bricks-api/internal/domain"
)

// CategoryRepository define el contrato de persistencia para categorias.
type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) error
	GetBySlug(ctx context.Context, slug string) (domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

// PgCategoryRepository implementa CategoryRepository usando pgxpool.
type PgCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPgCategoryRepository(pool *pgxpool.Pool) *PgCategoryRepository {
	return &PgCategoryRepository{pool: pool}
}

func (r *PgCategoryRepository) Create(ctx context.Context, category domain.Category) error {
	const query = `
		INSERT INTO categories (id, name, slug, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		category.ID,
		category.Name,
		category.Slug,
		category.CreatedAt,
	)
	return err
}

func (r *PgCategoryRepository) GetBySlug(ctx context.Context, slug string) (domain.Category, error) {
	const query = `
		SELECT id, name, slug, created_at
		FROM categories
		WHERE slug = $1
	`
	var c domain.Category
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.CreatedAt,
	)
	if err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (r *PgCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `
		SELECT id, name, slug, created_at
		FROM categories
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
