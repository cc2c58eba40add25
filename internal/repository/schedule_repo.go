package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bricks-api/internal/domain"
)

// ScheduleRepository define el contrato de persistencia para visitas.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule domain.Schedule) error
	FindSlot(ctx context.Context, propertyID string, date time.Time, timeSlot string) (domain.Schedule, error)
	ListByProperty(ctx context.Context, propertyID string) ([]domain.Schedule, error)
}

// PgScheduleRepository implementa ScheduleRepository usando pgxpool.
type PgScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewPgScheduleRepository(pool *pgxpool.Pool) *PgScheduleRepository {
	return &PgScheduleRepository{pool: pool}
}

func (r *PgScheduleRepository) Create(ctx context.Context, schedule domain.Schedule) error {
	const query = `
		INSERT INTO schedules (id, property_id, user_id, date, time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		schedule.ID,
		schedule.PropertyID,
		schedule.UserID,
		schedule.Date,
		schedule.Time,
		schedule.CreatedAt,
	)
	return err
}

func (r *PgScheduleRepository) FindSlot(ctx context.Context, propertyID string, date time.Time, timeSlot string) (domain.Schedule, error) {
	const query = `
		SELECT id, property_id, user_id, date, time, created_at
		FROM schedules
		WHERE property_id = $1 AND date = $2 AND time = $3
	`
	var s domain.Schedule
	err := r.pool.QueryRow(ctx, query, propertyID, date, timeSlot).Scan(
		&s.ID,
		&s.PropertyID,
		&s.UserID,
		&s.Date,
		&s.Time,
		&s.CreatedAt,
	)
	if err != nil {
		return domain.Schedule{}, err
	}
	return s, nil
}

func (r *PgScheduleRepository) ListByProperty(ctx context.Context, propertyID string) ([]domain.Schedule, error) {
	const query = `
		SELECT id, property_id, user_id, date, time, created_at
		FROM schedules
		WHERE property_id = $1
		ORDER BY date, time
	`
	rows, err := r.pool.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []domain.Schedule
	for rows.Next() {
		var s domain.Schedule
		if err := rows.Scan(&s.ID, &s.PropertyID, &s.UserID, &s.Date, &s.Time, &s.CreatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}
