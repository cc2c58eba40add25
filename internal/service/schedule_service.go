package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bricks-api/internal/domain"
	"bricks-api/internal/repository"
)

// ScheduleService agenda visitas a propiedades.
type ScheduleService struct {
	logger     *zap.Logger
	schedules  repository.ScheduleRepository
	properties repository.PropertyRepository
	clock      Clock
}

func NewScheduleService(logger *zap.Logger, schedules repository.ScheduleRepository, properties repository.PropertyRepository, clock Clock) *ScheduleService {
	if clock == nil {
		clock = SystemClock()
	}
	return &ScheduleService{
		logger:     logger,
		schedules:  schedules,
		properties: properties,
		clock:      clock,
	}
}

// CreateSchedule agenda una visita. Un slot fecha+hora ya tomado para la
// propiedad se rechaza con ErrScheduleTaken.
func (s *ScheduleService) CreateSchedule(ctx context.Context, userID, propertyID string, date time.Time, timeSlot string) (domain.Schedule, error) {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Schedule{}, ErrPropertyNotFound
		}
		return domain.Schedule{}, err
	}

	_, err := s.schedules.FindSlot(ctx, propertyID, date, timeSlot)
	if err == nil {
		return domain.Schedule{}, ErrScheduleTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Schedule{}, err
	}

	schedule := domain.Schedule{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		UserID:     userID,
		Date:       date,
		Time:       timeSlot,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return domain.Schedule{}, err
	}

	s.logger.Info("schedule created",
		zap.String("property_id", propertyID),
		zap.String("user_id", userID),
	)
	return schedule, nil
}

// ListSchedules devuelve las visitas agendadas de una propiedad.
func (s *ScheduleService) ListSchedules(ctx context.Context, propertyID string) ([]domain.Schedule, error) {
	return s.schedules.ListByProperty(ctx, propertyID)
}
