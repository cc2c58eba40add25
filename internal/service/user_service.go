package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bricks-api/internal/domain"
	"bricks-api/internal/repository"
)

// UserService expone consultas y bajas de usuarios.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	return &UserService{logger: logger, users: users}
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// ChangeRole asigna un rol nuevo a un usuario existente.
func (s *UserService) ChangeRole(ctx context.Context, id string, role domain.UserRole) (domain.User, error) {
	switch role {
	case domain.RoleClient, domain.RoleAdmin, domain.RoleSuperAdmin:
	default:
		return domain.User{}, ErrInvalidRole
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.users.UpdateRole(ctx, user.ID, role); err != nil {
		return domain.User{}, err
	}

	s.logger.Info("user role changed",
		zap.String("user_id", user.ID),
		zap.String("role", string(role)),
	)
	user.Role = role
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}
