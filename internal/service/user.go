package service

import (
	"context"
	"fmt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository"
)

var ErrUserNotFound = repository.ErrUserNotFound

// Profile fields a user may edit on their own account. Only admins can
// reassign roles.
var userUpdatableFields = map[string]map[string]bool{
	domain.RoleUser: {
		"first_name":    true,
		"last_name":     true,
		"contact_phone": true,
		"address":       true,
	},
	domain.RoleAdmin: {
		"first_name":    true,
		"last_name":     true,
		"contact_phone": true,
		"address":       true,
		"role":          true,
	},
}

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (domain.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return users, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, updates map[string]interface{}, actor domain.User) (domain.User, error) {
	if !actor.CanAccess(id) {
		return domain.User{}, ErrAccessDenied
	}

	fields := filterFields(actor.Role, userUpdatableFields, updates)
	if len(fields) == 0 {
		return s.GetUser(ctx, id)
	}

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.UpdateFields -> %w", err)
	}

	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
