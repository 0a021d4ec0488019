package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/logging"
)

type userRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// UserService manages staff accounts. Only admins reach it through the
// router; it does not re-check the caller's role.
type UserService struct {
	users userRepo
}

func NewUserService(users userRepo) *UserService {
	return &UserService{users: users}
}

type CreateUserRequest struct {
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	log := logging.FromContext(ctx)

	if req.Email == "" || req.Name == "" || len(req.Password) < 8 {
		return nil, fmt.Errorf("CreateUser: %w", domain.ErrInvalidRequest)
	}
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("CreateUser: role %q: %w", req.Role, domain.ErrRoleNotAllowed)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("CreateUser: hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         req.Role,
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}

	log.Info("staff user created",
		"user_id", user.ID,
		"email", user.Email,
		"role", user.Role,
	)

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetUser: %w", err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListUsers: %w", err)
	}
	return users, nil
}
