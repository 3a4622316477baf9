package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// CreateUserRequest DTO
type CreateUserRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   *bool  `json:"active"`
}

// UpdateUserRequest DTO. Nil fields are left unchanged; a blank password is ignored.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	FullName *string `json:"fullName"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
}

type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, req CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	fullName := strings.TrimSpace(req.FullName)
	if username == "" || fullName == "" {
		return nil, fmt.Errorf("%w: username and fullName are required", ErrValidation)
	}
	if !utils.IsValidPasswordLength(req.Password, MinPasswordLength) {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	role := models.RoleWaiter
	if req.Role != "" {
		if !models.IsValidRole(req.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
		}
		role = models.Role(req.Role)
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	if err := s.ensureUsernameFree(ctx, username, 0); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: string(hash), FullName: fullName, Role: role, Active: active}
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", ErrValidation)
		}
		if username != user.Username {
			if err := s.ensureUsernameFree(ctx, username, id); err != nil {
				return nil, err
			}
			user.Username = username
		}
	}
	if req.FullName != nil {
		fullName := strings.TrimSpace(*req.FullName)
		if fullName == "" {
			return nil, fmt.Errorf("%w: fullName cannot be empty", ErrValidation)
		}
		user.FullName = fullName
	}
	if req.Role != nil {
		if !models.IsValidRole(*req.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *req.Role)
		}
		user.Role = models.Role(*req.Role)
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != nil && !utils.IsEmpty(*req.Password) {
		if !utils.IsValidPasswordLength(*req.Password, MinPasswordLength) {
			return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrDuplicateKey):
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return ErrAdminDeletion
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}

// ensureUsernameFree fails with ErrUsernameExists if another user (not selfID) holds username.
func (s *userService) ensureUsernameFree(ctx context.Context, username string, selfID int64) error {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check username: %w", err)
	}
	if existing.ID != selfID {
		return ErrUsernameExists
	}
	return nil
}
