package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/models"
	"github.com/schooldesk/schooldesk-api/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("a user with this email already exists")
	ErrLastAdmin    = errors.New("cannot demote or deactivate the last administrator")
	ErrSelfDemotion = errors.New("administrators cannot change their own role")
)

// UserService manages staff accounts. All operations here are admin-only at
// the route level.
type UserService interface {
	List(ctx context.Context) ([]dto.UserResponse, error)
	Create(ctx context.Context, req dto.UserCreateRequest) (dto.UserResponse, error)
	Update(ctx context.Context, id uint, actor Actor, req dto.UserUpdateRequest) (dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService constructs the user service.
func NewUserService(users repository.UserRepository, validator *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		validator: validator,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return responses, nil
}

func (s *userService) Create(ctx context.Context, req dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	taken, err := s.users.EmailTaken(ctx, req.Email, 0)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if taken {
		return dto.UserResponse{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("staff account created")
	return dto.NewUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, id uint, actor Actor, req dto.UserUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if req.Role != nil && actor.ID == id && *req.Role != user.Role {
		return dto.UserResponse{}, ErrSelfDemotion
	}

	// Keep at least one active admin in the system.
	demoting := req.Role != nil && user.Role == models.RoleAdmin && *req.Role != models.RoleAdmin
	deactivating := req.IsActive != nil && user.Role == models.RoleAdmin && !*req.IsActive
	if demoting || deactivating {
		admins, err := s.users.CountAdmins(ctx)
		if err != nil {
			return dto.UserResponse{}, err
		}
		if admins <= 1 {
			return dto.UserResponse{}, ErrLastAdmin
		}
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return dto.UserResponse{}, err
		}
		updates["password_hash"] = string(hash)
	}

	if len(updates) == 0 {
		return dto.NewUserResponse(user), nil
	}

	updated, err := s.users.Update(ctx, id, updates)
	if err != nil {
		return dto.UserResponse{}, err
	}

	s.logger.Info().Uint("user_id", id).Msg("staff account updated")
	return dto.NewUserResponse(updated), nil
}
