package service

import (
	"context"
	"net/mail"
	"strings"

	"edulearn/internal/auth"
	"edulearn/internal/model"
	"edulearn/internal/repository"

	"github.com/rs/zerolog"
)

const minPasswordLength = 8

type userService struct {
	repo   repository.UserRepository
	logger zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// Register creates an account. Admins are provisioned out of band and cannot self-register.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, model.Validationf("email is invalid")
	}
	if len(req.Password) < minPasswordLength {
		return nil, model.Validationf("password must be at least 8 characters")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, model.Validationf("full name is required")
	}

	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}
	if role != model.RoleStudent && role != model.RoleInstructor {
		return nil, model.ErrInvalidRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(role)).Msg("user registered")
	return user, nil
}

func (s *userService) Me(ctx context.Context, actor model.Actor) (*model.User, error) {
	return s.repo.GetByID(ctx, actor.UserID)
}

func (s *userService) List(ctx context.Context, actor model.Actor, limit, offset int) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, model.ErrForbidden
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *userService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	if !actor.IsAdmin() {
		return model.ErrForbidden
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Int64("by", actor.UserID).Msg("user deleted")
	return nil
}
