package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"tush00nka/bbbab_chat/internal/model"
	"tush00nka/bbbab_chat/internal/pkg/apperr"
	"tush00nka/bbbab_chat/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
	log      *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, log *slog.Logger) UserService {
	return &userService{userRepo: userRepo, log: log}
}

type createUserInput struct {
	Username string `validate:"required,max=255"`
}

func (s *userService) CreateUser(ctx context.Context, username string) (*model.User, error) {
	in := createUserInput{Username: strings.TrimSpace(username)}
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	exists, err := s.userRepo.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, apperr.Internal(err, "failed to check username availability")
	}
	if exists {
		return nil, apperr.Conflict("user with username %s already exists", in.Username)
	}

	user := &model.User{Username: in.Username}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race against a concurrent registration of the same name.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("user with username %s already exists", in.Username)
		}
		return nil, apperr.Internal(err, "failed to create user")
	}

	s.log.Info("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, apperr.Validation("invalid user ID")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, apperr.Internal(err, "failed to load user")
	}

	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list users")
	}
	return users, nil
}
