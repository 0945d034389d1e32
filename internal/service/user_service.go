package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/palace-api/internal/domain"
	"github.com/phrazzld/palace-api/internal/platform/logger"
	"github.com/phrazzld/palace-api/internal/service/auth"
	"github.com/phrazzld/palace-api/internal/store"
)

// UserService provides registration and credential checks.
type UserService interface {
	// Register creates a new user. Returns store.ErrEmailExists when the
	// email is taken and a domain.ValidationError for invalid input.
	Register(ctx context.Context, email, name, password string) (*domain.User, error)

	// Authenticate returns the user whose credentials match.
	// Returns auth.ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByEmail retrieves a user by their email address
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type userServiceImpl struct {
	userStore store.UserStore
	passwords auth.PasswordHasher
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	passwords auth.PasswordHasher,
	logger *slog.Logger,
) (UserService, error) {
	if userStore == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", domain.ErrValidation)
	}
	if passwords == nil {
		return nil, domain.NewValidationError("passwords", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		userStore: userStore,
		passwords: passwords,
		logger:    logger.With(slog.String("component", "user_service")),
	}, nil
}

func (s *userServiceImpl) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(strings.ToLower(strings.TrimSpace(email)), name, password)
	if err != nil {
		log.Debug("invalid registration data", slog.String("error", err.Error()))
		return nil, asValidationError(err)
	}

	user.HashedPassword, err = s.passwords.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "register", "failed to hash password", err)
	}
	user.Password = ""

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration rejected: email exists")
			return nil, store.ErrEmailExists
		}
		log.Error("failed to register user", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "register", "failed to save user", asValidationError(err))
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *userServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login rejected: unknown email")
			return nil, auth.ErrInvalidCredentials
		}
		log.Error("failed to load user for login", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "authenticate", "failed to load user", err)
	}

	if err := s.passwords.Compare(user.HashedPassword, password); err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			log.Error("stored password hash rejected",
				slog.String("user_id", user.ID.String()),
				slog.String("error", err.Error()))
		} else {
			log.Debug("login rejected: password mismatch", slog.String("user_id", user.ID.String()))
		}
		return nil, auth.ErrInvalidCredentials
	}

	return user, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceError("user", "get_user", "failed to retrieve user", err)
	}
	return user, nil
}

func (s *userServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		return nil, NewServiceError("user", "get_user_by_email", "failed to retrieve user", err)
	}
	return user, nil
}
