// Package auth provides the application layer for registration and login
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/alchemorsel/recipeshare/internal/domain/user"
	"github.com/alchemorsel/recipeshare/internal/ports/inbound"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Validator checks tagged request structs.
type Validator interface {
	Validate(s interface{}) error
}

// Service implements inbound.AuthService
type Service struct {
	users     outbound.UserRepository
	validator Validator
	cost      int
	dummyHash []byte
	logger    *zap.Logger
}

// NewService creates a new auth service. cost is the bcrypt work factor used
// for new passwords.
func NewService(users outbound.UserRepository, validator Validator, cost int, logger *zap.Logger) (*Service, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, apperrors.NewInternalError("bcrypt cost out of range")
	}

	// compared against when the username is unknown
	dummy, err := bcrypt.GenerateFromPassword([]byte("recipeshare-timing-guard"), cost)
	if err != nil {
		return nil, err
	}

	return &Service{
		users:     users,
		validator: validator,
		cost:      cost,
		dummyHash: dummy,
		logger:    logger.Named("auth-service"),
	}, nil
}

// Register creates a new account and returns its id
func (s *Service) Register(ctx context.Context, cmd inbound.RegisterCommand) (int64, error) {
	if err := s.validator.Validate(cmd); err != nil {
		return 0, err
	}

	username := strings.TrimSpace(cmd.Username)
	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return 0, apperrors.NewUsernameAlreadyExistsError(username)
	case !errors.Is(err, user.ErrUserNotFound):
		return 0, apperrors.NewDatabaseError("find user", err)
	}

	u, err := user.NewUser(user.Profile{
		Username:  username,
		FirstName: strings.TrimSpace(cmd.FirstName),
		LastName:  strings.TrimSpace(cmd.LastName),
		Country:   strings.TrimSpace(cmd.Country),
		Email:     strings.TrimSpace(cmd.Email),
	}, cmd.Password, s.cost)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameRequired):
			return 0, fieldError("username", "required", err)
		case errors.Is(err, user.ErrPasswordRequired):
			return 0, fieldError("password", "required", err)
		case errors.Is(err, user.ErrPasswordTooLong):
			return 0, fieldError("password", "max", err)
		}
		return 0, apperrors.Wrap(err, "Failed to create user")
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return 0, apperrors.NewUsernameAlreadyExistsError(username)
		}
		return 0, apperrors.NewDatabaseError("create user", err)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", u.ID()),
		zap.String("username", u.Username()),
	)
	return u.ID(), nil
}

// Login checks credentials and returns the user's id. Unknown usernames and
// wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, cmd inbound.LoginCommand) (int64, error) {
	if err := s.validator.Validate(cmd); err != nil {
		return 0, err
	}

	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(cmd.Username))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(cmd.Password))
			return 0, apperrors.NewInvalidCredentialsError()
		}
		return 0, apperrors.NewDatabaseError("find user", err)
	}

	if err := u.CheckPassword(cmd.Password); err != nil {
		s.logger.Debug("Password mismatch", zap.Int64("user_id", u.ID()))
		return 0, apperrors.NewInvalidCredentialsError()
	}

	s.logger.Info("User logged in", zap.Int64("user_id", u.ID()))
	return u.ID(), nil
}

// Authenticate reports whether userID still names an existing account
func (s *Service) Authenticate(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return false, apperrors.NewDatabaseError("check user", err)
	}
	return ok, nil
}

func fieldError(field, tag string, err error) error {
	return apperrors.NewValidationErrors([]apperrors.ValidationError{
		{Field: field, Tag: tag, Message: err.Error()},
	})
}

var _ inbound.AuthService = (*Service)(nil)
