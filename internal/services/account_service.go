package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"tracker/internal/core"
	"tracker/internal/log"
	"tracker/internal/store"
)

// AccountService registers users and checks credentials. Passwords are kept
// as bcrypt hashes.
type AccountService struct {
	users  store.UserStore
	cost   int
	logger *log.Logger
}

func NewAccountService(users store.UserStore, bcryptCost int, logger *log.Logger) *AccountService {
	if logger == nil {
		logger = log.Discard()
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{users: users, cost: bcryptCost, logger: logger.WithComponent(log.ComponentAccount)}
}

// Signup creates a user. It fails with core.ErrFieldsRequired or core.ErrUserExists.
func (s *AccountService) Signup(ctx context.Context, su core.Signup) (core.PublicUser, error) {
	if err := su.Validate(); err != nil {
		return core.PublicUser{}, err
	}
	if _, found, err := s.users.FindByEmail(ctx, su.Email); err != nil {
		return core.PublicUser{}, fmt.Errorf("lookup user: %w", err)
	} else if found {
		return core.PublicUser{}, core.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return core.PublicUser{}, &core.ValidationError{Field: "password", Err: err}
	}
	if err != nil {
		return core.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.InsertIfAbsent(ctx, su.Name, su.Email, string(hash))
	if err != nil {
		if errors.Is(err, core.ErrUserExists) {
			return core.PublicUser{}, err
		}
		return core.PublicUser{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.InfoContext(ctx, "User registered", log.FieldOperation, log.OpSignup, "user_id", u.ID)
	return u.Public(), nil
}

// Verify returns the user whose email and password match, or
// core.ErrInvalidCredentials.
func (s *AccountService) Verify(ctx context.Context, email, password string) (core.PublicUser, error) {
	u, found, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return core.PublicUser{}, fmt.Errorf("lookup user: %w", err)
	}
	if !found {
		return core.PublicUser{}, core.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "Login rejected", log.FieldOperation, log.OpLogin, log.FieldErrorType, log.ErrorTypeAuth)
		return core.PublicUser{}, core.ErrInvalidCredentials
	}
	return u.Public(), nil
}
