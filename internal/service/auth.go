// Package service contains the business logic layer of the application.
//
// Handlers parse HTTP and validate request shapes; services enforce the
// domain rules and orchestrate repositories; repositories talk SQL. Every
// service takes its repositories as interfaces so tests can swap in
// in-memory fakes.
package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arif/devnetwork/internal/apperror"
	"github.com/arif/devnetwork/internal/auth"
	"github.com/arif/devnetwork/internal/model"
	"github.com/arif/devnetwork/internal/repository"
)

// AuthService handles registration, login and current-user lookup.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates an account and returns a signed token for it.
//
// The avatar is a gravatar URL derived from the email, captured once here —
// posts and comments will snapshot it, so it behaves like any other
// display field.
//
// Duplicate emails surface as ErrConflict from the repository (the UNIQUE
// constraint is the authoritative check, so two racing registrations can't
// both win).
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	email = normalizeEmail(email)

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return "", fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		AvatarURL:    gravatarURL(email),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return token, nil
}

// Login verifies credentials and returns a signed token.
//
// An unknown email fails with a validation error (400) while a wrong
// password fails unauthorized (401) — both with the same message, so an
// attacker probing for accounts gets no wording difference, only the
// status the API has always used for each case.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Only an absent account is a credentials problem; a store
		// failure must stay a server error, not a 400.
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.ValidationFailed("email", "Invalid Credentials")
		}
		return "", fmt.Errorf("service/auth: looking up user by email: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", apperror.Unauthorized("Invalid Credentials")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return token, nil
}

// CurrentUser returns the account for an authenticated user ID. The JSON
// model never exposes the password hash.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}
	return s.users.GetByID(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// gravatarURL builds the gravatar address for an email: md5 of the
// normalized address, 200px, rated g, with the mystery-person default.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=g&d=mm", sum)
}
