package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/nkazarin/noteboard/internal/apperror"
	"github.com/nkazarin/noteboard/internal/auth"
	"github.com/nkazarin/noteboard/internal/model"
	"github.com/nkazarin/noteboard/internal/repository"
)

// Username and password limits for local signup.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
	MinPasswordLength = 8
)

// usernamePattern keeps usernames URL- and log-safe.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// AuthService handles signup, login and the GitHub OAuth path. Both login
// flavours end the same way: a signed session token the handler puts in a
// cookie.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// AuthResult is what a successful signup or login yields.
type AuthResult struct {
	User  *model.User
	Token string
}

// NewAuthService creates an AuthService.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{users: users, passwords: passwords, tokens: tokens, logger: logger}
}

// Signup registers a local account and logs it in.
//
// A taken username comes back as a field-level validation error so the signup
// form can re-render with the message next to the field, the same shape as
// any other form error.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength))
	}
	if !usernamePattern.MatchString(username) {
		return nil, apperror.ValidationFailed("username",
			"username may only contain letters, digits, dots, dashes and underscores")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password is not usable")
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.ValidationFailed("username", "this username is already taken")
		}
		s.logger.Error("failed to create user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user signed up", slog.String("username", username))
	return &AuthResult{User: user, Token: token}, nil
}

// Login checks local credentials and issues a session token.
//
// Any failure — unknown username or wrong password — returns the same
// Unauthorized error with the same message, so a caller cannot tell which
// half was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	const failed = "invalid username or password"

	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(failed)
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if user.PasswordHash == "" {
		// GitHub-only account with no local password.
		return nil, apperror.Unauthorized(failed)
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized(failed)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", slog.String("username", user.Username))
	return &AuthResult{User: user, Token: token}, nil
}

// LoginOrRegisterGitHub completes the OAuth callback: an account linked to
// this GitHub ID is logged in, a new visitor gets an account created on the
// spot. Either way a session token comes back.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil || ghUser.ID == 0 {
		return nil, apperror.Unauthorized("github login failed")
	}

	user := &model.User{
		Username: ghUser.Login,
		GitHubID: &ghUser.ID,
	}
	if err := s.users.UpsertByGitHubID(ctx, user); err != nil {
		s.logger.Error("failed to upsert github user",
			slog.Int64("github_id", ghUser.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("upserting github user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("github login", slog.String("username", user.Username))
	return &AuthResult{User: user, Token: token}, nil
}

// GetUser loads a user by ID, for showing who is logged in.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetUserByID(ctx, id)
}
