package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/wellfora/wellfora/internal/forum/domain"
	"github.com/wellfora/wellfora/internal/forum/store"
	"github.com/wellfora/wellfora/pkg/cryptox"
	"github.com/wellfora/wellfora/pkg/idx"
	"github.com/wellfora/wellfora/pkg/jwtx"
	"github.com/wellfora/wellfora/pkg/slogx"
)

var (
	ErrInvalidRegistration = errors.New("invalid registration request")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// AuthService handles registration, login and session token minting.
type AuthService struct {
	Store  store.Store
	Signer jwtx.Signer

	// TokenTTL is the session lifetime. Zero means jwtx.DefaultSessionTTL.
	TokenTTL time.Duration
}

// Register creates a new account and returns the user with a signed
// session token, so registration doubles as the first login.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return domain.User{}, "", ErrInvalidRegistration
	}

	// Check both unique fields up front so the caller learns which one
	// collided; the schema still backstops the race.
	if _, err := s.Store.Users().GetUserByUsername(ctx, username); err == nil {
		return domain.User{}, "", ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check username", slog.Any("error", err))
		return domain.User{}, "", err
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email", slog.Any("error", err))
		return domain.User{}, "", err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		ImageURL:     domain.DefaultProfileImageURL,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrUsernameTaken
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, "", err
	}

	token, err := s.mintToken(user)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, token, nil
}

// Login verifies the password and returns the user with a fresh session
// token. Unknown usernames and wrong passwords are indistinguishable to
// the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login attempt for unknown username",
				slog.String("username", username),
			)
			return domain.User{}, "", ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.User{}, "", err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("login attempt with bad password",
			slog.String("user_id", user.ID),
		)
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.mintToken(user)
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Debug("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

// TTL returns the effective session lifetime.
func (s *AuthService) TTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return jwtx.DefaultSessionTTL
}

func (s *AuthService) mintToken(user domain.User) (string, error) {
	claims := jwtx.NewSessionClaims(
		user.ID, user.Username, user.Email, user.ImageURL,
		"", // issuer is stamped by the signer
		s.TTL(),
		time.Now(),
	)
	return s.Signer.Sign(claims)
}
