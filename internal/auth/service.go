// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/safehaven/internal/core"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserInfo is what authentication needs to know about an account.
type UserInfo struct {
	PasswordHash string
	Profile      UserResponse
}

type NewUser struct {
	Username         string
	Mail             string
	PasswordHash     string
	ProfileImagePath *string
}

// UserProvider is implemented by the user service. Create reports a taken
// username or mail as a conflict AppError.
type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	GetByMail(ctx context.Context, mail string) (*UserInfo, error)
	Create(ctx context.Context, in NewUser) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type TokenIssuer interface {
	Issue(userID int64) (string, time.Time, error)
}

type Service struct {
	tokens       TokenIssuer
	userProvider UserProvider
}

func NewService(tokens TokenIssuer, userProvider UserProvider) *Service {
	return &Service{
		tokens:       tokens,
		userProvider: userProvider,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, NewUser{
		Username:         req.Username,
		Mail:             req.Mail,
		PasswordHash:     hash,
		ProfileImagePath: req.ProfileImagePath,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	core.AddSpanEvent(ctx, "user.registered",
		attribute.Int64("user.id", user.Profile.ID),
	)

	return s.respond(user, "user registered")
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.lookup(ctx, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.Profile.ID, newHash); err != nil {
			slog.Warn("password rehash failed",
				"user_id", user.Profile.ID,
				"error", err,
			)
		}
	}

	return s.respond(user, "login successful")
}

func (s *Service) lookup(ctx context.Context, req LoginRequest) (*UserInfo, error) {
	if req.Username != "" {
		return s.userProvider.GetByUsername(ctx, req.Username)
	}
	return s.userProvider.GetByMail(ctx, req.Mail)
}

func (s *Service) respond(user *UserInfo, message string) (*AuthResponse, error) {
	token, _, err := s.tokens.Issue(user.Profile.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResponse{
		Message:     message,
		AccessToken: token,
		User:        user.Profile,
	}, nil
}
