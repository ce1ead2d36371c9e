// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/safehaven/internal/auth"
	"github.com/carterperez-dev/safehaven/internal/core"
)

const (
	msgUsernameExists = "username already exists"
	msgMailExists     = "mail already registered"
)

var _ auth.UserProvider = (*Service)(nil)

type Service struct {
	repo      Repository
	validator *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:      repo,
		validator: core.NewValidator(),
	}
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByMail(
	ctx context.Context,
	mail string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByMail(ctx, mail)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Create checks username before mail so a request colliding on both
// reports the username. The UNIQUE constraints still decide races.
func (s *Service) Create(
	ctx context.Context,
	in auth.NewUser,
) (*auth.UserInfo, error) {
	if err := s.ensureAvailable(ctx, &in.Username, &in.Mail, 0); err != nil {
		return nil, err
	}

	user := &User{
		Username:         in.Username,
		Mail:             in.Mail,
		PasswordHash:     in.PasswordHash,
		ProfileImagePath: in.ProfileImagePath,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, conflictFrom(err)
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) IsPro(ctx context.Context, id int64) (bool, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return user.Pro, nil
}

// UpdateUser applies the present fields of req to the caller's own
// account. A foreign id is refused before the lookup, and the body is
// only validated once the account is known to exist.
func (s *Service) UpdateUser(
	ctx context.Context,
	callerID, id int64,
	req UpdateUserRequest,
) (*User, error) {
	if callerID != id {
		return nil, fmt.Errorf("update user: %w", core.ErrForbidden)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := core.ValidateStruct(s.validator, req); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, req.Username, req.Mail, id); err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Mail != nil {
		user.Mail = *req.Mail
	}
	if req.ProfileImagePath != nil {
		user.ProfileImagePath = req.ProfileImagePath
	}
	if req.Password != nil {
		hash, hashErr := core.HashPassword(*req.Password)
		if hashErr != nil {
			return nil, fmt.Errorf("hash password: %w", hashErr)
		}
		user.PasswordHash = hash
	}
	// Any account may flip its own pro flag; there is no payment check
	// behind it yet.
	if req.Pro != nil {
		user.Pro = *req.Pro
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, conflictFrom(err)
	}

	return user, nil
}

func (s *Service) ensureAvailable(
	ctx context.Context,
	username, mail *string,
	excludeID int64,
) error {
	if username != nil {
		taken, err := s.repo.UsernameTaken(ctx, *username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return core.ConflictError(msgUsernameExists)
		}
	}

	if mail != nil {
		taken, err := s.repo.MailTaken(ctx, *mail, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return core.ConflictError(msgMailExists)
		}
	}

	return nil
}

func conflictFrom(err error) error {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		return core.ConflictError(msgUsernameExists)
	case errors.Is(err, ErrMailTaken):
		return core.ConflictError(msgMailExists)
	case errors.Is(err, core.ErrDuplicateKey):
		return core.ConflictError("user already exists")
	default:
		return err
	}
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		PasswordHash: u.PasswordHash,
		Profile: auth.UserResponse{
			ID:               u.ID,
			Mail:             u.Mail,
			Username:         u.Username,
			ProfileImagePath: u.ProfileImagePath,
			Pro:              u.Pro,
			HavensCount:      u.HavensCount,
		},
	}
}
