// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/safehaven/internal/core"
)

var (
	ErrUsernameTaken = errors.New("username taken")
	ErrMailTaken     = errors.New("mail taken")
)

const (
	usernameConstraint = "users_username_key"
	mailConstraint     = "users_mail_key"
)

const selectUser = `
		SELECT u.id, u.mail, u.username, u.profile_image_path,
		       u.password_hash, u.pro,
		       (SELECT COUNT(*) FROM havens h WHERE h.user_id = u.id) AS havens_count
		FROM users u`

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByMail(ctx context.Context, mail string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	MailTaken(ctx context.Context, mail string, excludeID int64) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, mail, password_hash, profile_image_path, pro)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.GetContext(ctx, &user.ID, query,
		user.Username,
		user.Mail,
		user.PasswordHash,
		user.ProfileImagePath,
		user.Pro,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", mapUniqueViolation(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, "get user", selectUser+` WHERE u.id = $1`, id)
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	return r.getOne(ctx, "get user by username", selectUser+` WHERE u.username = $1`, username)
}

func (r *repository) GetByMail(ctx context.Context, mail string) (*User, error) {
	return r.getOne(ctx, "get user by mail", selectUser+` WHERE u.mail = $1`, mail)
}

func (r *repository) getOne(
	ctx context.Context,
	op, query string,
	arg any,
) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET username = $2, mail = $3, password_hash = $4,
		    profile_image_path = $5, pro = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Mail,
		user.PasswordHash,
		user.ProfileImagePath,
		user.Pro,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", mapUniqueViolation(err))
	}

	return requireRow(result, "update user")
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return requireRow(result, "update password")
}

func (r *repository) UsernameTaken(
	ctx context.Context,
	username string,
	excludeID int64,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id <> $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username, excludeID); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}

	return exists, nil
}

func (r *repository) MailTaken(
	ctx context.Context,
	mail string,
	excludeID int64,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE mail = $1 AND id <> $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, mail, excludeID); err != nil {
		return false, fmt.Errorf("check mail: %w", err)
	}

	return exists, nil
}

func mapUniqueViolation(err error) error {
	constraint, ok := core.UniqueViolation(err)
	if !ok {
		return err
	}

	switch constraint {
	case usernameConstraint:
		return ErrUsernameTaken
	case mailConstraint:
		return ErrMailTaken
	default:
		return core.ErrDuplicateKey
	}
}

func requireRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
