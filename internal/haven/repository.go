// AngelaMos | 2026
// repository.go

package haven

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/safehaven/internal/core"
)

const havenColumns = `haven_id, user_id, name, latitude, longitude, radius`

type Repository interface {
	Create(ctx context.Context, h *Haven) error
	CreateWithinQuota(ctx context.Context, h *Haven, limit int) (Quota, error)
	CountByOwner(ctx context.Context, userID int64) (int, error)
	GetByID(ctx context.Context, id int64) (*Haven, error)
	ListByOwner(ctx context.Context, userID int64) ([]Haven, error)
	Update(ctx context.Context, h *Haven) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, h *Haven) error {
	return insertHaven(ctx, r.db, h)
}

func insertHaven(ctx context.Context, db core.DBTX, h *Haven) error {
	query := `
		INSERT INTO havens (user_id, name, latitude, longitude, radius)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING haven_id`

	err := db.GetContext(ctx, &h.ID, query,
		h.UserID,
		h.Name,
		h.Latitude,
		h.Longitude,
		h.Radius,
	)
	if err != nil {
		return fmt.Errorf("create haven: %w", err)
	}

	return nil
}

// CreateWithinQuota counts and inserts in one transaction while holding
// the owner's row lock, so concurrent creates cannot overshoot limit. The
// returned Quota reflects the state before the insert.
func (r *repository) CreateWithinQuota(
	ctx context.Context,
	h *Haven,
	limit int,
) (Quota, error) {
	q := Quota{Limit: limit}

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &q.IsPro,
			`SELECT pro FROM users WHERE id = $1 FOR UPDATE`, h.UserID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lock owner: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock owner: %w", err)
		}

		q.Current, err = countByOwner(ctx, tx, h.UserID)
		if err != nil {
			return err
		}

		if !q.CanCreate() {
			return fmt.Errorf("create haven: %w", core.ErrQuotaExceeded)
		}

		return insertHaven(ctx, tx, h)
	})

	return q, err
}

func (r *repository) CountByOwner(ctx context.Context, userID int64) (int, error) {
	return countByOwner(ctx, r.db, userID)
}

func countByOwner(ctx context.Context, db core.DBTX, userID int64) (int, error) {
	var n int
	err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM havens WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("count havens: %w", err)
	}
	return n, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Haven, error) {
	query := `SELECT ` + havenColumns + ` FROM havens WHERE haven_id = $1`

	var h Haven
	err := r.db.GetContext(ctx, &h, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get haven: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get haven: %w", err)
	}

	return &h, nil
}

func (r *repository) ListByOwner(ctx context.Context, userID int64) ([]Haven, error) {
	query := `SELECT ` + havenColumns + ` FROM havens WHERE user_id = $1 ORDER BY haven_id`

	havens := []Haven{}
	if err := r.db.SelectContext(ctx, &havens, query, userID); err != nil {
		return nil, fmt.Errorf("list havens: %w", err)
	}

	return havens, nil
}

func (r *repository) Update(ctx context.Context, h *Haven) error {
	query := `
		UPDATE havens
		SET name = $2, latitude = $3, longitude = $4, radius = $5
		WHERE haven_id = $1`

	result, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.Name,
		h.Latitude,
		h.Longitude,
		h.Radius,
	)
	if err != nil {
		return fmt.Errorf("update haven: %w", err)
	}

	return requireRow(result, "update haven")
}

// Delete relies on the foreign keys to cascade posts and chat messages.
func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM havens WHERE haven_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete haven: %w", err)
	}

	return requireRow(result, "delete haven")
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
