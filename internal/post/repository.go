// AngelaMos | 2026
// repository.go

package post

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/safehaven/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Post) error
	ListByHaven(ctx context.Context, havenID int64) ([]Post, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Create lets the database assign post_id and date.
func (r *repository) Create(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO haven_posts (haven_id, content)
		VALUES ($1, $2)
		RETURNING post_id, date`

	if err := r.db.QueryRowxContext(ctx, query, p.HavenID, p.Content).
		Scan(&p.ID, &p.Date); err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *repository) ListByHaven(ctx context.Context, havenID int64) ([]Post, error) {
	query := `
		SELECT post_id, haven_id, content, date
		FROM haven_posts
		WHERE haven_id = $1
		ORDER BY date DESC, post_id DESC`

	posts := []Post{}
	if err := r.db.SelectContext(ctx, &posts, query, havenID); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}
