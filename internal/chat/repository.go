// AngelaMos | 2026
// repository.go

package chat

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/safehaven/internal/core"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	ListByHaven(ctx context.Context, havenID int64) ([]Message, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Create inserts the message and resolves the author's username in the
// same round trip.
func (r *repository) Create(ctx context.Context, m *Message) error {
	query := `
		WITH inserted AS (
			INSERT INTO chat_messages (haven_id, user_id, content)
			VALUES ($1, $2, $3)
			RETURNING message_id, haven_id, user_id, content, date
		)
		SELECT i.message_id, i.haven_id, i.user_id, i.content, i.date, u.username
		FROM inserted i
		JOIN users u ON u.id = i.user_id`

	if err := r.db.GetContext(ctx, m, query, m.HavenID, m.UserID, m.Content); err != nil {
		return fmt.Errorf("create chat message: %w", err)
	}

	return nil
}

func (r *repository) ListByHaven(ctx context.Context, havenID int64) ([]Message, error) {
	query := `
		SELECT m.message_id, m.haven_id, m.user_id, m.content, m.date, u.username
		FROM chat_messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.haven_id = $1
		ORDER BY m.date ASC, m.message_id ASC`

	messages := []Message{}
	if err := r.db.SelectContext(ctx, &messages, query, havenID); err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}

	return messages, nil
}
