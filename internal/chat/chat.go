// AngelaMos | 2026
// chat.go

package chat

import (
	"time"
)

type Message struct {
	ID       int64     `db:"message_id"`
	HavenID  int64     `db:"haven_id"`
	UserID   int64     `db:"user_id"`
	Content  string    `db:"content"`
	Date     time.Time `db:"date"`
	Username string    `db:"username"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// MessageResponse is both the REST view and the new_message event
// payload.
type MessageResponse struct {
	ID       int64     `json:"message_id"`
	HavenID  int64     `json:"haven_id"`
	UserID   int64     `json:"user_id"`
	Content  string    `json:"content"`
	Date     time.Time `json:"date"`
	Username string    `json:"username"`
}

type SendMessageResponse struct {
	Message     string          `json:"message"`
	ChatMessage MessageResponse `json:"chat_message"`
}

func ToMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:       m.ID,
		HavenID:  m.HavenID,
		UserID:   m.UserID,
		Content:  m.Content,
		Date:     m.Date.UTC(),
		Username: m.Username,
	}
}
