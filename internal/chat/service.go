// AngelaMos | 2026
// service.go

package chat

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/safehaven/internal/core"
	"github.com/carterperez-dev/safehaven/internal/haven"
	"github.com/carterperez-dev/safehaven/internal/realtime"
)

type HavenReader interface {
	Get(ctx context.Context, id int64) (*haven.Haven, error)
}

// Publisher fans an event out to every connection in a room.
type Publisher interface {
	Publish(room, event string, data any) int
}

type Service struct {
	repo      Repository
	havens    HavenReader
	publisher Publisher
	validator *validator.Validate
}

func NewService(repo Repository, havens HavenReader, publisher Publisher) *Service {
	return &Service{
		repo:      repo,
		havens:    havens,
		publisher: publisher,
		validator: core.NewValidator(),
	}
}

// Send stores a message and then broadcasts it to the haven room. Any
// authenticated user may write to any existing haven.
func (s *Service) Send(
	ctx context.Context,
	callerID, havenID int64,
	req SendMessageRequest,
) (*Message, error) {
	if _, err := s.havens.Get(ctx, havenID); err != nil {
		return nil, err
	}

	if err := core.ValidateStruct(s.validator, req); err != nil {
		return nil, err
	}

	m := &Message{HavenID: havenID, UserID: callerID, Content: req.Content}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	delivered := s.publisher.Publish(
		realtime.HavenRoom(havenID),
		realtime.EventNewMessage,
		ToMessageResponse(m),
	)
	core.AddSpanEvent(ctx, "chat.broadcast",
		attribute.Int64("haven.id", havenID),
		attribute.Int("chat.delivered", delivered),
	)
	slog.Debug("chat message broadcast",
		"haven_id", havenID,
		"message_id", m.ID,
		"delivered", delivered,
	)

	return m, nil
}

func (s *Service) List(ctx context.Context, havenID int64) ([]Message, error) {
	if _, err := s.havens.Get(ctx, havenID); err != nil {
		return nil, err
	}

	return s.repo.ListByHaven(ctx, havenID)
}
