// AngelaMos | 2026
// service.go

package post

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/safehaven/internal/core"
	"github.com/carterperez-dev/safehaven/internal/haven"
)

// HavenGuard is the slice of the haven service posts depend on.
type HavenGuard interface {
	Get(ctx context.Context, id int64) (*haven.Haven, error)
	Owned(ctx context.Context, callerID, id int64) (*haven.Haven, error)
}

type Service struct {
	repo      Repository
	havens    HavenGuard
	validator *validator.Validate
}

func NewService(repo Repository, havens HavenGuard) *Service {
	return &Service{
		repo:      repo,
		havens:    havens,
		validator: core.NewValidator(),
	}
}

// Create publishes to a haven feed. Only the haven owner may post; a
// missing haven is reported before ownership, and both before the body.
func (s *Service) Create(
	ctx context.Context,
	callerID, havenID int64,
	req CreatePostRequest,
) (*Post, error) {
	if _, err := s.havens.Owned(ctx, callerID, havenID); err != nil {
		return nil, err
	}

	if err := core.ValidateStruct(s.validator, req); err != nil {
		return nil, err
	}

	p := &Post{HavenID: havenID, Content: req.Content}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) List(ctx context.Context, havenID int64) ([]Post, error) {
	if _, err := s.havens.Get(ctx, havenID); err != nil {
		return nil, err
	}

	return s.repo.ListByHaven(ctx, havenID)
}
