// AngelaMos | 2026
// service.go

package haven

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/safehaven/internal/config"
	"github.com/carterperez-dev/safehaven/internal/core"
)

// AccountReader resolves the pro flag of a user.
type AccountReader interface {
	IsPro(ctx context.Context, userID int64) (bool, error)
}

type Service struct {
	repo      Repository
	accounts  AccountReader
	cfg       config.HavenConfig
	validator *validator.Validate
}

func NewService(
	repo Repository,
	accounts AccountReader,
	cfg config.HavenConfig,
) *Service {
	return &Service{
		repo:      repo,
		accounts:  accounts,
		cfg:       cfg,
		validator: core.NewValidator(),
	}
}

func (s *Service) Quota(ctx context.Context, userID int64) (Quota, error) {
	q := Quota{Limit: s.cfg.FreeLimit}

	pro, err := s.accounts.IsPro(ctx, userID)
	if err != nil {
		return q, fmt.Errorf("resolve account: %w", err)
	}
	q.IsPro = pro

	q.Current, err = s.repo.CountByOwner(ctx, userID)
	if err != nil {
		return q, err
	}

	return q, nil
}

// Create enforces the free haven limit. On success the returned Quota
// already counts the new haven. When the limit is hit the error wraps
// core.ErrQuotaExceeded and the Quota is still populated.
//
// Without StrictQuota the count and the insert are separate statements,
// so two concurrent requests can both pass the check.
func (s *Service) Create(
	ctx context.Context,
	userID int64,
	req CreateHavenRequest,
) (*Haven, Quota, error) {
	h := &Haven{
		UserID:    userID,
		Name:      req.Name,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Radius:    *req.Radius,
	}

	var (
		q   Quota
		err error
	)
	if s.cfg.StrictQuota {
		q, err = s.repo.CreateWithinQuota(ctx, h, s.cfg.FreeLimit)
		if err != nil {
			return nil, q, err
		}
	} else {
		q, err = s.Quota(ctx, userID)
		if err != nil {
			return nil, q, err
		}
		if !q.CanCreate() {
			return nil, q, fmt.Errorf("create haven: %w", core.ErrQuotaExceeded)
		}
		if err := s.repo.Create(ctx, h); err != nil {
			return nil, q, err
		}
	}

	q.Current++
	core.AddSpanEvent(ctx, "haven.created",
		attribute.Int64("haven.id", h.ID),
		attribute.Int("haven.owned", q.Current),
	)

	return h, q, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Haven, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]Haven, error) {
	return s.repo.ListByOwner(ctx, userID)
}

// Owned loads a haven and checks that callerID owns it. A missing haven
// wins over a foreign one.
func (s *Service) Owned(ctx context.Context, callerID, id int64) (*Haven, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !h.OwnedBy(callerID) {
		return nil, fmt.Errorf("haven %d: %w", id, core.ErrForbidden)
	}

	return h, nil
}

// Update reports a missing haven before ownership, and both before the
// body is validated.
func (s *Service) Update(
	ctx context.Context,
	callerID, id int64,
	req UpdateHavenRequest,
) (*Haven, error) {
	h, err := s.Owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if err := core.ValidateStruct(s.validator, req); err != nil {
		return nil, err
	}

	if req.Name != nil {
		h.Name = *req.Name
	}
	if req.Latitude != nil {
		h.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		h.Longitude = *req.Longitude
	}
	if req.Radius != nil {
		h.Radius = *req.Radius
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}

	return h, nil
}

func (s *Service) Delete(ctx context.Context, callerID, id int64) error {
	if _, err := s.Owned(ctx, callerID, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
