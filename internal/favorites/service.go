package favorites

import (
	"context"
	"fmt"

	pkgerrors "github.com/swiftshop/swiftshop-backend/pkg/errors"
)

// Service exposes the per-user favorites list. Both mutations are
// idempotent, so the storefront can fire them without reading first.
type Service interface {
	List(ctx context.Context, userID int64) ([]int64, error)
	Add(ctx context.Context, userID, productID int64) error
	Remove(ctx context.Context, userID, productID int64) error
}

type service struct {
	repo *Repository
}

// NewService constructs a favorites service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := s.repo.ListProductIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing favorites")
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (s *service) Add(ctx context.Context, userID, productID int64) error {
	if productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "a product id is required")
	}
	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding favorite")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, userID, productID int64) error {
	if productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "a product id is required")
	}
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing favorite")
	}
	return nil
}
