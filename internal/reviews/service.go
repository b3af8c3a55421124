package reviews

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/swiftshop/swiftshop-backend/internal/catalog"
	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
	pkgerrors "github.com/swiftshop/swiftshop-backend/pkg/errors"
)

// CreateReviewInput holds the validated review payload.
type CreateReviewInput struct {
	Rating  int
	Comment *string
}

// ReviewDTO is the serialized review shape, author name included so
// the product page needs no user lookup.
type ReviewDTO struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	UserName  string    `json:"user_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Service exposes product review operations. Reviews are append-only;
// there is no edit or delete.
type Service interface {
	Create(ctx context.Context, productID, userID int64, role enums.UserRole, input CreateReviewInput) (*ReviewDTO, error)
	ListByProduct(ctx context.Context, productID int64) ([]ReviewDTO, error)
}

type service struct {
	repo     *Repository
	products *catalog.Repository
}

// NewService constructs a reviews service instance.
func NewService(repo *Repository, products *catalog.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, products: products}, nil
}

// Create records a client's rating for an existing product.
func (s *service) Create(ctx context.Context, productID, userID int64, role enums.UserRole, input CreateReviewInput) (*ReviewDTO, error) {
	if role != enums.UserRoleClient {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only clients can review products")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	review, err := s.repo.Create(ctx, &models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating review")
	}
	return toReviewDTO(review), nil
}

// ListByProduct returns a product's reviews, newest first.
func (s *service) ListByProduct(ctx context.Context, productID int64) ([]ReviewDTO, error) {
	rows, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing reviews")
	}
	dtos := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *toReviewDTO(&rows[i]))
	}
	return dtos, nil
}

func toReviewDTO(r *models.Review) *ReviewDTO {
	dto := &ReviewDTO{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		dto.UserName = r.User.Name
	}
	return dto
}
