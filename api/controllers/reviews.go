package controllers

import (
	"net/http"

	"github.com/swiftshop/swiftshop-backend/api/middleware"
	"github.com/swiftshop/swiftshop-backend/api/responses"
	"github.com/swiftshop/swiftshop-backend/api/validators"
	"github.com/swiftshop/swiftshop-backend/internal/reviews"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
)

type createReviewRequest struct {
	Rating  int     `json:"rating" validate:"required"`
	Comment *string `json:"comment"`
}

// ListReviews returns a product's reviews, newest first. Public.
func ListReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLInt64(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CreateReview posts a review on a product. Clients only.
func CreateReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLInt64(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), productID,
			middleware.UserIDFromContext(r.Context()),
			middleware.RoleFromContext(r.Context()),
			reviews.CreateReviewInput{Rating: payload.Rating, Comment: payload.Comment})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
