package controllers

import (
	"net/http"

	"github.com/swiftshop/swiftshop-backend/api/middleware"
	"github.com/swiftshop/swiftshop-backend/api/responses"
	"github.com/swiftshop/swiftshop-backend/api/validators"
	"github.com/swiftshop/swiftshop-backend/internal/favorites"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
)

// ListFavorites returns the caller's favorited product IDs.
func ListFavorites(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := svc.List(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ids)
	}
}

// AddFavorite marks a product as favorited. Idempotent.
func AddFavorite(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLInt64(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Add(r.Context(), middleware.UserIDFromContext(r.Context()), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveFavorite unmarks a favorited product. Idempotent.
func RemoveFavorite(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLInt64(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), middleware.UserIDFromContext(r.Context()), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
