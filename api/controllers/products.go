package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/swiftshop/swiftshop-backend/api/responses"
	"github.com/swiftshop/swiftshop-backend/api/validators"
	"github.com/swiftshop/swiftshop-backend/internal/catalog"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
)

type createProductRequest struct {
	Name         string         `json:"name" validate:"required"`
	Price        float64        `json:"price" validate:"gte=0"`
	Description  *string        `json:"description"`
	ImageURL     *string        `json:"image_url"`
	ImageURLs    []string       `json:"image_urls"`
	SizeImages   map[string]any `json:"size_images"`
	SizeColors   map[string]any `json:"size_colors"`
	SizeStock    map[string]int `json:"size_stock"`
	Category     *string        `json:"category"`
	MainCategory *string        `json:"main_category"`
	SubCategory  *string        `json:"sub_category"`
	Attributes   map[string]any `json:"attributes"`
	Stock        int            `json:"stock" validate:"gte=0"`
}

type updateProductRequest struct {
	Name         *string         `json:"name"`
	Price        *float64        `json:"price"`
	Description  *string         `json:"description"`
	ImageURL     *string         `json:"image_url"`
	ImageURLs    *[]string       `json:"image_urls"`
	SizeImages   *map[string]any `json:"size_images"`
	SizeColors   *map[string]any `json:"size_colors"`
	SizeStock    *map[string]int `json:"size_stock"`
	Category     *string         `json:"category"`
	MainCategory *string         `json:"main_category"`
	SubCategory  *string         `json:"sub_category"`
	Attributes   *map[string]any `json:"attributes"`
	Stock        *int            `json:"stock"`
}

// CreateProduct adds a product to the catalog. Admin only. Size
// variant maps arrive in whatever shape the admin panel sends and are
// normalized before storage.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), catalog.CreateProductInput{
			Name:         payload.Name,
			Price:        decimal.NewFromFloat(payload.Price),
			Description:  payload.Description,
			ImageURL:     payload.ImageURL,
			ImageURLs:    payload.ImageURLs,
			SizeImages:   catalog.NormalizeVariantMap(payload.SizeImages),
			SizeColors:   catalog.NormalizeVariantMap(payload.SizeColors),
			SizeStock:    payload.SizeStock,
			Category:     payload.Category,
			MainCategory: payload.MainCategory,
			SubCategory:  payload.SubCategory,
			Attributes:   payload.Attributes,
			Stock:        payload.Stock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ListProducts searches the catalog. Public.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		list, err := svc.List(r.Context(), catalog.ListInput{
			Query:        query.Get("q"),
			MainCategory: query.Get("main_category"),
			SubCategory:  query.Get("sub_category"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetProduct returns one product. Public.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLInt64(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// UpdateProduct applies a partial product mutation. Admin only.
func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLInt64(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			Name:         payload.Name,
			Description:  payload.Description,
			ImageURL:     payload.ImageURL,
			ImageURLs:    payload.ImageURLs,
			SizeStock:    payload.SizeStock,
			Category:     payload.Category,
			MainCategory: payload.MainCategory,
			SubCategory:  payload.SubCategory,
			Attributes:   payload.Attributes,
			Stock:        payload.Stock,
		}
		if payload.Price != nil {
			price := decimal.NewFromFloat(*payload.Price)
			input.Price = &price
		}
		if payload.SizeImages != nil {
			normalized := catalog.NormalizeVariantMap(*payload.SizeImages)
			input.SizeImages = &normalized
		}
		if payload.SizeColors != nil {
			normalized := catalog.NormalizeVariantMap(*payload.SizeColors)
			input.SizeColors = &normalized
		}

		dto, err := svc.Update(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// DeleteProduct removes a product from the catalog. Admin only.
func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLInt64(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
