package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	pkgerrors "github.com/swiftshop/swiftshop-backend/pkg/errors"
)

// Service exposes catalog management and lookup operations.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, productID int64, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, productID int64) error
	Get(ctx context.Context, productID int64) (*ProductDTO, error)
	List(ctx context.Context, input ListInput) ([]ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name         string
	Price        decimal.Decimal
	Description  *string
	ImageURL     *string
	ImageURLs    []string
	SizeImages   map[string][]string
	SizeColors   map[string][]string
	SizeStock    map[string]int
	Category     *string
	MainCategory *string
	SubCategory  *string
	Attributes   map[string]any
	Stock        int
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name         *string
	Price        *decimal.Decimal
	Description  *string
	ImageURL     *string
	ImageURLs    *[]string
	SizeImages   *map[string][]string
	SizeColors   *map[string][]string
	SizeStock    *map[string]int
	Category     *string
	MainCategory *string
	SubCategory  *string
	Attributes   *map[string]any
	Stock        *int
}

// ListInput carries the catalog search filters.
type ListInput struct {
	Query        string
	MainCategory string
	SubCategory  string
}

// service implements the catalog service.
type service struct {
	repo      *Repository
	whitelist AttributeWhitelist
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, whitelist AttributeWhitelist) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if whitelist == nil {
		whitelist = DefaultAttributeWhitelist()
	}
	return &service{repo: repo, whitelist: whitelist}, nil
}

// Create validates and persists a new product with sanitized attributes.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	attrs := SanitizeAttributes(s.whitelist, input.MainCategory, input.SubCategory, input.Attributes)

	product := &models.Product{
		Name:         input.Name,
		Price:        input.Price,
		Description:  input.Description,
		ImageURL:     input.ImageURL,
		Category:     input.Category,
		MainCategory: input.MainCategory,
		SubCategory:  input.SubCategory,
		Stock:        input.Stock,
	}

	var err error
	if product.ImageURLsJSON, err = EncodeJSON(input.ImageURLs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding image urls")
	}
	if product.SizeImagesJSON, err = EncodeJSON(input.SizeImages); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding size images")
	}
	if product.SizeColorsJSON, err = EncodeJSON(input.SizeColors); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding size colors")
	}
	if product.SizeStockJSON, err = EncodeJSON(input.SizeStock); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding size stock")
	}
	if product.AttributesJSON, err = EncodeJSON(attrs); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding attributes")
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return ToProductDTO(created), nil
}

// Update applies a partial mutation to an existing product.
func (s *service) Update(ctx context.Context, productID int64, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		product.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.Category != nil {
		product.Category = input.Category
	}
	if input.MainCategory != nil {
		product.MainCategory = input.MainCategory
	}
	if input.SubCategory != nil {
		product.SubCategory = input.SubCategory
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.Stock = *input.Stock
	}

	if input.ImageURLs != nil {
		if product.ImageURLsJSON, err = EncodeJSON(*input.ImageURLs); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding image urls")
		}
	}
	if input.SizeImages != nil {
		if product.SizeImagesJSON, err = EncodeJSON(*input.SizeImages); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding size images")
		}
	}
	if input.SizeColors != nil {
		if product.SizeColorsJSON, err = EncodeJSON(*input.SizeColors); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding size colors")
		}
	}
	if input.SizeStock != nil {
		if product.SizeStockJSON, err = EncodeJSON(*input.SizeStock); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding size stock")
		}
	}
	if input.Attributes != nil {
		attrs := SanitizeAttributes(s.whitelist, product.MainCategory, product.SubCategory, *input.Attributes)
		if product.AttributesJSON, err = EncodeJSON(attrs); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding attributes")
		}
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return ToProductDTO(saved), nil
}

// Delete removes the product.
func (s *service) Delete(ctx context.Context, productID int64) error {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

// Get returns a single product.
func (s *service) Get(ctx context.Context, productID int64) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToProductDTO(product), nil
}

// List searches the catalog. The name filter runs in SQL; category filters
// use diacritic-folded comparison so "vestuario" matches "Vestuário".
// Legacy rows with a sub category but no main category still surface under
// Vestuário, the original top-level category before the taxonomy split.
func (s *service) List(ctx context.Context, input ListInput) ([]ProductDTO, error) {
	products, err := s.repo.List(ctx, input.Query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	if mc := Fold(input.MainCategory); mc != "" {
		filtered := products[:0]
		for _, p := range products {
			if foldPtr(p.MainCategory) == mc {
				filtered = append(filtered, p)
				continue
			}
			if mc == "vestuario" && p.MainCategory == nil && p.SubCategory != nil {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	if sc := Fold(input.SubCategory); sc != "" {
		filtered := products[:0]
		for _, p := range products {
			if foldPtr(p.SubCategory) == sc {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *ToProductDTO(&products[i]))
	}
	return dtos, nil
}

func (s *service) loadProduct(ctx context.Context, productID int64) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}
