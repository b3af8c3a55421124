package catalog

import (
	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
)

// ProductDTO is the serialized product shape returned by the API, with
// variant blobs parsed and normalized to their canonical form.
type ProductDTO struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Price        float64             `json:"price"`
	Description  *string             `json:"description"`
	ImageURL     *string             `json:"image_url"`
	ImageURLs    []string            `json:"image_urls,omitempty"`
	SizeImages   map[string][]string `json:"size_images,omitempty"`
	SizeColors   map[string][]string `json:"size_colors,omitempty"`
	SizeStock    map[string]int      `json:"size_stock,omitempty"`
	Category     *string             `json:"category"`
	MainCategory *string             `json:"main_category"`
	SubCategory  *string             `json:"sub_category"`
	Attributes   map[string]any      `json:"attributes,omitempty"`
	Stock        int                 `json:"stock"`
}

// ToProductDTO parses the stored variant blobs into their API shape.
func ToProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}

	var attrs map[string]any
	if parsed := parseAttributes(p.AttributesJSON); parsed != nil {
		attrs = parsed
	}

	return &ProductDTO{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price.InexactFloat64(),
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		ImageURLs:    ParseStringList(p.ImageURLsJSON),
		SizeImages:   ParseVariantMap(p.SizeImagesJSON),
		SizeColors:   ParseVariantMap(p.SizeColorsJSON),
		SizeStock:    ParseSizeStock(p.SizeStockJSON),
		Category:     p.Category,
		MainCategory: p.MainCategory,
		SubCategory:  p.SubCategory,
		Attributes:   attrs,
		Stock:        p.Stock,
	}
}
