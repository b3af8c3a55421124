package orders

import (
	"time"

	"github.com/swiftshop/swiftshop-backend/internal/catalog"
	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
)

// CartLine is one product/quantity pair from the checkout payload.
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// PlaceOrderInput holds the validated checkout payload.
type PlaceOrderInput struct {
	Items []CartLine
}

// OrderItemDTO is the serialized order line, with the product embedded so
// the storefront can render the order history without extra lookups.
type OrderItemDTO struct {
	ID        int64               `json:"id"`
	ProductID int64               `json:"product_id"`
	Quantity  int                 `json:"quantity"`
	UnitPrice float64             `json:"unit_price"`
	Product   *catalog.ProductDTO `json:"product,omitempty"`
}

// OrderDTO is the serialized order shape returned by the API.
type OrderDTO struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Status    enums.OrderStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	Items     []OrderItemDTO    `json:"items"`
}

// ToOrderDTO maps the persistence model to its API shape.
func ToOrderDTO(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.InexactFloat64(),
			Product:   catalog.ToProductDTO(item.Product),
		})
	}
	return &OrderDTO{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		Items:     items,
	}
}
