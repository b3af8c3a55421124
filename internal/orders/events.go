package orders

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
)

// PaymentMethod is the only payment channel the storefront offers today.
const PaymentMethod = "M-Pesa"

// OrderLineEvent is one purchased line inside an order event payload.
type OrderLineEvent struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderCreatedEvent is the outbox payload emitted when checkout commits.
// It carries everything the notification worker needs to write the
// confirmation emails without touching the database.
type OrderCreatedEvent struct {
	OrderID         int64            `json:"order_id"`
	CustomerName    string           `json:"customer_name"`
	CustomerEmail   string           `json:"customer_email"`
	CustomerPhone   string           `json:"customer_phone,omitempty"`
	ShippingAddress string           `json:"shipping_address"`
	PaymentMethod   string           `json:"payment_method"`
	OrderedAt       time.Time        `json:"ordered_at"`
	Items           []OrderLineEvent `json:"items"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	ShippingCost    decimal.Decimal  `json:"shipping_cost"`
	Total           decimal.Decimal  `json:"total"`
}

// OrderStatusChangedEvent is the outbox payload emitted when an admin
// moves an order to a different status.
type OrderStatusChangedEvent struct {
	OrderID         int64             `json:"order_id"`
	OldStatus       enums.OrderStatus `json:"old_status"`
	NewStatus       enums.OrderStatus `json:"new_status"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	ShippingAddress string            `json:"shipping_address"`
	OrderedAt       time.Time         `json:"ordered_at"`
	Items           []OrderLineEvent  `json:"items"`
}

// ShippingAddressOf renders the buyer's address as a single line for
// emails and receipts.
func ShippingAddressOf(user *models.User) string {
	if user == nil {
		return "Endereço não informado"
	}
	parts := make([]string, 0, 5)
	for _, field := range []*string{user.Street, user.Number, user.City, user.State, user.Country} {
		if field == nil {
			continue
		}
		if v := strings.TrimSpace(*field); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "Endereço não informado"
	}
	return strings.Join(parts, ", ")
}
