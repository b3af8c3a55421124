package receipts

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/swiftshop/swiftshop-backend/internal/orders"
	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
)

// Mozambique runs on Central Africa Time year-round; receipts print
// order timestamps in that zone.
var mozambiqueTZ = time.FixedZone("CAT", 2*60*60)

// ItemData is one purchased line on the receipt.
type ItemData struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// Data carries everything the PDF needs, already denormalized.
type Data struct {
	OrderID         int64
	OrderedAt       time.Time
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	PaymentMethod   string
	Items           []ItemData
	Subtotal        decimal.Decimal
	ShippingCost    decimal.Decimal
	Total           decimal.Decimal
}

// Filename names the download for one order's receipt.
func Filename(orderID int64) string {
	return fmt.Sprintf("recibo_pedido_%d.pdf", orderID)
}

// FormatCurrency renders an amount in meticais with thousands
// separators, e.g. "1,250.00 MT".
func FormatCurrency(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	b.WriteString(" MT")
	return b.String()
}

// BuildData flattens a fully loaded order into the receipt payload.
// The order must come with User, Items and Items.Product attached.
func BuildData(order *models.Order, shippingCost decimal.Decimal) *Data {
	data := &Data{
		OrderID:       order.ID,
		OrderedAt:     order.CreatedAt.In(mozambiqueTZ),
		PaymentMethod: orders.PaymentMethod,
		ShippingCost:  shippingCost.Round(2),
	}

	if order.User != nil {
		data.CustomerName = order.User.Name
		data.CustomerEmail = order.User.Email
		if order.User.Phone != nil && strings.TrimSpace(*order.User.Phone) != "" {
			data.CustomerPhone = *order.User.Phone
		}
	}
	if data.CustomerPhone == "" {
		data.CustomerPhone = "Não informado"
	}
	data.ShippingAddress = orders.ShippingAddressOf(order.User)

	subtotal := decimal.Zero
	for i := range order.Items {
		item := &order.Items[i]
		name := fmt.Sprintf("produto #%d", item.ProductID)
		if item.Product != nil {
			name = item.Product.Name
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		data.Items = append(data.Items, ItemData{
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Round(2),
			LineTotal:   lineTotal.Round(2),
		})
		subtotal = subtotal.Add(lineTotal)
	}
	data.Subtotal = subtotal.Round(2)
	data.Total = subtotal.Add(shippingCost).Round(2)
	return data
}
