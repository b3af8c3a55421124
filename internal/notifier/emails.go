package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/swiftshop/swiftshop-backend/internal/orders"
	"github.com/swiftshop/swiftshop-backend/internal/receipts"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
	"github.com/swiftshop/swiftshop-backend/pkg/mailer"
)

// EstimatedDelivery is the delivery window quoted in shipping emails.
const EstimatedDelivery = "3-5 dias úteis"

// TrackingCode derives the shipment tracking reference from the order
// id, e.g. order 42 becomes SW000042.
func TrackingCode(orderID int64) string {
	return fmt.Sprintf("SW%06d", orderID)
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

func itemLines(items []orders.OrderLineEvent) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "  - %s x%d: %s\n", item.ProductName, item.Quantity, receipts.FormatCurrency(item.LineTotal))
	}
	return b.String()
}

// BuildOrderConfirmation writes the customer's order confirmation.
func BuildOrderConfirmation(event orders.OrderCreatedEvent) mailer.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s,\n\n", event.CustomerName)
	fmt.Fprintf(&b, "Recebemos o seu pedido #%d em %s.\n\n", event.OrderID, formatDate(event.OrderedAt))
	b.WriteString("Itens:\n")
	b.WriteString(itemLines(event.Items))
	fmt.Fprintf(&b, "\nSubtotal: %s\n", receipts.FormatCurrency(event.Subtotal))
	fmt.Fprintf(&b, "Frete: %s\n", receipts.FormatCurrency(event.ShippingCost))
	fmt.Fprintf(&b, "Total: %s\n\n", receipts.FormatCurrency(event.Total))
	fmt.Fprintf(&b, "Método de pagamento: %s\n", event.PaymentMethod)
	fmt.Fprintf(&b, "Endereço de entrega: %s\n\n", event.ShippingAddress)
	b.WriteString("Obrigado por comprar na SwiftShop!\n")

	return mailer.Message{
		To:      []string{event.CustomerEmail},
		Subject: fmt.Sprintf("Pedido #%d Confirmado - SwiftShop", event.OrderID),
		Body:    b.String(),
	}
}

// BuildAdminOrderAlert writes the new-order alert for the store admin.
func BuildAdminOrderAlert(event orders.OrderCreatedEvent, adminEmail string) mailer.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Novo pedido #%d recebido em %s.\n\n", event.OrderID, formatDate(event.OrderedAt))
	fmt.Fprintf(&b, "Cliente: %s <%s>\n", event.CustomerName, event.CustomerEmail)
	if event.CustomerPhone != "" {
		fmt.Fprintf(&b, "Telefone: %s\n", event.CustomerPhone)
	}
	fmt.Fprintf(&b, "Endereço: %s\n\n", event.ShippingAddress)
	b.WriteString("Itens:\n")
	b.WriteString(itemLines(event.Items))
	fmt.Fprintf(&b, "\nTotal: %s (%s)\n", receipts.FormatCurrency(event.Total), event.PaymentMethod)

	return mailer.Message{
		To:      []string{adminEmail},
		Subject: fmt.Sprintf("Novo Pedido #%d - SwiftShop", event.OrderID),
		Body:    b.String(),
	}
}

// BuildStatusEmail writes the status update email for the customer.
// Only processing, shipped and delivered produce mail; every other
// transition returns false.
func BuildStatusEmail(event orders.OrderStatusChangedEvent) (mailer.Message, bool) {
	switch event.NewStatus {
	case enums.OrderStatusProcessing:
		return buildProcessingEmail(event), true
	case enums.OrderStatusShipped:
		return buildShippedEmail(event), true
	case enums.OrderStatusDelivered:
		return buildDeliveredEmail(event), true
	default:
		return mailer.Message{}, false
	}
}

func buildProcessingEmail(event orders.OrderStatusChangedEvent) mailer.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s,\n\n", event.CustomerName)
	fmt.Fprintf(&b, "O seu pedido #%d, feito em %s, está em processamento.\n\n", event.OrderID, formatDate(event.OrderedAt))
	b.WriteString("Itens:\n")
	b.WriteString(itemLines(event.Items))
	b.WriteString("\nAvisaremos assim que for enviado.\n")

	return mailer.Message{
		To:      []string{event.CustomerEmail},
		Subject: fmt.Sprintf("Pedido #%d em Processamento - SwiftShop", event.OrderID),
		Body:    b.String(),
	}
}

func buildShippedEmail(event orders.OrderStatusChangedEvent) mailer.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s,\n\n", event.CustomerName)
	fmt.Fprintf(&b, "O seu pedido #%d foi enviado!\n\n", event.OrderID)
	fmt.Fprintf(&b, "Código de rastreio: %s\n", TrackingCode(event.OrderID))
	fmt.Fprintf(&b, "Entrega estimada: %s\n", EstimatedDelivery)
	fmt.Fprintf(&b, "Endereço de entrega: %s\n\n", event.ShippingAddress)
	b.WriteString("Itens:\n")
	b.WriteString(itemLines(event.Items))

	return mailer.Message{
		To:      []string{event.CustomerEmail},
		Subject: fmt.Sprintf("Pedido #%d Enviado - SwiftShop", event.OrderID),
		Body:    b.String(),
	}
}

func buildDeliveredEmail(event orders.OrderStatusChangedEvent) mailer.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s,\n\n", event.CustomerName)
	fmt.Fprintf(&b, "O seu pedido #%d foi entregue em %s.\n\n", event.OrderID, event.ShippingAddress)
	b.WriteString("Itens:\n")
	b.WriteString(itemLines(event.Items))
	b.WriteString("\nEsperamos que aproveite a sua compra. Conte-nos o que achou deixando uma avaliação!\n")

	return mailer.Message{
		To:      []string{event.CustomerEmail},
		Subject: fmt.Sprintf("Pedido #%d Entregue - SwiftShop", event.OrderID),
		Body:    b.String(),
	}
}
