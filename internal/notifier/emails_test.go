package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/swiftshop/swiftshop-backend/internal/orders"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
)

func TestTrackingCode(t *testing.T) {
	require.Equal(t, "SW000042", TrackingCode(42))
	require.Equal(t, "SW123456", TrackingCode(123456))
	require.Equal(t, "SW1234567", TrackingCode(1234567), "wide ids keep all digits")
}

func sampleCreatedEvent() orders.OrderCreatedEvent {
	return orders.OrderCreatedEvent{
		OrderID:         42,
		CustomerName:    "Ana Silva",
		CustomerEmail:   "ana@example.com",
		CustomerPhone:   "+258840000000",
		ShippingAddress: "Av. Julius Nyerere, 120, Maputo",
		PaymentMethod:   "M-Pesa",
		OrderedAt:       time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
		Items: []orders.OrderLineEvent{
			{ProductName: "Camisa Azul", Quantity: 2, LineTotal: decimal.RequireFromString("900.00")},
		},
		Subtotal:     decimal.RequireFromString("900.00"),
		ShippingCost: decimal.RequireFromString("50.00"),
		Total:        decimal.RequireFromString("950.00"),
	}
}

func TestBuildOrderConfirmation(t *testing.T) {
	msg := BuildOrderConfirmation(sampleCreatedEvent())

	require.Equal(t, []string{"ana@example.com"}, msg.To)
	require.Equal(t, "Pedido #42 Confirmado - SwiftShop", msg.Subject)
	require.Contains(t, msg.Body, "Olá Ana Silva")
	require.Contains(t, msg.Body, "Camisa Azul x2: 900.00 MT")
	require.Contains(t, msg.Body, "Frete: 50.00 MT")
	require.Contains(t, msg.Body, "Total: 950.00 MT")
	require.Contains(t, msg.Body, "M-Pesa")
}

func TestBuildAdminOrderAlert(t *testing.T) {
	msg := BuildAdminOrderAlert(sampleCreatedEvent(), "loja@swiftshop.co.mz")

	require.Equal(t, []string{"loja@swiftshop.co.mz"}, msg.To)
	require.Equal(t, "Novo Pedido #42 - SwiftShop", msg.Subject)
	require.Contains(t, msg.Body, "Ana Silva <ana@example.com>")
	require.Contains(t, msg.Body, "+258840000000")
	require.Contains(t, msg.Body, "950.00 MT")
}

func statusEvent(status enums.OrderStatus) orders.OrderStatusChangedEvent {
	return orders.OrderStatusChangedEvent{
		OrderID:         42,
		OldStatus:       enums.OrderStatusPending,
		NewStatus:       status,
		CustomerName:    "Ana Silva",
		CustomerEmail:   "ana@example.com",
		ShippingAddress: "Av. Julius Nyerere, 120, Maputo",
		OrderedAt:       time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
		Items: []orders.OrderLineEvent{
			{ProductName: "Camisa Azul", Quantity: 1, LineTotal: decimal.RequireFromString("450.00")},
		},
	}
}

func TestBuildStatusEmailPerStatus(t *testing.T) {
	msg, ok := BuildStatusEmail(statusEvent(enums.OrderStatusProcessing))
	require.True(t, ok)
	require.Contains(t, msg.Subject, "em Processamento")

	msg, ok = BuildStatusEmail(statusEvent(enums.OrderStatusShipped))
	require.True(t, ok)
	require.Contains(t, msg.Subject, "Enviado")
	require.Contains(t, msg.Body, "SW000042")
	require.Contains(t, msg.Body, "3-5 dias úteis")

	msg, ok = BuildStatusEmail(statusEvent(enums.OrderStatusDelivered))
	require.True(t, ok)
	require.Contains(t, msg.Subject, "Entregue")
	require.True(t, strings.Contains(msg.Body, "Av. Julius Nyerere"))

	_, ok = BuildStatusEmail(statusEvent(enums.OrderStatusPending))
	require.False(t, ok, "moving back to pending is silent")
}
