package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"go.uber.org/multierr"

	"github.com/swiftshop/swiftshop-backend/internal/orders"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
	"github.com/swiftshop/swiftshop-backend/pkg/mailer"
	"github.com/swiftshop/swiftshop-backend/pkg/outbox"
)

// Consumer reads order events off the notification subscription and
// turns them into transactional email. Delivery failures are logged
// and the message is acked anyway: email is best-effort and a broken
// SMTP relay must not wedge the queue behind one event.
type Consumer struct {
	mail         mailer.Mailer
	subscription *pubsub.Subscriber
	adminEmail   string
	logg         *logger.Logger
}

// NewConsumer builds the notification consumer.
func NewConsumer(mail mailer.Mailer, subscription *pubsub.Subscriber, adminEmail string, logg *logger.Logger) (*Consumer, error) {
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("notification subscription required")
	}
	if adminEmail == "" {
		return nil, fmt.Errorf("admin email required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		mail:         mail,
		subscription: subscription,
		adminEmail:   adminEmail,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		c.process(ctx, msg)
		msg.Ack()
	})
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) {
	eventType := msg.Attributes["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return
	}
	logCtx = c.logg.WithFields(logCtx, map[string]any{"event_id": envelope.EventID})

	switch enums.OutboxEventType(eventType) {
	case enums.EventOrderCreated:
		c.handleOrderCreated(logCtx, envelope.Data)
	case enums.EventOrderStatusChanged:
		c.handleStatusChanged(logCtx, envelope.Data)
	default:
		c.logg.Info(logCtx, "skipping unhandled event")
	}
}

func (c *Consumer) handleOrderCreated(ctx context.Context, raw json.RawMessage) {
	var event orders.OrderCreatedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		c.logg.Error(ctx, "failed to parse order created payload", err)
		return
	}
	ctx = c.logg.WithFields(ctx, map[string]any{"order_id": event.OrderID})

	err := multierr.Combine(
		c.mail.Send(ctx, BuildOrderConfirmation(event)),
		c.mail.Send(ctx, BuildAdminOrderAlert(event, c.adminEmail)),
	)
	if err != nil {
		c.logg.Error(ctx, "order confirmation delivery incomplete", err)
		return
	}
	c.logg.Info(ctx, "order confirmation emails sent")
}

func (c *Consumer) handleStatusChanged(ctx context.Context, raw json.RawMessage) {
	var event orders.OrderStatusChangedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		c.logg.Error(ctx, "failed to parse status changed payload", err)
		return
	}
	ctx = c.logg.WithFields(ctx, map[string]any{
		"order_id":   event.OrderID,
		"new_status": event.NewStatus.String(),
	})

	message, ok := BuildStatusEmail(event)
	if !ok {
		c.logg.Info(ctx, "status has no customer email")
		return
	}
	if err := c.mail.Send(ctx, message); err != nil {
		c.logg.Error(ctx, "status email delivery failed", err)
		return
	}
	c.logg.Info(ctx, "status email sent")
}
