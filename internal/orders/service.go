package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/swiftshop/swiftshop-backend/internal/catalog"
	"github.com/swiftshop/swiftshop-backend/internal/users"
	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
	pkgerrors "github.com/swiftshop/swiftshop-backend/pkg/errors"
	"github.com/swiftshop/swiftshop-backend/pkg/outbox"
)

// txRunner runs a closure inside one database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// outboxPublisher queues a domain event inside the caller's transaction.
type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes checkout and order management operations.
type Service interface {
	Place(ctx context.Context, userID int64, role enums.UserRole, input PlaceOrderInput) (*OrderDTO, error)
	List(ctx context.Context, requesterID int64, requesterRole enums.UserRole) ([]OrderDTO, error)
	GetDetail(ctx context.Context, orderID, requesterID int64, requesterRole enums.UserRole) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status enums.OrderStatus, actorID int64) (*OrderDTO, error)
	Delete(ctx context.Context, orderID int64) error
}

// service implements the orders service.
type service struct {
	repo         *Repository
	products     *catalog.Repository
	userRepo     *users.Repository
	tx           txRunner
	outbox       outboxPublisher
	shippingCost decimal.Decimal
}

// NewService constructs an orders service instance.
func NewService(
	repo *Repository,
	products *catalog.Repository,
	userRepo *users.Repository,
	tx txRunner,
	publisher outboxPublisher,
	shippingCost decimal.Decimal,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if shippingCost.IsNegative() {
		return nil, fmt.Errorf("shipping cost cannot be negative")
	}
	return &service{
		repo:         repo,
		products:     products,
		userRepo:     userRepo,
		tx:           tx,
		outbox:       publisher,
		shippingCost: shippingCost,
	}, nil
}

// Place runs checkout as one transaction: the order and its lines are
// created, every line's stock is decremented under a guard, and the
// confirmation event is queued. Any short line rolls the whole order
// back, so stock is never partially consumed.
func (s *service) Place(ctx context.Context, userID int64, role enums.UserRole, input PlaceOrderInput) (*OrderDTO, error) {
	if role != enums.UserRoleClient {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only clients can place orders")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must have at least one item")
	}
	for _, line := range input.Items {
		if line.ProductID <= 0 || line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order items need a product and a positive quantity")
		}
	}

	buyer, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading buyer")
	}

	var orderID int64
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		productRepo := s.products.WithTx(tx)

		order, err := repo.CreateOrder(ctx, &models.Order{
			UserID: userID,
			Status: enums.OrderStatusPending,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}

		items := make([]models.OrderItem, 0, len(input.Items))
		lines := make([]OrderLineEvent, 0, len(input.Items))
		subtotal := decimal.Zero
		for _, line := range input.Items {
			product, err := productRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return insufficientStock(line.ProductID)
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
			}

			ok, err := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrementing stock")
			}
			if !ok {
				return insufficientStock(line.ProductID)
			}

			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			lines = append(lines, OrderLineEvent{
				ProductName: product.Name,
				Quantity:    line.Quantity,
				LineTotal:   lineTotal.Round(2),
			})
			subtotal = subtotal.Add(lineTotal)
		}

		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order items")
		}

		orderID = order.ID
		event := OrderCreatedEvent{
			OrderID:         order.ID,
			CustomerName:    buyer.Name,
			CustomerEmail:   buyer.Email,
			ShippingAddress: ShippingAddressOf(buyer),
			PaymentMethod:   PaymentMethod,
			OrderedAt:       order.CreatedAt,
			Items:           lines,
			Subtotal:        subtotal.Round(2),
			ShippingCost:    s.shippingCost.Round(2),
			Total:           subtotal.Add(s.shippingCost).Round(2),
		}
		if buyer.Phone != nil {
			event.CustomerPhone = *buyer.Phone
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: userID, Role: string(role)},
			Data:          event,
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "placing order")
	}

	placed, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading order")
	}
	return ToOrderDTO(placed), nil
}

// List returns the requester's own orders, or every order for admins,
// newest first either way.
func (s *service) List(ctx context.Context, requesterID int64, requesterRole enums.UserRole) ([]OrderDTO, error) {
	var (
		rows []models.Order
		err  error
	)
	if requesterRole == enums.UserRoleAdmin {
		rows, err = s.repo.ListAll(ctx)
	} else {
		rows, err = s.repo.ListByUser(ctx, requesterID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *ToOrderDTO(&rows[i]))
	}
	return dtos, nil
}

// GetDetail loads an order with buyer and products attached, enforcing
// that clients only see their own orders. Existence is checked before
// ownership so probing other users' order ids still yields a 404 first.
func (s *service) GetDetail(ctx context.Context, orderID, requesterID int64, requesterRole enums.UserRole) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if requesterRole != enums.UserRoleAdmin && order.UserID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return order, nil
}

// UpdateStatus moves an order to a new status. Any transition is
// allowed; the notification event is queued only when the status
// actually changed, so re-submitting the same status sends no email.
func (s *service) UpdateStatus(ctx context.Context, orderID int64, status enums.OrderStatus, actorID int64) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	oldStatus := order.Status

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateStatus(ctx, orderID, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
		}
		if oldStatus == status {
			return nil
		}
		lines := make([]OrderLineEvent, 0, len(order.Items))
		for i := range order.Items {
			item := &order.Items[i]
			name := fmt.Sprintf("produto #%d", item.ProductID)
			if item.Product != nil {
				name = item.Product.Name
			}
			lines = append(lines, OrderLineEvent{
				ProductName: name,
				Quantity:    item.Quantity,
				LineTotal:   item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
			})
		}
		event := OrderStatusChangedEvent{
			OrderID:         order.ID,
			OldStatus:       oldStatus,
			NewStatus:       status,
			ShippingAddress: ShippingAddressOf(order.User),
			OrderedAt:       order.CreatedAt,
			Items:           lines,
		}
		if order.User != nil {
			event.CustomerName = order.User.Name
			event.CustomerEmail = order.User.Email
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{UserID: actorID, Role: string(enums.UserRoleAdmin)},
			Data:          event,
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
	}

	order.Status = status
	return ToOrderDTO(order), nil
}

// Delete removes an order and its line items. Stock is not restored.
func (s *service) Delete(ctx context.Context, orderID int64) error {
	if _, err := s.loadOrder(ctx, orderID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting order")
	}
	return nil
}

func (s *service) loadOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func insufficientStock(productID int64) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
		WithDetails(map[string]any{"product_id": productID})
}
