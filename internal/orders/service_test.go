package orders

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/swiftshop/swiftshop-backend/internal/catalog"
	"github.com/swiftshop/swiftshop-backend/internal/users"
	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
	pkgerrors "github.com/swiftshop/swiftshop-backend/pkg/errors"
	"github.com/swiftshop/swiftshop-backend/pkg/outbox"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'client',
			is_blocked INTEGER NOT NULL DEFAULT 0,
			avatar_url TEXT,
			phone TEXT,
			country TEXT,
			state TEXT,
			city TEXT,
			street TEXT,
			number TEXT,
			reference TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			price NUMERIC NOT NULL,
			description TEXT,
			image_url TEXT,
			image_urls_json TEXT,
			size_images_json TEXT,
			size_colors_json TEXT,
			size_stock_json TEXT,
			category TEXT,
			main_category TEXT,
			sub_category TEXT,
			attributes_json TEXT,
			stock INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE order_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price NUMERIC NOT NULL
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		sqlDB, dbErr := db.DB()
		require.NoError(t, dbErr)
		require.NoError(t, sqlDB.Close())
	})

	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type recordingOutbox struct {
	events []outbox.DomainEvent
}

func (o *recordingOutbox) Emit(_ context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if tx == nil {
		return context.Canceled
	}
	o.events = append(o.events, event)
	return nil
}

type ordersFixture struct {
	db     *gorm.DB
	svc    Service
	outbox *recordingOutbox
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()
	db := setupOrdersTestDB(t)
	sink := &recordingOutbox{}
	svc, err := NewService(
		NewRepository(db),
		catalog.NewRepository(db),
		users.NewRepository(db),
		gormTxRunner{db: db},
		sink,
		decimal.NewFromInt(50),
	)
	require.NoError(t, err)
	return &ordersFixture{db: db, svc: svc, outbox: sink}
}

func (f *ordersFixture) seedUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	street := "Av. Julius Nyerere"
	number := "120"
	city := "Maputo"
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         enums.UserRoleClient,
		Street:       &street,
		Number:       &number,
		City:         &city,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *ordersFixture) seedProduct(t *testing.T, name string, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, f.db.Create(product).Error)
	return product
}

func (f *ordersFixture) stockOf(t *testing.T, productID int64) int {
	t.Helper()
	var product models.Product
	require.NoError(t, f.db.First(&product, "id = ?", productID).Error)
	return product.Stock
}

func TestPlaceOrderComputesTotalsAndEmitsEvent(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	buyer := f.seedUser(t, "Ana", "ana@example.com")
	shirt := f.seedProduct(t, "Camisa Azul", "450.00", 10)
	shoe := f.seedProduct(t, "Sapato Social", "1200.00", 3)

	dto, err := f.svc.Place(ctx, buyer.ID, enums.UserRoleClient, PlaceOrderInput{Items: []CartLine{
		{ProductID: shirt.ID, Quantity: 2},
		{ProductID: shoe.ID, Quantity: 1},
	}})
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusPending, dto.Status)
	require.Len(t, dto.Items, 2)
	require.Equal(t, 450.0, dto.Items[0].UnitPrice, "unit price snapshot at purchase time")

	require.Equal(t, 8, f.stockOf(t, shirt.ID))
	require.Equal(t, 2, f.stockOf(t, shoe.ID))

	require.Len(t, f.outbox.events, 1)
	emitted := f.outbox.events[0]
	require.Equal(t, enums.EventOrderCreated, emitted.EventType)
	require.Equal(t, dto.ID, emitted.AggregateID)

	payload, ok := emitted.Data.(OrderCreatedEvent)
	require.True(t, ok)
	require.Equal(t, "ana@example.com", payload.CustomerEmail)
	require.Equal(t, "M-Pesa", payload.PaymentMethod)
	require.Equal(t, "Av. Julius Nyerere, 120, Maputo", payload.ShippingAddress)
	require.Equal(t, "2100.00", payload.Subtotal.StringFixed(2))
	require.Equal(t, "50.00", payload.ShippingCost.StringFixed(2))
	require.Equal(t, "2150.00", payload.Total.StringFixed(2))
}

func TestPlaceOrderRollsBackWhenAnyLineIsShort(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	buyer := f.seedUser(t, "Ana", "ana@example.com")
	shirt := f.seedProduct(t, "Camisa Azul", "450.00", 10)
	shoe := f.seedProduct(t, "Sapato Social", "1200.00", 1)

	_, err := f.svc.Place(ctx, buyer.ID, enums.UserRoleClient, PlaceOrderInput{Items: []CartLine{
		{ProductID: shirt.ID, Quantity: 2},
		{ProductID: shoe.ID, Quantity: 5},
	}})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, shoe.ID, details["product_id"])

	require.Equal(t, 10, f.stockOf(t, shirt.ID), "first line rolled back with the order")
	require.Equal(t, 1, f.stockOf(t, shoe.ID))

	var orderCount int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)
	require.Empty(t, f.outbox.events)
}

func TestPlaceOrderUnknownProductReadsAsShortStock(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	buyer := f.seedUser(t, "Ana", "ana@example.com")

	_, err := f.svc.Place(ctx, buyer.ID, enums.UserRoleClient, PlaceOrderInput{Items: []CartLine{
		{ProductID: 999, Quantity: 1},
	}})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
}

func TestPlaceOrderRejectsNonClients(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	_, err := f.svc.Place(ctx, 1, enums.UserRoleAdmin, PlaceOrderInput{Items: []CartLine{{ProductID: 1, Quantity: 1}}})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestPlaceOrderValidatesLines(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	_, err := f.svc.Place(ctx, 1, enums.UserRoleClient, PlaceOrderInput{})
	require.Error(t, err, "empty cart")

	_, err = f.svc.Place(ctx, 1, enums.UserRoleClient, PlaceOrderInput{Items: []CartLine{{ProductID: 1, Quantity: 0}}})
	require.Error(t, err, "zero quantity")
}

func TestUpdateStatusEmitsOnlyOnChange(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	buyer := f.seedUser(t, "Ana", "ana@example.com")
	shirt := f.seedProduct(t, "Camisa Azul", "450.00", 10)

	dto, err := f.svc.Place(ctx, buyer.ID, enums.UserRoleClient, PlaceOrderInput{Items: []CartLine{
		{ProductID: shirt.ID, Quantity: 1},
	}})
	require.NoError(t, err)
	require.Len(t, f.outbox.events, 1)

	updated, err := f.svc.UpdateStatus(ctx, dto.ID, enums.OrderStatusProcessing, 99)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusProcessing, updated.Status)
	require.Len(t, f.outbox.events, 2)

	payload, ok := f.outbox.events[1].Data.(OrderStatusChangedEvent)
	require.True(t, ok)
	require.Equal(t, enums.OrderStatusPending, payload.OldStatus)
	require.Equal(t, enums.OrderStatusProcessing, payload.NewStatus)
	require.Equal(t, "Camisa Azul", payload.Items[0].ProductName)

	_, err = f.svc.UpdateStatus(ctx, dto.ID, enums.OrderStatusProcessing, 99)
	require.NoError(t, err)
	require.Len(t, f.outbox.events, 2, "same status again sends nothing")
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newOrdersFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), 1, enums.OrderStatus("lost"), 99)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestListScopesByRole(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	ana := f.seedUser(t, "Ana", "ana@example.com")
	zeca := f.seedUser(t, "Zeca", "zeca@example.com")
	shirt := f.seedProduct(t, "Camisa Azul", "450.00", 10)

	_, err := f.svc.Place(ctx, ana.ID, enums.UserRoleClient, PlaceOrderInput{Items: []CartLine{{ProductID: shirt.ID, Quantity: 1}}})
	require.NoError(t, err)
	_, err = f.svc.Place(ctx, zeca.ID, enums.UserRoleClient, PlaceOrderInput{Items: []CartLine{{ProductID: shirt.ID, Quantity: 1}}})
	require.NoError(t, err)

	mine, err := f.svc.List(ctx, ana.ID, enums.UserRoleClient)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, ana.ID, mine[0].UserID)

	all, err := f.svc.List(ctx, 0, enums.UserRoleAdmin)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestGetDetailEnforcesOwnership(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	ana := f.seedUser(t, "Ana", "ana@example.com")
	zeca := f.seedUser(t, "Zeca", "zeca@example.com")
	shirt := f.seedProduct(t, "Camisa Azul", "450.00", 10)

	dto, err := f.svc.Place(ctx, ana.ID, enums.UserRoleClient, PlaceOrderInput{Items: []CartLine{{ProductID: shirt.ID, Quantity: 1}}})
	require.NoError(t, err)

	_, err = f.svc.GetDetail(ctx, 999, ana.ID, enums.UserRoleClient)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code(), "existence checked before ownership")

	_, err = f.svc.GetDetail(ctx, dto.ID, zeca.ID, enums.UserRoleClient)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	detail, err := f.svc.GetDetail(ctx, dto.ID, 0, enums.UserRoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, detail.User)
	require.Equal(t, "ana@example.com", detail.User.Email)
}

func TestDeleteOrderRemovesItems(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	ana := f.seedUser(t, "Ana", "ana@example.com")
	shirt := f.seedProduct(t, "Camisa Azul", "450.00", 10)

	dto, err := f.svc.Place(ctx, ana.ID, enums.UserRoleClient, PlaceOrderInput{Items: []CartLine{{ProductID: shirt.ID, Quantity: 1}}})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, dto.ID))

	var itemCount int64
	require.NoError(t, f.db.Model(&models.OrderItem{}).Where("order_id = ?", dto.ID).Count(&itemCount).Error)
	require.Zero(t, itemCount)

	err = f.svc.Delete(ctx, dto.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
