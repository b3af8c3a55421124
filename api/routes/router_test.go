package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/swiftshop/swiftshop-backend/internal/catalog"
	"github.com/swiftshop/swiftshop-backend/internal/favorites"
	"github.com/swiftshop/swiftshop-backend/internal/orders"
	"github.com/swiftshop/swiftshop-backend/internal/receipts"
	"github.com/swiftshop/swiftshop-backend/internal/reports"
	"github.com/swiftshop/swiftshop-backend/internal/reviews"
	"github.com/swiftshop/swiftshop-backend/internal/support"
	"github.com/swiftshop/swiftshop-backend/internal/users"
	"github.com/swiftshop/swiftshop-backend/pkg/config"
	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
	"github.com/swiftshop/swiftshop-backend/pkg/enums"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
	"github.com/swiftshop/swiftshop-backend/pkg/outbox"
)

func setupRouterTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE reviews (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			rating INTEGER NOT NULL,
			comment TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE favorites (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			created_at DATETIME,
			UNIQUE (user_id, product_id)
		)`,
		`CREATE TABLE messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			order_id INTEGER,
			from_role TEXT NOT NULL,
			text TEXT NOT NULL,
			from_card INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME
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

type routerTxRunner struct {
	db *gorm.DB
}

func (r routerTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type discardOutbox struct{}

func (discardOutbox) Emit(context.Context, *gorm.DB, outbox.DomainEvent) error { return nil }

func routerTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:          "router-test-secret",
			Issuer:          "swiftshop-test",
			ExpirationHours: 1,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	db := setupRouterTestDB(t)
	cfg := routerTestConfig()
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	userRepo := users.NewRepository(db)
	catalogRepo := catalog.NewRepository(db)

	usersSvc, err := users.NewService(userRepo, cfg.Password, cfg.JWT)
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(catalogRepo, catalog.DefaultAttributeWhitelist())
	require.NoError(t, err)
	ordersSvc, err := orders.NewService(
		orders.NewRepository(db), catalogRepo, userRepo,
		routerTxRunner{db: db}, discardOutbox{}, decimal.NewFromInt(50))
	require.NoError(t, err)
	favoritesSvc, err := favorites.NewService(favorites.NewRepository(db))
	require.NoError(t, err)
	reviewsSvc, err := reviews.NewService(reviews.NewRepository(db), catalogRepo)
	require.NoError(t, err)
	supportSvc, err := support.NewService(support.NewRepository(db))
	require.NoError(t, err)
	reportsSvc, err := reports.NewService(reports.NewRepository(db))
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Config:       cfg,
		Logger:       logg,
		UserRepo:     userRepo,
		Users:        usersSvc,
		Catalog:      catalogSvc,
		Orders:       ordersSvc,
		Favorites:    favoritesSvc,
		Reviews:      reviewsSvc,
		Support:      supportSvc,
		Reports:      reportsSvc,
		Receipts:     receipts.NewRenderer(),
		ShippingCost: decimal.NewFromInt(50),
	})
	return handler, db
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, handler http.Handler, name, email string) string {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "segredo123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": "segredo123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Data.AccessToken)
	return login.Data.AccessToken
}

func promoteToAdmin(t *testing.T, db *gorm.DB, email string) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", email).
		Update("role", enums.UserRoleAdmin).Error)
}

func TestRouterPublicAndProtectedRoutes(t *testing.T) {
	handler, db := newTestRouter(t)

	require.NoError(t, db.Create(&models.Product{
		Name:  "Camisa Azul",
		Price: decimal.RequireFromString("450.00"),
		Stock: 5,
	}).Error)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Camisa Azul")

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/orders", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterClientOrderFlow(t *testing.T) {
	handler, db := newTestRouter(t)

	product := &models.Product{
		Name:  "Sapato Social",
		Price: decimal.RequireFromString("1200.00"),
		Stock: 3,
	}
	require.NoError(t, db.Create(product).Error)

	token := registerAndLogin(t, handler, "Ana", "ana@example.com")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders", token, map[string]any{
		"items": []map[string]any{{"product_id": product.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "pending")

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/orders/1/receipt", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/favorites/%d", product.ID), token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, handler, http.MethodGet, "/api/v1/favorites", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), fmt.Sprintf("%d", product.ID))
}

func TestRouterAdminGating(t *testing.T) {
	handler, db := newTestRouter(t)

	clientToken := registerAndLogin(t, handler, "Carlos", "carlos@example.com")

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", clientToken, map[string]any{
		"name":  "Bloqueado",
		"price": 10.0,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Role checks read the database, so a promotion applies to the
	// existing token without a new login.
	promoteToAdmin(t, db, "carlos@example.com")

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/products", clientToken, map[string]any{
		"name":  "Camisa Verde",
		"price": 300.0,
		"stock": 4,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/admin/reports", clientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
