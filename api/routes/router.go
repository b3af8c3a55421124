package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/swiftshop/swiftshop-backend/api/controllers"
	"github.com/swiftshop/swiftshop-backend/api/middleware"
	"github.com/swiftshop/swiftshop-backend/internal/catalog"
	"github.com/swiftshop/swiftshop-backend/internal/favorites"
	"github.com/swiftshop/swiftshop-backend/internal/orders"
	"github.com/swiftshop/swiftshop-backend/internal/receipts"
	"github.com/swiftshop/swiftshop-backend/internal/reports"
	"github.com/swiftshop/swiftshop-backend/internal/reviews"
	"github.com/swiftshop/swiftshop-backend/internal/support"
	"github.com/swiftshop/swiftshop-backend/internal/users"
	"github.com/swiftshop/swiftshop-backend/pkg/config"
	"github.com/swiftshop/swiftshop-backend/pkg/db"
	"github.com/swiftshop/swiftshop-backend/pkg/logger"
	"github.com/swiftshop/swiftshop-backend/pkg/metrics"
	"github.com/swiftshop/swiftshop-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers. cmd/api
// builds one after constructing the services.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	HTTPMetrics  *metrics.HTTPMetrics
	Metrics      http.Handler
	DB           db.Pinger
	Redis        *redis.Client
	UserRepo     *users.Repository
	Users        users.Service
	Catalog      catalog.Service
	Orders       orders.Service
	Favorites    favorites.Service
	Reviews      reviews.Service
	Support      support.Service
	Reports      reports.Service
	Receipts     *receipts.Renderer
	ShippingCost decimal.Decimal
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var redisPinger redis.Pinger
	if d.Redis != nil {
		redisPinger = d.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, redisPinger))
	})
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}

	// Rate limiting is skipped entirely when redis is not wired.
	loginLimit := middleware.AuthRateLimit(loginPolicy, nil, logg)
	registerLimit := middleware.AuthRateLimit(registerPolicy, nil, logg)
	if d.Redis != nil {
		loginLimit = middleware.AuthRateLimit(loginPolicy, d.Redis, logg)
		registerLimit = middleware.AuthRateLimit(registerPolicy, d.Redis, logg)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(registerLimit).Post("/auth/register", controllers.Register(d.Users, logg))
		r.With(loginLimit).Post("/auth/login", controllers.Login(d.Users, logg))

		r.Get("/products", controllers.ListProducts(d.Catalog, logg))
		r.Get("/products/{productID}", controllers.GetProduct(d.Catalog, logg))
		r.Get("/products/{productID}/reviews", controllers.ListReviews(d.Reviews, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.UserRepo, logg))

			r.Get("/auth/me", controllers.Me(d.Users, logg))
			r.Put("/auth/me", controllers.UpdateMe(d.Users, logg))

			r.Post("/orders", controllers.PlaceOrder(d.Orders, logg))
			r.Get("/orders", controllers.ListOrders(d.Orders, logg))
			r.Get("/orders/{orderID}/receipt", controllers.DownloadReceipt(d.Orders, d.Receipts, d.ShippingCost, logg))

			r.Post("/products/{productID}/reviews", controllers.CreateReview(d.Reviews, logg))

			r.Get("/support/messages", controllers.ListMessages(d.Support, logg))
			r.Post("/support/messages", controllers.SendMessage(d.Support, logg))

			r.Get("/favorites", controllers.ListFavorites(d.Favorites, logg))
			r.Post("/favorites/{productID}", controllers.AddFavorite(d.Favorites, logg))
			r.Delete("/favorites/{productID}", controllers.RemoveFavorite(d.Favorites, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.UserRepo, logg))
			r.Use(middleware.RequireAdmin(logg))

			r.Post("/products", controllers.CreateProduct(d.Catalog, logg))
			r.Put("/products/{productID}", controllers.UpdateProduct(d.Catalog, logg))
			r.Delete("/products/{productID}", controllers.DeleteProduct(d.Catalog, logg))

			r.Put("/orders/{orderID}/status", controllers.UpdateOrderStatus(d.Orders, logg))
			r.Delete("/orders/{orderID}", controllers.DeleteOrder(d.Orders, logg))

			r.Get("/users", controllers.ListUsers(d.Users, logg))
			r.Post("/users/admin", controllers.CreateAdmin(d.Users, logg))
			r.Delete("/users/{userID}", controllers.DeleteUser(d.Users, logg))

			r.Get("/admin/reports", controllers.AdminReports(d.Reports, logg))
		})
	})

	return r
}
