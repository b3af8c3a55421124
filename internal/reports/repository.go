package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/swiftshop/swiftshop-backend/pkg/db/models"
)

// DayCount is one day's order volume.
type DayCount struct {
	Date   string `json:"date"`
	Orders int64  `json:"orders"`
}

// DayRevenue is one day's gross revenue.
type DayRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// ProductRevenue ranks a product by gross revenue.
type ProductRevenue struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
}

// Repository runs the aggregate queries behind the admin dashboard.
// DATE() and CAST(... AS TEXT) are spelled so the same SQL runs on
// Postgres and on the sqlite test database.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CountUsers returns the total number of accounts.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// CountOrders returns the total number of orders ever placed.
func (r *Repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

// CountProducts returns the catalog size.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// TotalRevenue sums unit_price * quantity over every order line.
func (r *Repository) TotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(unit_price * quantity), 0) FROM order_items`).
		Scan(&revenue).Error
	return revenue, err
}

// OrdersByDay groups order counts by calendar day since the cutoff.
func (r *Repository) OrdersByDay(ctx context.Context, since time.Time) ([]DayCount, error) {
	var rows []DayCount
	err := r.db.WithContext(ctx).
		Raw(`
			SELECT CAST(DATE(created_at) AS TEXT) AS date, COUNT(id) AS orders
			FROM orders
			WHERE created_at >= ?
			GROUP BY DATE(created_at)
			ORDER BY date ASC`, since).
		Scan(&rows).Error
	return rows, err
}

// RevenueByDay groups gross revenue by calendar day since the cutoff.
func (r *Repository) RevenueByDay(ctx context.Context, since time.Time) ([]DayRevenue, error) {
	var rows []DayRevenue
	err := r.db.WithContext(ctx).
		Raw(`
			SELECT CAST(DATE(o.created_at) AS TEXT) AS date,
			       COALESCE(SUM(oi.unit_price * oi.quantity), 0) AS revenue
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.created_at >= ?
			GROUP BY DATE(o.created_at)
			ORDER BY date ASC`, since).
		Scan(&rows).Error
	return rows, err
}

// StatusCounts returns the order count per status over all time.
func (r *Repository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Raw(`SELECT status, COUNT(id) AS count FROM orders GROUP BY status`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// TopProducts ranks products by gross revenue since the cutoff.
func (r *Repository) TopProducts(ctx context.Context, since time.Time, limit int) ([]ProductRevenue, error) {
	var rows []ProductRevenue
	err := r.db.WithContext(ctx).
		Raw(`
			SELECT p.name AS name,
			       COALESCE(SUM(oi.unit_price * oi.quantity), 0) AS revenue
			FROM products p
			JOIN order_items oi ON oi.product_id = p.id
			JOIN orders o ON o.id = oi.order_id
			WHERE o.created_at >= ?
			GROUP BY p.name
			ORDER BY revenue DESC
			LIMIT ?`, since, limit).
		Scan(&rows).Error
	return rows, err
}
