package reports

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/swiftshop/swiftshop-backend/pkg/errors"
)

const (
	minWindowDays = 1
	maxWindowDays = 365
	topProducts   = 5
)

// Totals are the headline dashboard numbers. Revenue spans all time,
// not just the requested window. Visits stay zero until the storefront
// grows traffic tracking.
type Totals struct {
	Users    int64   `json:"users"`
	Orders   int64   `json:"orders"`
	Products int64   `json:"products"`
	Revenue  float64 `json:"revenue"`
	Visits   int64   `json:"visits"`
}

// Summary is the admin dashboard payload.
type Summary struct {
	Totals        Totals           `json:"totals"`
	OrdersByDay   []DayCount       `json:"orders_by_day"`
	RevenueByDay  []DayRevenue     `json:"revenue_by_day"`
	VisitsByDay   []DayCount       `json:"visits_by_day"`
	OrderStatuses map[string]int64 `json:"order_statuses"`
	TopProducts   []ProductRevenue `json:"top_products"`
}

// Service builds the admin reporting summary.
type Service interface {
	Summarize(ctx context.Context, days int) (*Summary, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs a reports service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Summarize aggregates the dashboard for the trailing window. The
// window is clamped to [1, 365] days.
func (s *service) Summarize(ctx context.Context, days int) (*Summary, error) {
	if days < minWindowDays {
		days = minWindowDays
	}
	if days > maxWindowDays {
		days = maxWindowDays
	}
	since := s.now().AddDate(0, 0, -days)

	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting users")
	}
	orders, err := s.repo.CountOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}
	products, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
	}
	revenue, err := s.repo.TotalRevenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing revenue")
	}
	ordersByDay, err := s.repo.OrdersByDay(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "grouping orders by day")
	}
	revenueByDay, err := s.repo.RevenueByDay(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "grouping revenue by day")
	}
	statuses, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting statuses")
	}
	top, err := s.repo.TopProducts(ctx, since, topProducts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ranking products")
	}

	if ordersByDay == nil {
		ordersByDay = []DayCount{}
	}
	if revenueByDay == nil {
		revenueByDay = []DayRevenue{}
	}
	if top == nil {
		top = []ProductRevenue{}
	}

	return &Summary{
		Totals: Totals{
			Users:    users,
			Orders:   orders,
			Products: products,
			Revenue:  revenue,
		},
		OrdersByDay:   ordersByDay,
		RevenueByDay:  revenueByDay,
		VisitsByDay:   []DayCount{},
		OrderStatuses: statuses,
		TopProducts:   top,
	}, nil
}
