package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// DailyRevenue is one row of the sales report.
type DailyRevenue struct {
	Day     time.Time `db:"day" json:"day"`
	Orders  int64     `db:"orders" json:"orders"`
	Revenue float64   `db:"revenue" json:"revenue"`
}

// TopProduct aggregates paid line items per product snapshot name.
type TopProduct struct {
	ProductName string  `db:"product_name" json:"productName"`
	Units       int64   `db:"units" json:"units"`
	Revenue     float64 `db:"revenue" json:"revenue"`
}

// ReportRepository runs read-only aggregate queries for the admin
// dashboard. Raw SQL through sqlx; these don't fit the ORM well.
type ReportRepository interface {
	RevenueByDay(ctx context.Context, days int) ([]DailyRevenue, error)
	TopProducts(ctx context.Context, limit int) ([]TopProduct, error)
}

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) RevenueByDay(ctx context.Context, days int) ([]DailyRevenue, error) {
	if days <= 0 || days > 365 {
		days = 30
	}

	const q = `
		SELECT date_trunc('day', paid_at) AS day,
		       COUNT(*)                  AS orders,
		       COALESCE(SUM(total), 0)   AS revenue
		FROM orders
		WHERE payment_status = 'paid'
		  AND paid_at >= NOW() - ($1 || ' days')::interval
		  AND deleted_at IS NULL
		GROUP BY 1
		ORDER BY 1 DESC`

	var rows []DailyRevenue
	err := r.db.SelectContext(ctx, &rows, q, days)
	return rows, err
}

func (r *reportRepository) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	const q = `
		SELECT oi.product_name                     AS product_name,
		       SUM(oi.quantity)                    AS units,
		       SUM(oi.unit_price * oi.quantity)    AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.payment_status = 'paid'
		  AND o.deleted_at IS NULL
		GROUP BY oi.product_name
		ORDER BY revenue DESC
		LIMIT $1`

	var rows []TopProduct
	err := r.db.SelectContext(ctx, &rows, q, limit)
	return rows, err
}
