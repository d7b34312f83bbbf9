package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the service's Prometheus metrics.
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	ordersCreatedTotal   prometheus.Counter
	paymentsTotal        *prometheus.CounterVec
	couponRejectedTotal  *prometheus.CounterVec
	gatewayDegradedTotal prometheus.Counter

	dbConnectionsActive prometheus.Gauge
	dbConnectionsIdle   prometheus.Gauge
}

// NewCollector registers and returns the metrics collector.
func NewCollector() *Collector {
	return &Collector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		ordersCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Total number of orders created",
			},
		),
		paymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_total",
				Help: "Payment callbacks by outcome",
			},
			[]string{"status"},
		),
		couponRejectedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coupon_rejections_total",
				Help: "Coupon validation rejections by reason",
			},
			[]string{"reason"},
		),
		gatewayDegradedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "gateway_degraded_initiations_total",
				Help: "Payment initiations served by the sandbox fallback",
			},
		),
		dbConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_active",
				Help: "Active database connections",
			},
		),
		dbConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_idle",
				Help: "Idle database connections",
			},
		),
	}
}

// RecordHTTPRequest records one completed request.
func (c *Collector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func (c *Collector) RecordOrderCreated() {
	c.ordersCreatedTotal.Inc()
}

func (c *Collector) RecordPayment(status string) {
	c.paymentsTotal.WithLabelValues(status).Inc()
}

func (c *Collector) RecordCouponRejection(reason string) {
	c.couponRejectedTotal.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordDegradedInitiation() {
	c.gatewayDegradedTotal.Inc()
}

// ObserveDBPool samples the connection pool gauges. Run periodically.
func (c *Collector) ObserveDBPool(db *sql.DB) {
	stats := db.Stats()
	c.dbConnectionsActive.Set(float64(stats.InUse))
	c.dbConnectionsIdle.Set(float64(stats.Idle))
}

// StartDBPoolSampler samples pool stats every interval until stop is closed.
func (c *Collector) StartDBPoolSampler(db *sql.DB, interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.ObserveDBPool(db)
			case <-stop:
				return
			}
		}
	}()
}
