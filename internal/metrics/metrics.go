package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const DefaultCollectInterval = 15 * time.Second

var (
	tableRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "qaforum_table_rows",
		Help: "Number of rows in a forum table.",
	}, []string{"table"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qaforum_http_requests_total",
		Help: "API requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "qaforum_http_request_duration_seconds",
		Help:    "API request latency by method and route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// TableCounter reports row counts per table
type TableCounter interface {
	TableCounts() (map[string]int64, error)
}

// Collector periodically publishes table row counts
type Collector struct {
	DB       TableCounter
	Interval time.Duration
}

// Run collects immediately and then on every tick until ctx is done
func (c *Collector) Run(ctx context.Context) error {
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultCollectInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := c.Collect(); err != nil {
			log.Warn().Err(err).Msg("Failed to collect table metrics")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Collect refreshes the table row gauges once
func (c *Collector) Collect() error {
	counts, err := c.DB.TableCounts()
	if err != nil {
		return err
	}
	for table, n := range counts {
		tableRows.WithLabelValues(table).Set(float64(n))
	}
	log.Trace().Int("tables", len(counts)).Msg("Collected table metrics")
	return nil
}

// Handler serves the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware counts requests and observes latency per chi route pattern
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
