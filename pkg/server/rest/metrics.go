package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	runDuration prometheus.Histogram
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roaddist",
			Name:      "http_requests_total",
			Help:      "number of http requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "roaddist",
			Name:      "http_request_duration_seconds",
			Help:      "http request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "roaddist",
			Name:      "sssp_run_duration_seconds",
			Help:      "duration of single source shortest path runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roaddist",
			Name:      "sssp_cache_hits_total",
			Help:      "distance table cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roaddist",
			Name:      "sssp_cache_misses_total",
			Help:      "distance table cache misses.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.runDuration, m.cacheHits, m.cacheMisses)
	return m
}

func (m *Metrics) ObserveRun(d time.Duration) {
	m.runDuration.Observe(d.Seconds())
}

func (m *Metrics) CacheHit() {
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	m.cacheMisses.Inc()
}

// PromeHttpMiddleware. count requests & observe latency per chi route pattern.
func PromeHttpMiddleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unknown"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			m.requests.WithLabelValues(route, r.Method, strconv.Itoa(code)).Inc()
			m.latency.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
