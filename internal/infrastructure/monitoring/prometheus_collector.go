package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusCollector implements the metrics slices the services and the hub
// depend on.
type PrometheusCollector struct {
	liveConnections        prometheus.Gauge
	notificationsPublished *prometheus.CounterVec
	liveDeliveries         *prometheus.CounterVec
	arbitrations           *prometheus.CounterVec
	authAttempts           *prometheus.CounterVec

	httpRequestDuration *prometheus.HistogramVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		liveConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "noteshare_live_connections",
			Help: "Number of registered websocket connections",
		}),

		notificationsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "noteshare_notifications_published_total",
			Help: "Total number of notifications persisted, by kind",
		}, []string{"kind"}),

		liveDeliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "noteshare_live_deliveries_total",
			Help: "Live push outcomes (delivered, skipped, fanout_failed)",
		}, []string{"result"}),

		arbitrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "noteshare_arbitrations_total",
			Help: "Join request resolutions by decision and result",
		}, []string{"decision", "result"}),

		authAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "noteshare_auth_attempts_total",
			Help: "Authentication attempts by operation and result",
		}, []string{"operation", "result"}),

		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "noteshare_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"method", "route"}),
	}
}

// SetLiveConnections implements the hub's metrics slice.
func (p *PrometheusCollector) SetLiveConnections(n int) {
	p.liveConnections.Set(float64(n))
}

// NotificationPublished implements part of the dispatcher's metrics slice.
func (p *PrometheusCollector) NotificationPublished(kind string) {
	p.notificationsPublished.WithLabelValues(kind).Inc()
}

// LiveDelivery implements part of the dispatcher's metrics slice.
func (p *PrometheusCollector) LiveDelivery(result string) {
	p.liveDeliveries.WithLabelValues(result).Inc()
}

// Arbitration implements the arbitration service's metrics slice.
func (p *PrometheusCollector) Arbitration(decision, result string) {
	p.arbitrations.WithLabelValues(decision, result).Inc()
}

func (p *PrometheusCollector) AuthAttempt(operation, result string) {
	p.authAttempts.WithLabelValues(operation, result).Inc()
}

func (p *PrometheusCollector) ObserveHTTPRequest(method, route string, duration time.Duration) {
	p.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
