package obs

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics groups the Prometheus collectors for HTTP observability.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers and returns HTTP metrics collectors.
func NewHTTPMetrics(namespace string, buckets []float64, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(buckets) == 0 {
		buckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500}
	} else {
		sort.Float64s(buckets)
	}
	m := &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   buckets,
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}
	reg.MustRegister(m.ReqTotal, m.ReqDur, m.InFlight)
	return m
}

// Domain collectors are constructed eagerly so callers can increment
// them whether or not a registry has been attached yet. Registration is
// deferred to MustRegisterDomainMetrics.
var (
	domainOnce sync.Once

	// OrdersCreatedTotal counts successful checkouts.
	OrdersCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "orders_created_total",
		Help:      "Count of orders created through checkout.",
	})
	// PromoRedemptionsTotal counts promo code applications by outcome.
	PromoRedemptionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "promo_redemptions_total",
		Help:      "Count of promo code application attempts.",
	}, []string{"result"})
	// PriceQuotesTotal counts price quote requests served.
	PriceQuotesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "price_quotes_total",
		Help:      "Count of variant price quotes served.",
	})
	// AppointmentsBookedTotal counts appointment bookings.
	AppointmentsBookedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "appointments_booked_total",
		Help:      "Count of styling appointments booked.",
	})
)

// MustRegisterDomainMetrics registers the storefront domain collectors.
// Safe to call more than once.
func MustRegisterDomainMetrics(reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(OrdersCreatedTotal, PromoRedemptionsTotal, PriceQuotesTotal, AppointmentsBookedTotal)
	})
}

// ParseBucketsCSV converts a comma-separated list of histogram bucket
// boundaries (milliseconds) into floats, dropping invalid entries.
func ParseBucketsCSV(csv string) []float64 {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// DurationMillis converts a duration to milliseconds for observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
