package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "futburguer"

// Metrics хранит счётчики HTTP-слоя и корзины.
type Metrics struct {
	Requests   *prometheus.CounterVec
	LatencyMS  *prometheus.HistogramVec
	CartEvents *prometheus.CounterVec
	OrdersSent prometheus.Counter
	registry   *prometheus.Registry
}

// New регистрирует метрики в собственном реестре.
func New() *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"route"})
	cartEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "events_total",
		Help:      "Cart change events by resulting state.",
	}, []string{"state"})
	ordersSent := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "order",
		Name:      "sent_total",
		Help:      "Orders turned into messaging deep links.",
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(requests, latency, cartEvents, ordersSent)

	return &Metrics{
		Requests:   requests,
		LatencyMS:  latency,
		CartEvents: cartEvents,
		OrdersSent: ordersSent,
		registry:   reg,
	}
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest фиксирует запрос и его длительность.
func (m *Metrics) ObserveRequest(route string, status int, started time.Time) {
	m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(started).Milliseconds()))
}

// ObserveCartChange считает изменения корзины, разделяя пустые и непустые.
func (m *Metrics) ObserveCartChange(itemCount int) {
	state := "filled"
	if itemCount == 0 {
		state = "empty"
	}
	m.CartEvents.WithLabelValues(state).Inc()
}
