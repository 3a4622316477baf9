package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry      *prometheus.Registry
	httpReqCnt    *prometheus.CounterVec
	httpDur       *prometheus.HistogramVec
	httpInfl      *prometheus.GaugeVec
	ordersCreated prometheus.Counter
	orderItems    prometheus.Histogram
	statusChanges *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Buckets: prometheus.DefBuckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "orders_created_total"})
	orderItems := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "order_items_per_order", Buckets: []float64{1, 2, 3, 5, 8, 13, 21}})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "order_status_changes_total"}, []string{"status"})
	r.MustRegister(ordersCreated, orderItems, statusChanges)

	return &Metrics{
		registry:      r,
		httpReqCnt:    httpReqCnt,
		httpDur:       httpDur,
		httpInfl:      httpInfl,
		ordersCreated: ordersCreated,
		orderItems:    orderItems,
		statusChanges: statusChanges,
	}
}

// OrderCreated records a placed order. Safe on a nil receiver.
func (m *Metrics) OrderCreated(itemCount int) {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
	m.orderItems.Observe(float64(itemCount))
}

// OrderStatusChanged counts status assignments by target status. Safe on a nil receiver.
func (m *Metrics) OrderStatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
