package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("pos_test")

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/tables/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tables/3", nil))
	require.Equal(t, http.StatusOK, w.Code)

	m.OrderCreated(3)
	m.OrderStatusChanged("paid")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `pos_test_http_requests_total{method="GET",route="/api/tables/:id",status="200"} 1`)
	assert.Contains(t, text, `pos_test_orders_created_total 1`)
	assert.Contains(t, text, `pos_test_order_status_changes_total{status="paid"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderCreated(1)
		m.OrderStatusChanged("ready")
	})
}
