package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_OrdersCounter(t *testing.T) {
	m := NewNop()

	m.Orders.WithLabelValues("create", "success").Inc()
	m.Orders.WithLabelValues("create", "success").Inc()
	m.Orders.WithLabelValues("cancel", "rejected").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Orders.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders.WithLabelValues("cancel", "rejected")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewNop()
	m.PublishFailures.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ecshop_event_publish_failures_total 1")
}
