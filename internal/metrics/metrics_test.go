package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSalesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewSales(reg)

	s.Committed(decimal.RequireFromString("12.50"), 3)
	s.Committed(decimal.RequireFromString("7.50"), 1)
	s.Failed("empty_cart")

	assert.Equal(t, 2.0, testutil.ToFloat64(s.committed))
	assert.Equal(t, 20.0, testutil.ToFloat64(s.revenue))
	assert.Equal(t, 4.0, testutil.ToFloat64(s.items))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.failed.WithLabelValues("empty_cart")))
}

func TestNilSalesIsNoop(t *testing.T) {
	var s *Sales
	s.Committed(decimal.NewFromInt(1), 1)
	s.Failed("persistence")
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewSales(reg).Committed(decimal.NewFromInt(5), 1)

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "market2m_pos_sales_committed_total 1")
}
