package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Sales tracks checkout outcomes.
type Sales struct {
	committed prometheus.Counter
	failed    *prometheus.CounterVec
	revenue   prometheus.Counter
	items     prometheus.Counter
}

// NewSales registers the sales collectors on reg.
func NewSales(reg prometheus.Registerer) *Sales {
	s := &Sales{
		committed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "market2m",
			Subsystem: "pos",
			Name:      "sales_committed_total",
			Help:      "Number of sales committed to the database.",
		}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "market2m",
			Subsystem: "pos",
			Name:      "sale_commit_failures_total",
			Help:      "Number of rejected or rolled back checkouts by reason.",
		}, []string{"reason"}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "market2m",
			Subsystem: "pos",
			Name:      "revenue_total",
			Help:      "Sum of committed sale totals.",
		}),
		items: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "market2m",
			Subsystem: "pos",
			Name:      "units_sold_total",
			Help:      "Number of product units sold.",
		}),
	}
	reg.MustRegister(s.committed, s.failed, s.revenue, s.items)
	return s
}

// Committed records a successful sale. Nil receivers are ignored.
func (s *Sales) Committed(total decimal.Decimal, units int) {
	if s == nil {
		return
	}
	s.committed.Inc()
	s.revenue.Add(total.InexactFloat64())
	s.items.Add(float64(units))
}

// Failed records a checkout that did not persist.
func (s *Sales) Failed(reason string) {
	if s == nil {
		return
	}
	s.failed.WithLabelValues(reason).Inc()
}

// Handler exposes the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
