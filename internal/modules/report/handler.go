package report

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/httpx"
)

const dateLayout = "2006-01-02"

// Handler exposes reporting HTTP endpoints.
type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler { return &Handler{service: service, now: time.Now} }

// RegisterRoutes mounts the reports; they are restricted by adminOnly.
//
// Every route accepts ?period=today|week|month|year or ?from=YYYY-MM-DD&to=YYYY-MM-DD
// (inclusive dates). The default is the current month.
func (h *Handler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Use(adminOnly)
		r.Get("/dashboard", h.dashboard)
		r.Get("/summary", h.summary)
		r.Get("/top-products", h.topProducts) // ?by=quantity|profit&limit=5
		r.Get("/categories", h.categories)
		r.Get("/daily", h.daily)
	})
}

type summaryResponse struct {
	Period     Period `json:"period"`
	Revenue    string `json:"revenue"`
	Profit     string `json:"profit"`
	SalesCount int    `json:"sales_count"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	p, err := h.period(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	d, err := h.service.Dashboard(r.Context(), p)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	p, err := h.period(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	revenue, err := h.service.Revenue(r.Context(), p)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	profit, err := h.service.Profit(r.Context(), p)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	count, err := h.service.SalesCount(r.Context(), p)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summaryResponse{
		Period:     p,
		Revenue:    revenue.StringFixed(2),
		Profit:     profit.StringFixed(2),
		SalesCount: count,
	})
}

func (h *Handler) topProducts(w http.ResponseWriter, r *http.Request) {
	p, err := h.period(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	n := httpx.IntQuery(r, "limit", defaultTopN)

	var stats []ProductStat
	switch by := r.URL.Query().Get("by"); by {
	case "", "quantity":
		stats, err = h.service.TopProductsByQuantity(r.Context(), p, n)
	case "profit":
		stats, err = h.service.TopProductsByProfit(r.Context(), p, n)
	default:
		err = apperr.Invalid("by must be quantity or profit, got %q", by)
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if stats == nil {
		stats = []ProductStat{}
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	p, err := h.period(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	out, err := h.service.RevenueByCategory(r.Context(), p)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if out == nil {
		out = []CategoryRevenue{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	p, err := h.period(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	out, err := h.service.DailyRevenue(r.Context(), p)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if out == nil {
		out = []DailyRevenue{}
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) period(r *http.Request) (Period, error) {
	q := r.URL.Query()
	now := h.now()
	if q.Get("from") == "" && q.Get("to") == "" {
		name := q.Get("period")
		if name == "" {
			name = "month"
		}
		return PeriodFor(name, now)
	}

	from, err := time.ParseInLocation(dateLayout, q.Get("from"), now.Location())
	if err != nil {
		return Period{}, apperr.Invalid("from must be a date like 2006-01-02")
	}
	to, err := time.ParseInLocation(dateLayout, q.Get("to"), now.Location())
	if err != nil {
		return Period{}, apperr.Invalid("to must be a date like 2006-01-02")
	}
	p := Period{From: from, To: to.AddDate(0, 0, 1)}
	return p, p.Validate()
}
