package pos

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/httpx"
	"github.com/Guizaa22/2M-market/internal/modules/auth"
	"github.com/Guizaa22/2M-market/internal/modules/cart"
)

const dateLayout = "2006-01-02"

// Handler exposes POS HTTP endpoints.
type Handler struct {
	service  Service
	carts    *cart.Registry
	receipts Receipts
}

func NewHandler(service Service, carts *cart.Registry, receipts Receipts) *Handler {
	return &Handler{service: service, carts: carts, receipts: receipts}
}

type checkoutResponse struct {
	Sale        *Sale  `json:"sale"`
	ReceiptPath string `json:"receipt_path,omitempty"`
}

// RegisterRoutes mounts checkout and sale history. r must already carry the session middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/pos", func(r chi.Router) {
		r.Post("/checkout", h.checkout)         // POST /api/v1/pos/checkout
		r.Get("/sales", h.listSales)            // GET  /api/v1/pos/sales?from=2024-01-01&to=2024-01-31
		r.Get("/sales/{id}", h.getSale)         // GET  /api/v1/pos/sales/{id}
		r.Get("/sales/{id}/receipt", h.receipt) // GET  /api/v1/pos/sales/{id}/receipt
	})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "not logged in", nil)
		return
	}
	var req CheckoutRequest
	if r.ContentLength != 0 {
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, r, err)
			return
		}
	}
	sale, err := h.service.Checkout(r.Context(), h.carts.For(sess.ID), sess.AccountID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	sale.Cashier = sess.Username

	path, err := h.receipts.Save(sale)
	if err != nil {
		// The sale is committed; a missing ticket file must not fail the checkout.
		slog.WarnContext(r.Context(), "receipt not written",
			slog.Int64("sale_id", sale.ID),
			slog.String("error", err.Error()))
	}
	httpx.JSON(w, http.StatusCreated, checkoutResponse{Sale: sale, ReceiptPath: path})
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r, time.Now())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	sales, err := h.service.ListSales(r.Context(), from, to)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if sales == nil {
		sales = []*Sale{}
	}
	httpx.JSON(w, http.StatusOK, sales)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	sale, ok := h.loadSale(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	sale, ok := h.loadSale(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := h.receipts.Render(w, sale); err != nil {
		slog.ErrorContext(r.Context(), "render receipt", slog.String("error", err.Error()))
	}
}

func (h *Handler) loadSale(w http.ResponseWriter, r *http.Request) (*Sale, bool) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return nil, false
	}
	sale, err := h.service.GetSale(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return nil, false
	}
	if sale == nil {
		httpx.JSONError(w, http.StatusNotFound, "sale not found", nil)
		return nil, false
	}
	return sale, true
}

// dateRange reads inclusive from/to dates and returns the half-open range
// [from, to+1day). Both default to today.
func dateRange(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	parse := func(name string) (time.Time, error) {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return today, nil
		}
		t, err := time.ParseInLocation(dateLayout, raw, now.Location())
		if err != nil {
			return time.Time{}, apperr.Invalid("%s must be a date like 2006-01-02", name)
		}
		return t, nil
	}
	from, err := parse("from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parse("to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to.AddDate(0, 0, 1), nil
}
