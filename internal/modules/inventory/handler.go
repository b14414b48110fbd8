package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Guizaa22/2M-market/internal/httpx"
	"github.com/Guizaa22/2M-market/internal/modules/account"
	"github.com/Guizaa22/2M-market/internal/modules/catalog"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct {
	service Service
	actor   account.ActorFunc
}

func NewHandler(service Service, actor account.ActorFunc) *Handler {
	return &Handler{service: service, actor: actor}
}

// RegisterRoutes mounts stock maintenance; adminOnly guards the writes.
func (h *Handler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Get("/low-stock", h.lowStock)
		r.Get("/products/{id}/adjustments", h.history) // ?limit=...

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Patch("/products/{id}/stock", h.setStock)
			r.Post("/products/{id}/restock", h.restock)
		})
	})
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.LowStock(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if products == nil {
		products = []*catalog.Product{}
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	adjustments, err := h.service.History(r.Context(), id, httpx.IntQuery(r, "limit", 0))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if adjustments == nil {
		adjustments = []*Adjustment{}
	}
	httpx.JSON(w, http.StatusOK, adjustments)
}

func (h *Handler) setStock(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req SetStockRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	actorID, _ := h.actor(r)
	res, err := h.service.SetStock(r.Context(), id, actorID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *Handler) restock(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req RestockRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	actorID, _ := h.actor(r)
	res, err := h.service.Restock(r.Context(), id, actorID, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
