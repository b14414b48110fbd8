package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Guizaa22/2M-market/internal/httpx"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the catalog; adminOnly guards the write endpoints.
func (h *Handler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", h.listProducts)    // ?category=...&q=...
		r.Get("/products/lookup", h.lookup)   // ?barcode=... or ?name=...
		r.Get("/products/{id}", h.getProduct) // GET /api/v1/catalog/products/{id}
		r.Get("/categories", h.listCategories)
		r.Get("/barcodes/{barcode}/exists", h.barcodeExists)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/products", h.createProduct)
			r.Put("/products/{id}", h.updateProduct)
			r.Delete("/products/{id}", h.deleteProduct)
		})
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.service.ListProducts(r.Context(), q.Get("category"), q.Get("q"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if products == nil {
		products = []*Product{}
	}
	httpx.JSON(w, http.StatusOK, products)
}

// lookup resolves a scanned barcode or a typed name. An unknown product is a
// normal outcome: the client is told so and may offer to create it.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		p   *Product
		err error
	)
	switch {
	case q.Get("barcode") != "":
		p, err = h.service.FindByBarcode(r.Context(), q.Get("barcode"))
	case q.Get("name") != "":
		p, err = h.service.FindByExactName(r.Context(), q.Get("name"))
	default:
		httpx.JSONError(w, http.StatusBadRequest, "barcode or name is required", nil)
		return
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if p == nil {
		httpx.JSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"found": true, "product": p})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if p == nil {
		httpx.JSONError(w, http.StatusNotFound, "product not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.ListCategories(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if cats == nil {
		cats = []CategoryCount{}
	}
	httpx.JSON(w, http.StatusOK, cats)
}

func (h *Handler) barcodeExists(w http.ResponseWriter, r *http.Request) {
	exclude := int64(httpx.IntQuery(r, "exclude_id", 0))
	exists, err := h.service.BarcodeExists(r.Context(), chi.URLParam(r, "barcode"), exclude)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req ProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), id, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
