package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/httpx"
	"github.com/Guizaa22/2M-market/internal/modules/auth"
	"github.com/Guizaa22/2M-market/internal/modules/catalog"
)

// ProductFinder reads current product state. catalog.Service satisfies it.
type ProductFinder interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error)
}

type Handler struct {
	carts    *Registry
	products ProductFinder
}

func NewHandler(carts *Registry, products ProductFinder) *Handler {
	return &Handler{carts: carts, products: products}
}

// ItemView is a line with its derived amounts.
type ItemView struct {
	LineItem
	Subtotal decimal.Decimal `json:"subtotal"`
}

// View is the JSON rendering of a cart.
type View struct {
	Items []ItemView      `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// NewView renders items for clients.
func NewView(items []LineItem) View {
	v := View{Items: make([]ItemView, 0, len(items)), Total: Total(items)}
	for _, li := range items {
		v.Items = append(v.Items, ItemView{LineItem: li, Subtotal: li.Subtotal()})
		v.Count += li.Quantity
	}
	return v
}

type addRequest struct {
	ProductID int64  `json:"product_id"`
	Barcode   string `json:"barcode"`
	Quantity  int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// RegisterRoutes mounts the session cart. r must already carry the session middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.get)
		r.Delete("/", h.clear)
		r.Post("/items", h.add)
		r.Put("/items/{productID}", h.setQuantity)
		r.Delete("/items/{productID}", h.remove)
	})
}

func (h *Handler) cartFor(w http.ResponseWriter, r *http.Request) (*Cart, bool) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "not logged in", nil)
		return nil, false
	}
	return h.carts.For(sess.ID), true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.cartFor(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, NewView(c.Snapshot()))
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	c, ok := h.cartFor(w, r)
	if !ok {
		return
	}
	var req addRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	var p *catalog.Product
	var err error
	switch {
	case req.ProductID > 0:
		p, err = h.products.GetProduct(r.Context(), req.ProductID)
	case strings.TrimSpace(req.Barcode) != "":
		p, err = h.products.FindByBarcode(r.Context(), strings.TrimSpace(req.Barcode))
	default:
		err = apperr.Invalid("product_id or barcode is required")
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if p == nil {
		httpx.JSONError(w, http.StatusNotFound, "product not found", nil)
		return
	}

	if err := c.AddOrIncrement(p, req.Quantity); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewView(c.Snapshot()))
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	c, ok := h.cartFor(w, r)
	if !ok {
		return
	}
	id, err := httpx.IDParam(r, "productID")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req quantityRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if req.Quantity <= 0 {
		c.Remove(id)
		httpx.JSON(w, http.StatusOK, NewView(c.Snapshot()))
		return
	}

	p, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if p == nil {
		httpx.JSONError(w, http.StatusNotFound, "product not found", nil)
		return
	}
	if err := c.SetQuantity(p, req.Quantity); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewView(c.Snapshot()))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	c, ok := h.cartFor(w, r)
	if !ok {
		return
	}
	id, err := httpx.IDParam(r, "productID")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	c.Remove(id)
	httpx.JSON(w, http.StatusOK, NewView(c.Snapshot()))
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	c, ok := h.cartFor(w, r)
	if !ok {
		return
	}
	c.Clear()
	w.WriteHeader(http.StatusNoContent)
}
