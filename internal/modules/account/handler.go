package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Guizaa22/2M-market/internal/httpx"
)

// ActorFunc resolves the account performing a request.
type ActorFunc func(r *http.Request) (int64, bool)

type Handler struct {
	service Service
	actor   ActorFunc
}

func NewHandler(service Service, actor ActorFunc) *Handler {
	return &Handler{service: service, actor: actor}
}

// RegisterRoutes mounts account management; every route requires an administrator.
func (h *Handler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/v1/accounts", func(r chi.Router) {
		r.Use(adminOnly)
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/usernames/{username}/exists", h.usernameExists)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.FindAll(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if accounts == nil {
		accounts = []*Account{}
	}
	httpx.JSON(w, http.StatusOK, accounts)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	a, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	a, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if a == nil {
		httpx.JSONError(w, http.StatusNotFound, "account not found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req UpdateRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	a, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if actorID, ok := h.actor(r); ok && actorID == id {
		httpx.JSONError(w, http.StatusConflict, "you cannot delete the account you are logged in with", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) usernameExists(w http.ResponseWriter, r *http.Request) {
	exclude := int64(httpx.IntQuery(r, "exclude_id", 0))
	exists, err := h.service.UsernameExists(r.Context(), chi.URLParam(r, "username"), exclude)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"exists": exists})
}
