package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Guizaa22/2M-market/internal/httpx"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string   `json:"token"`
	Session *Session `json:"session"`
}

func (h *Handler) RegisterRoutes(r chi.Router, requireSession func(http.Handler) http.Handler) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			r.Post("/logout", h.logout)
			r.Get("/me", h.me)
		})
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	token, sess, err := h.service.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		httpx.JSONError(w, http.StatusUnauthorized, "incorrect username or password", nil)
		return
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "session opened",
		slog.String("username", sess.Username),
		slog.String("role", string(sess.Role)),
		slog.String("session_id", sess.ID.String()))
	httpx.JSON(w, http.StatusOK, loginResponse{Token: token, Session: sess})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := FromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "not logged in", nil)
		return
	}
	h.service.Logout(sess.ID)
	slog.InfoContext(r.Context(), "session closed", slog.String("session_id", sess.ID.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	sess, _ := FromContext(r.Context())
	httpx.JSON(w, http.StatusOK, sess)
}
