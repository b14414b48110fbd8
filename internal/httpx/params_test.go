package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/Guizaa22/2M-market/internal/apperr"
)

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestIDParam(t *testing.T) {
	req := withParam(httptest.NewRequest(http.MethodGet, "/products/42", nil), "id", "42")
	id, err := IDParam(req, "id")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		req := withParam(httptest.NewRequest(http.MethodGet, "/products/x", nil), "id", bad)
		_, err := IDParam(req, "id")
		assert.ErrorIs(t, err, apperr.ErrValidation, bad)
	}
}

func TestIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/top?limit=5&bad=x", nil)
	assert.Equal(t, 5, IntQuery(req, "limit", 10))
	assert.Equal(t, 10, IntQuery(req, "bad", 10))
	assert.Equal(t, 3, IntQuery(req, "missing", 3))
}
