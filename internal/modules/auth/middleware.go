package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/Guizaa22/2M-market/internal/httpx"
	"github.com/Guizaa22/2M-market/internal/modules/account"
)

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by RequireSession.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// AccountID reports the account behind the request, if any.
func AccountID(r *http.Request) (int64, bool) {
	s, ok := FromContext(r.Context())
	if !ok {
		return 0, false
	}
	return s.AccountID, true
}

// RequireSession rejects requests without a valid bearer token.
func RequireSession(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}
			sess, err := svc.Parse(token)
			if err != nil {
				httpx.JSONError(w, http.StatusUnauthorized, ErrInvalidToken.Error(), nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireRole must run after RequireSession.
func RequireRole(role account.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := FromContext(r.Context())
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "not logged in", nil)
				return
			}
			if sess.Role != role {
				httpx.JSONError(w, http.StatusForbidden, "insufficient role", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
