package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Guizaa22/2M-market/internal/modules/account"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers malformed, expired, forged and revoked tokens.
	ErrInvalidToken = errors.New("invalid session token")
)

// Session is the logged-in operator of a till. Its ID keys the session's cart.
type Session struct {
	ID        uuid.UUID    `json:"id"`
	AccountID int64        `json:"account_id"`
	Username  string       `json:"username"`
	Role      account.Role `json:"role"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (s *Session) IsAdmin() bool { return s.Role == account.RoleAdmin }

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, username, password string) (string, *Session, error)
	Parse(token string) (*Session, error)
	// Logout closes the session and runs the store's close hook.
	Logout(sessionID uuid.UUID)
}

// Authenticator checks credentials. account.Service satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*account.Account, error)
}
