package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/Guizaa22/2M-market/internal/modules/account"
)

type claims struct {
	AccountID int64  `json:"aid"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	jwt.StandardClaims
}

type service struct {
	accounts Authenticator
	sessions *Sessions
	key      []byte
	ttl      time.Duration
}

// NewService creates a new auth service signing HS256 tokens with secret.
func NewService(accounts Authenticator, sessions *Sessions, secret string, ttl time.Duration) Service {
	return &service{
		accounts: accounts,
		sessions: sessions,
		key:      []byte(secret),
		ttl:      ttl,
	}
}

func (s *service) Login(ctx context.Context, username, password string) (string, *Session, error) {
	a, err := s.accounts.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	if a == nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	sess := &Session{
		ID:        uuid.New(),
		AccountID: a.ID,
		Username:  a.Username,
		Role:      a.Role,
		ExpiresAt: now.Add(s.ttl),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		AccountID: a.ID,
		Username:  a.Username,
		Role:      string(a.Role),
		StandardClaims: jwt.StandardClaims{
			Id:        sess.ID.String(),
			Subject:   a.Username,
			IssuedAt:  now.Unix(),
			ExpiresAt: sess.ExpiresAt.Unix(),
		},
	})
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	s.sessions.add(sess)
	return tokenString, sess, nil
}

func (s *service) Parse(tokenString string) (*Session, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(tokenString, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := uuid.Parse(c.Id)
	if err != nil {
		return nil, fmt.Errorf("%w: bad session id", ErrInvalidToken)
	}

	sess, err := s.sessions.lookup(id)
	if err != nil {
		return nil, err
	}
	if sess.AccountID != c.AccountID || sess.Role != account.Role(c.Role) {
		return nil, ErrInvalidToken
	}
	return sess, nil
}

func (s *service) Logout(sessionID uuid.UUID) {
	s.sessions.Close(sessionID)
}
