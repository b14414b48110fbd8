package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Guizaa22/2M-market/internal/apperr"
)

const minPasswordLength = 4

// Service defines account management and credential checks.
type Service interface {
	// Authenticate returns the matching account, or nil when the username is
	// unknown or the password does not match.
	Authenticate(ctx context.Context, username, password string) (*Account, error)

	Create(ctx context.Context, req CreateRequest) (*Account, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Account, error)
	Delete(ctx context.Context, id int64) error
	UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	FindAll(ctx context.Context) ([]*Account, error)

	// EnsureAdmin creates an administrator when no account holds the ADMIN role.
	EnsureAdmin(ctx context.Context, username, password string) error
}

// RevokeFunc ends the open sessions of an account.
type RevokeFunc func(accountID int64)

type service struct {
	repo   Repository
	hasher Hasher
	revoke RevokeFunc
}

// NewService creates a new account service. revoke runs after an account is
// deleted or its username, role or password changes, and may be nil.
func NewService(repo Repository, hasher Hasher, revoke RevokeFunc) Service {
	return &service{repo: repo, hasher: hasher, revoke: revoke}
}

func (s *service) Authenticate(ctx context.Context, username, password string) (*Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil
	}
	a, err := s.repo.FindByUsername(ctx, username)
	if err != nil || a == nil {
		return nil, err
	}
	if !s.hasher.Verify(a.PasswordHash, password) {
		return nil, nil
	}
	return a, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Account, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperr.Invalid("username is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperr.Invalid("password must be at least %d characters", minPasswordLength)
	}
	role, ok := ParseRole(req.Role)
	if !ok {
		return nil, apperr.Invalid("invalid role %q (allowed: ADMIN, EMPLOYEE)", req.Role)
	}
	if err := s.ensureUsernameFree(ctx, username, 0); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	a := &Account{Username: username, PasswordHash: hash, Role: role}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*Account, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("account", id)
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperr.Invalid("username is required")
	}
	role, ok := ParseRole(req.Role)
	if !ok {
		return nil, apperr.Invalid("invalid role %q (allowed: ADMIN, EMPLOYEE)", req.Role)
	}
	if !strings.EqualFold(username, a.Username) {
		if err := s.ensureUsernameFree(ctx, username, id); err != nil {
			return nil, err
		}
	}
	if a.IsAdmin() && role != RoleAdmin {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return nil, err
		}
	}
	changed := username != a.Username || role != a.Role || req.Password != ""
	if req.Password != "" {
		if len(req.Password) < minPasswordLength {
			return nil, apperr.Invalid("password must be at least %d characters", minPasswordLength)
		}
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, err
		}
		a.PasswordHash = hash
	}

	a.Username = username
	a.Role = role
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	if changed {
		s.endSessions(id)
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if a == nil {
		return apperr.NotFound("account", id)
	}
	if a.IsAdmin() {
		if err := s.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.endSessions(id)
	return nil
}

func (s *service) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	return s.repo.UsernameExists(ctx, strings.TrimSpace(username), excludeID)
}

func (s *service) FindByID(ctx context.Context, id int64) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) FindAll(ctx context.Context) ([]*Account, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) EnsureAdmin(ctx context.Context, username, password string) error {
	n, err := s.repo.CountByRole(ctx, RoleAdmin)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if password == "" {
		slog.Warn("no administrator account exists and ADMIN_PASSWORD is empty; skipping bootstrap")
		return nil
	}
	a, err := s.Create(ctx, CreateRequest{Username: username, Password: password, Role: string(RoleAdmin)})
	if err != nil {
		return err
	}
	slog.Info("bootstrap administrator created", slog.String("username", a.Username))
	return nil
}

func (s *service) ensureUsernameFree(ctx context.Context, username string, excludeID int64) error {
	taken, err := s.repo.UsernameExists(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("username %q already taken", username)
	}
	return nil
}

func (s *service) endSessions(accountID int64) {
	if s.revoke != nil {
		s.revoke(accountID)
	}
}

// ensureAnotherAdmin refuses to remove the last administrator.
func (s *service) ensureAnotherAdmin(ctx context.Context) error {
	n, err := s.repo.CountByRole(ctx, RoleAdmin)
	if err != nil {
		return err
	}
	if n <= 1 {
		return apperr.Conflict("at least one administrator account must remain")
	}
	return nil
}
