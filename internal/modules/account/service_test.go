package account

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Guizaa22/2M-market/internal/apperr"
)

type memRepo struct {
	nextID   int64
	accounts map[int64]*Account
}

func newMemRepo() *memRepo { return &memRepo{accounts: map[int64]*Account{}} }

func (m *memRepo) Create(_ context.Context, a *Account) error {
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *memRepo) Update(_ context.Context, a *Account) error {
	if _, ok := m.accounts[a.ID]; !ok {
		return apperr.NotFound("account", a.ID)
	}
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.accounts[id]; !ok {
		return apperr.NotFound("account", id)
	}
	delete(m.accounts, id)
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id int64) (*Account, error) {
	if a, ok := m.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (m *memRepo) FindByUsername(_ context.Context, username string) (*Account, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) FindAll(context.Context) ([]*Account, error) {
	var out []*Account
	for _, a := range m.accounts {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memRepo) UsernameExists(_ context.Context, username string, excludeID int64) (bool, error) {
	for _, a := range m.accounts {
		if strings.EqualFold(a.Username, username) && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) CountByRole(_ context.Context, role Role) (int, error) {
	n := 0
	for _, a := range m.accounts {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

// plainHasher keeps tests fast; bcrypt itself is covered by TestBcryptHasher.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(h, p string) bool { return h == "hashed:"+p }

func newService() (Service, *memRepo) {
	repo := newMemRepo()
	return NewService(repo, plainHasher{}, nil), repo
}

func TestCreateAndAuthenticate(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateRequest{Username: "samira", Password: "s3cret", Role: "employee"})
	require.NoError(t, err)
	assert.Equal(t, RoleEmployee, a.Role)
	assert.Equal(t, "hashed:s3cret", repo.accounts[a.ID].PasswordHash)

	got, err := svc.Authenticate(ctx, "samira", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.ID, got.ID)
}

func TestAuthenticateFailuresReturnNil(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateRequest{Username: "samira", Password: "s3cret", Role: "EMPLOYEE"})
	require.NoError(t, err)

	for _, tc := range []struct{ user, pass string }{
		{"samira", "wrong"},
		{"unknown", "s3cret"},
		{"", "s3cret"},
		{"samira", ""},
	} {
		a, err := svc.Authenticate(ctx, tc.user, tc.pass)
		assert.NoError(t, err)
		assert.Nil(t, a, "%s/%s", tc.user, tc.pass)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Username: "", Password: "pass", Role: "ADMIN"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(ctx, CreateRequest{Username: "x", Password: "abc", Role: "ADMIN"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(ctx, CreateRequest{Username: "x", Password: "abcd", Role: "MANAGER"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateDuplicateUsername(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateRequest{Username: "karim", Password: "pass1", Role: "ADMIN"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateRequest{Username: "Karim", Password: "pass2", Role: "EMPLOYEE"})

	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdateRenameConflictAndPassword(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateRequest{Username: "karim", Password: "pass1", Role: "ADMIN"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CreateRequest{Username: "nadia", Password: "pass2", Role: "EMPLOYEE"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, b.ID, UpdateRequest{Username: "karim", Role: "EMPLOYEE"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	updated, err := svc.Update(ctx, b.ID, UpdateRequest{Username: "nadia", Role: "EMPLOYEE"})
	require.NoError(t, err)
	assert.Equal(t, "hashed:pass2", repo.accounts[updated.ID].PasswordHash, "empty password keeps the hash")

	_, err = svc.Update(ctx, b.ID, UpdateRequest{Username: "nadia", Password: "newpass", Role: "EMPLOYEE"})
	require.NoError(t, err)
	assert.Equal(t, "hashed:newpass", repo.accounts[b.ID].PasswordHash)
}

func TestLastAdminIsProtected(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	admin, err := svc.Create(ctx, CreateRequest{Username: "karim", Password: "pass1", Role: "ADMIN"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, admin.ID, UpdateRequest{Username: "karim", Role: "EMPLOYEE"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	err = svc.Delete(ctx, admin.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Create(ctx, CreateRequest{Username: "nadia", Password: "pass2", Role: "ADMIN"})
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(ctx, admin.ID))
}

func TestSessionsEndWhenAccountChanges(t *testing.T) {
	repo := newMemRepo()
	var revoked []int64
	svc := NewService(repo, plainHasher{}, func(id int64) { revoked = append(revoked, id) })
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateRequest{Username: "karim", Password: "pass1", Role: "ADMIN"})
	require.NoError(t, err)
	nadia, err := svc.Create(ctx, CreateRequest{Username: "nadia", Password: "pass2", Role: "ADMIN"})
	require.NoError(t, err)
	assert.Empty(t, revoked)

	_, err = svc.Update(ctx, nadia.ID, UpdateRequest{Username: "nadia", Role: "ADMIN"})
	require.NoError(t, err)
	assert.Empty(t, revoked, "saving unchanged details keeps sessions")

	_, err = svc.Update(ctx, nadia.ID, UpdateRequest{Username: "nadia", Role: "EMPLOYEE"})
	require.NoError(t, err)
	assert.Equal(t, []int64{nadia.ID}, revoked, "demotion")

	_, err = svc.Update(ctx, nadia.ID, UpdateRequest{Username: "nadia", Password: "newpass", Role: "EMPLOYEE"})
	require.NoError(t, err)
	assert.Len(t, revoked, 2, "password change")

	_, err = svc.Update(ctx, nadia.ID, UpdateRequest{Username: "karim", Role: "EMPLOYEE"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Len(t, revoked, 2, "failed update keeps sessions")

	require.NoError(t, svc.Delete(ctx, nadia.ID))
	assert.Equal(t, []int64{nadia.ID, nadia.ID, nadia.ID}, revoked)

	assert.ErrorIs(t, svc.Delete(ctx, nadia.ID), apperr.ErrNotFound)
	assert.Len(t, revoked, 3)
}

func TestDeleteMissing(t *testing.T) {
	svc, _ := newService()
	assert.ErrorIs(t, svc.Delete(context.Background(), 42), apperr.ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", ""))
	assert.Empty(t, repo.accounts, "no password, no bootstrap")

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "changeme"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "changeme"))
	assert.Len(t, repo.accounts, 1)

	a, err := svc.Authenticate(ctx, "admin", "changeme")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.True(t, a.IsAdmin())
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, h.Verify(hash, "s3cret"))
	assert.False(t, h.Verify(hash, "S3cret"))
	assert.False(t, h.Verify("not-a-hash", "s3cret"))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" admin ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	_, ok = ParseRole("owner")
	assert.False(t, ok)
}
