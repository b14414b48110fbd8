package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Guizaa22/2M-market/internal/apperr"
	"github.com/Guizaa22/2M-market/internal/database"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL account repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, a *Account) error {
	query := `
		INSERT INTO accounts (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, a.Username, a.PasswordHash, a.Role).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return apperr.Conflict("username %q already taken", a.Username)
	}
	return apperr.Persistence("insert account", err)
}

func (r *postgresRepository) Update(ctx context.Context, a *Account) error {
	query := `
		UPDATE accounts
		SET username = $1, password_hash = $2, role = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, a.Username, a.PasswordHash, a.Role, a.ID).Scan(&a.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("account", a.ID)
	case database.IsUniqueViolation(err):
		return apperr.Conflict("username %q already taken", a.Username)
	}
	return apperr.Persistence("update account", err)
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if database.IsForeignKeyViolation(err) {
		return apperr.Conflict("account %d has recorded sales", id)
	}
	if err != nil {
		return apperr.Persistence("delete account", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Persistence("delete account", err)
	}
	if n == 0 {
		return apperr.NotFound("account", id)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	query := `
		SELECT id, username, password_hash, role, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	return r.findOne(ctx, query, id)
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	query := `
		SELECT id, username, password_hash, role, created_at, updated_at
		FROM accounts
		WHERE username = $1
	`
	return r.findOne(ctx, query, username)
}

func (r *postgresRepository) FindAll(ctx context.Context) ([]*Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, password_hash, role, created_at, updated_at
		FROM accounts
		ORDER BY username
	`)
	if err != nil {
		return nil, apperr.Persistence("list accounts", err)
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		a := &Account{}
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, apperr.Persistence("scan account", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, apperr.Persistence("list accounts", rows.Err())
}

func (r *postgresRepository) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE LOWER(username) = LOWER($1) AND id <> $2)`,
		username, excludeID).Scan(&exists)
	if err != nil {
		return false, apperr.Persistence("check username", err)
	}
	return exists, nil
}

func (r *postgresRepository) CountByRole(ctx context.Context, role Role) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE role = $1`, role).Scan(&n); err != nil {
		return 0, apperr.Persistence("count accounts", err)
	}
	return n, nil
}

func (r *postgresRepository) findOne(ctx context.Context, query string, arg any) (*Account, error) {
	a := &Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.Role,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence("find account", err)
	}
	return a, nil
}
