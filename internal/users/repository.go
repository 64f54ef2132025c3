package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/rbac"
)

// Repository defines persistence for account administration.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]User, int, error)
	Get(ctx context.Context, id int64) (*User, error)
	SetRole(ctx context.Context, id int64, role rbac.Role) (*User, error)
	SetActive(ctx context.Context, id int64, active bool) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, email, username, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}

// List returns accounts with a total count.
func (r *PGRepository) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Get fetches one account.
func (r *PGRepository) Get(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// SetRole changes an account's role.
func (r *PGRepository) SetRole(ctx context.Context, id int64, role rbac.Role) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET role = $2, updated_at = now() WHERE id = $1 RETURNING `+userColumns,
		id, role)
	return scanUser(row)
}

// SetActive flips an account's active flag.
func (r *PGRepository) SetActive(ctx context.Context, id int64, active bool) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1 RETURNING `+userColumns,
		id, active)
	return scanUser(row)
}

var _ Repository = (*PGRepository)(nil)
