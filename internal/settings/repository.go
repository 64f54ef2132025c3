package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
)

// Repository defines persistence for system settings.
type Repository interface {
	List(ctx context.Context, category string) ([]Setting, error)
	Get(ctx context.Context, key string) (*Setting, error)
	UpdateValue(ctx context.Context, key, value string) (*Setting, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const settingColumns = `id, key, value, category, description, updated_at`

func scanSetting(row pgx.Row) (*Setting, error) {
	var s Setting
	err := row.Scan(&s.ID, &s.Key, &s.Value, &s.Category, &s.Description, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: setting not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &s, nil
}

// List returns settings, optionally filtered by category.
func (r *PGRepository) List(ctx context.Context, category string) ([]Setting, error) {
	query := `SELECT ` + settingColumns + ` FROM settings`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY key`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one setting by key.
func (r *PGRepository) Get(ctx context.Context, key string) (*Setting, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+settingColumns+` FROM settings WHERE key = $1`, key)
	return scanSetting(row)
}

// UpdateValue replaces the value of an existing key.
func (r *PGRepository) UpdateValue(ctx context.Context, key, value string) (*Setting, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE settings SET value = $2, updated_at = now() WHERE key = $1 RETURNING `+settingColumns,
		key, value)
	return scanSetting(row)
}

var _ Repository = (*PGRepository)(nil)
