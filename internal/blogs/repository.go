package blogs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rubankumarsankar/new-b/internal/platform/db"
	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Filter narrows blog listings.
type Filter struct {
	AuthorID int64
	Status   Status
}

// Repository defines persistence for blog posts.
type Repository interface {
	List(ctx context.Context, f Filter, limit, offset int) ([]Blog, int, error)
	Get(ctx context.Context, id int64) (*Blog, error)
	GetBySlug(ctx context.Context, slug string) (*Blog, error)
	Create(ctx context.Context, b *Blog) (*Blog, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*Blog, error)
	Delete(ctx context.Context, id int64) error
}

// UpdateInput carries patch semantics for post updates.
type UpdateInput struct {
	Title       shared.Patch[string]
	Slug        shared.Patch[string]
	Content     shared.Patch[string]
	Excerpt     shared.Patch[*string]
	Status      shared.Patch[Status]
	PublishedAt shared.Patch[*time.Time]
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const blogColumns = `b.id, b.title, b.slug, b.content, b.excerpt, b.status, b.author_id,
	b.published_at, b.created_at, b.updated_at, u.username`

const blogFrom = ` FROM blogs b JOIN users u ON u.id = b.author_id`

func scanBlog(row pgx.Row) (*Blog, error) {
	var b Blog
	err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Content, &b.Excerpt, &b.Status, &b.AuthorID,
		&b.PublishedAt, &b.CreatedAt, &b.UpdatedAt, &b.AuthorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: blog not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &b, nil
}

// List returns posts matching the filter, newest first, with a total count.
func (r *PGRepository) List(ctx context.Context, f Filter, limit, offset int) ([]Blog, int, error) {
	var where []string
	var args []any
	if f.AuthorID != 0 {
		args = append(args, f.AuthorID)
		where = append(where, fmt.Sprintf("b.author_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("b.status = $%d", len(args)))
	}
	clause := ""
	if len(where) > 0 {
		clause = ` WHERE ` + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*)`+blogFrom+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := `SELECT ` + blogColumns + blogFrom + clause +
		fmt.Sprintf(` ORDER BY b.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var blogs []Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, err
		}
		blogs = append(blogs, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

// Get fetches one post by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Blog, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+blogColumns+blogFrom+` WHERE b.id = $1`, id)
	return scanBlog(row)
}

// GetBySlug fetches one post by slug.
func (r *PGRepository) GetBySlug(ctx context.Context, slug string) (*Blog, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+blogColumns+blogFrom+` WHERE b.slug = $1`, slug)
	return scanBlog(row)
}

// Create inserts a post. Slugs are unique.
func (r *PGRepository) Create(ctx context.Context, b *Blog) (*Blog, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO blogs (title, slug, content, excerpt, status, author_id, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		 RETURNING id`,
		b.Title, b.Slug, b.Content, b.Excerpt, b.Status, b.AuthorID, b.PublishedAt).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err, "blogs_slug_key") {
			return nil, fmt.Errorf("%w: slug already in use", httpx.ErrConflict)
		}
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update applies only the provided fields.
func (r *PGRepository) Update(ctx context.Context, id int64, in UpdateInput) (*Blog, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if in.Title.Set() {
		add("title", in.Title.Value())
	}
	if in.Slug.Set() {
		add("slug", in.Slug.Value())
	}
	if in.Content.Set() {
		add("content", in.Content.Value())
	}
	if in.Excerpt.Set() {
		add("excerpt", in.Excerpt.Value())
	}
	if in.Status.Set() {
		add("status", in.Status.Value())
	}
	if in.PublishedAt.Set() {
		add("published_at", in.PublishedAt.Value())
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE blogs SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		if db.IsUniqueViolation(err, "blogs_slug_key") {
			return nil, fmt.Errorf("%w: slug already in use", httpx.ErrConflict)
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: blog not found", httpx.ErrNotFound)
	}
	return r.Get(ctx, id)
}

// Delete removes a post.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: blog not found", httpx.ErrNotFound)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
