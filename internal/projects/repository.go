package projects

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

// Repository defines persistence for projects.
type Repository interface {
	List(ctx context.Context, status Status) ([]Project, error)
	Get(ctx context.Context, id int64) (*Project, error)
	Create(ctx context.Context, p *Project) (*Project, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*Project, error)
	Delete(ctx context.Context, id int64) error
}

// UpdateInput carries patch semantics for project updates.
type UpdateInput struct {
	Name        shared.Patch[string]
	Description shared.Patch[*string]
	Status      shared.Patch[Status]
	StartDate   shared.Patch[*time.Time]
	EndDate     shared.Patch[*time.Time]
	ManagerID   shared.Patch[*int64]
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const projectColumns = `id, name, code, description, status, start_date, end_date, manager_id, created_by, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Code, &p.Description, &p.Status, &p.StartDate,
		&p.EndDate, &p.ManagerID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: project not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// List returns projects, optionally filtered by status.
func (r *PGRepository) List(ctx context.Context, status Status) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY id DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

// Get fetches one project.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

// Create inserts a project. The code is unique across all projects.
func (r *PGRepository) Create(ctx context.Context, p *Project) (*Project, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO projects (name, code, description, status, start_date, end_date, manager_id, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		 RETURNING `+projectColumns,
		p.Name, p.Code, p.Description, p.Status, p.StartDate, p.EndDate, p.ManagerID, p.CreatedBy)
	created, err := scanProject(row)
	if err != nil {
		if db.IsUniqueViolation(err, "projects_code_key") {
			return nil, fmt.Errorf("%w: project code already exists", httpx.ErrConflict)
		}
		return nil, err
	}
	return created, nil
}

// Update applies only the provided fields.
func (r *PGRepository) Update(ctx context.Context, id int64, in UpdateInput) (*Project, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if in.Name.Set() {
		add("name", in.Name.Value())
	}
	if in.Description.Set() {
		add("description", in.Description.Value())
	}
	if in.Status.Set() {
		add("status", in.Status.Value())
	}
	if in.StartDate.Set() {
		add("start_date", in.StartDate.Value())
	}
	if in.EndDate.Set() {
		add("end_date", in.EndDate.Value())
	}
	if in.ManagerID.Set() {
		add("manager_id", in.ManagerID.Value())
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: project not found", httpx.ErrNotFound)
	}
	return r.Get(ctx, id)
}

// Delete removes a project.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: project not found", httpx.ErrNotFound)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
