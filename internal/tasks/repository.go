package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Filter narrows task listings.
type Filter struct {
	ProjectID  int64
	AssigneeID int64
	Status     Status
}

// Repository defines persistence for tasks.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Task, error)
	Get(ctx context.Context, id int64) (*Task, error)
	Create(ctx context.Context, t *Task) (*Task, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*Task, error)
	Delete(ctx context.Context, id int64) error
}

// UpdateInput carries patch semantics for task updates.
type UpdateInput struct {
	Title       shared.Patch[string]
	Description shared.Patch[*string]
	AssigneeID  shared.Patch[*int64]
	Status      shared.Patch[Status]
	Priority    shared.Patch[Priority]
	DueDate     shared.Patch[*time.Time]
	CompletedAt shared.Patch[*time.Time]
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const taskColumns = `id, project_id, title, description, assignee_id, status, priority, due_date, completed_at, created_by, created_at, updated_at`

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.AssigneeID, &t.Status,
		&t.Priority, &t.DueDate, &t.CompletedAt, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: task not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &t, nil
}

// List returns tasks matching the filter.
func (r *PGRepository) List(ctx context.Context, f Filter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var where []string
	var args []any
	if f.ProjectID != 0 {
		args = append(args, f.ProjectID)
		where = append(where, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if f.AssigneeID != 0 {
		args = append(args, f.AssigneeID)
		where = append(where, fmt.Sprintf("assignee_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get fetches one task.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

// Create inserts a task.
func (r *PGRepository) Create(ctx context.Context, t *Task) (*Task, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO tasks (project_id, title, description, assignee_id, status, priority, due_date, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		 RETURNING `+taskColumns,
		t.ProjectID, t.Title, t.Description, t.AssigneeID, t.Status, t.Priority, t.DueDate, t.CreatedBy)
	return scanTask(row)
}

// Update applies only the provided fields.
func (r *PGRepository) Update(ctx context.Context, id int64, in UpdateInput) (*Task, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if in.Title.Set() {
		add("title", in.Title.Value())
	}
	if in.Description.Set() {
		add("description", in.Description.Value())
	}
	if in.AssigneeID.Set() {
		add("assignee_id", in.AssigneeID.Value())
	}
	if in.Status.Set() {
		add("status", in.Status.Value())
	}
	if in.Priority.Set() {
		add("priority", in.Priority.Value())
	}
	if in.DueDate.Set() {
		add("due_date", in.DueDate.Value())
	}
	if in.CompletedAt.Set() {
		add("completed_at", in.CompletedAt.Value())
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: task not found", httpx.ErrNotFound)
	}
	return r.Get(ctx, id)
}

// Delete removes a task.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: task not found", httpx.ErrNotFound)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
