package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *PGRepository) CountEmployees(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM employees`)
}

func (r *PGRepository) CountAttendanceToday(ctx context.Context, status string) (int, error) {
	return r.count(ctx,
		`SELECT count(*) FROM attendance WHERE date = current_date AND status = $1`, status)
}

func (r *PGRepository) CountActiveProjects(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM projects WHERE status = 'active'`)
}

func (r *PGRepository) CountPendingTasks(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM tasks WHERE status IN ('todo', 'in_progress', 'in_review')`)
}

func (r *PGRepository) CountOverdueTasks(ctx context.Context) (int, error) {
	return r.count(ctx,
		`SELECT count(*) FROM tasks
		 WHERE due_date < current_date AND status NOT IN ('completed', 'cancelled')`)
}

func (r *PGRepository) CountDraftBlogs(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM blogs WHERE status = 'draft'`)
}

func (r *PGRepository) CountUserPendingTasks(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx,
		`SELECT count(*) FROM tasks
		 WHERE assignee_id = $1 AND status IN ('todo', 'in_progress', 'in_review')`, userID)
}

func (r *PGRepository) CountUserCompletedThisMonth(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx,
		`SELECT count(*) FROM tasks
		 WHERE assignee_id = $1 AND status = 'completed'
		   AND completed_at >= date_trunc('month', current_date)`, userID)
}

func (r *PGRepository) CountUserOverdueTasks(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx,
		`SELECT count(*) FROM tasks
		 WHERE assignee_id = $1 AND due_date < current_date
		   AND status NOT IN ('completed', 'cancelled')`, userID)
}

func (r *PGRepository) CountUserActiveProjects(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx,
		`SELECT count(DISTINCT t.project_id) FROM tasks t
		 JOIN projects p ON p.id = t.project_id
		 WHERE t.assignee_id = $1 AND p.status = 'active'`, userID)
}

func (r *PGRepository) CountUserUnreadNotifications(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND read = false`, userID)
}

var _ Repository = (*PGRepository)(nil)
