package employees

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

// Repository defines persistence for employee profiles.
type Repository interface {
	List(ctx context.Context, department string) ([]Employee, error)
	Get(ctx context.Context, id int64) (*Employee, error)
	GetByUserID(ctx context.Context, userID int64) (*Employee, error)
	Create(ctx context.Context, emp *Employee) (*Employee, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*Employee, error)
	Delete(ctx context.Context, id int64) error
}

// UpdateInput carries patch semantics: only provided fields are applied.
type UpdateInput struct {
	FirstName     shared.Patch[string]
	LastName      shared.Patch[string]
	Phone         shared.Patch[*string]
	Department    shared.Patch[*string]
	Designation   shared.Patch[*string]
	DateOfJoining shared.Patch[*time.Time]
	DateOfBirth   shared.Patch[*time.Time]
	Address       shared.Patch[*string]
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const employeeColumns = `e.id, e.user_id, e.employee_code, e.first_name, e.last_name, e.phone,
	e.department, e.designation, e.date_of_joining, e.date_of_birth, e.address,
	e.created_at, e.updated_at, u.email, u.username, u.role`

const employeeFrom = ` FROM employees e JOIN users u ON u.id = e.user_id`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.UserID, &e.EmployeeCode, &e.FirstName, &e.LastName, &e.Phone,
		&e.Department, &e.Designation, &e.DateOfJoining, &e.DateOfBirth, &e.Address,
		&e.CreatedAt, &e.UpdatedAt, &e.Email, &e.Username, &e.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: employee not found", httpx.ErrNotFound)
		}
		return nil, err
	}
	return &e, nil
}

// List returns employees, optionally filtered by department.
func (r *PGRepository) List(ctx context.Context, department string) ([]Employee, error) {
	query := `SELECT ` + employeeColumns + employeeFrom
	args := []any{}
	if department != "" {
		query += ` WHERE e.department = $1`
		args = append(args, department)
	}
	query += ` ORDER BY e.id`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

// Get fetches one employee with user fields joined.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+employeeFrom+` WHERE e.id = $1`, id)
	return scanEmployee(row)
}

// GetByUserID fetches the profile linked to a user account.
func (r *PGRepository) GetByUserID(ctx context.Context, userID int64) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+employeeFrom+` WHERE e.user_id = $1`, userID)
	return scanEmployee(row)
}

// Create inserts a profile inside one transaction: the user must exist and
// must not already have a profile. A failure at any step leaves no rows.
func (r *PGRepository) Create(ctx context.Context, emp *Employee) (*Employee, error) {
	var created *Employee
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, emp.UserID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: user not found", httpx.ErrNotFound)
		}
		var id int64
		err := tx.QueryRow(ctx,
			`INSERT INTO employees (user_id, employee_code, first_name, last_name, phone, department,
			                        designation, date_of_joining, date_of_birth, address, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
			 RETURNING id`,
			emp.UserID, emp.EmployeeCode, emp.FirstName, emp.LastName, emp.Phone, emp.Department,
			emp.Designation, emp.DateOfJoining, emp.DateOfBirth, emp.Address).Scan(&id)
		if err != nil {
			switch {
			case db.IsUniqueViolation(err, "employees_employee_code_key"):
				return fmt.Errorf("%w: employee code already exists", httpx.ErrConflict)
			case db.IsUniqueViolation(err, "employees_user_id_key"):
				return fmt.Errorf("%w: user already has an employee profile", httpx.ErrConflict)
			}
			return err
		}
		row := tx.QueryRow(ctx, `SELECT `+employeeColumns+employeeFrom+` WHERE e.id = $1`, id)
		created, err = scanEmployee(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies only the provided fields.
func (r *PGRepository) Update(ctx context.Context, id int64, in UpdateInput) (*Employee, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if in.FirstName.Set() {
		add("first_name", in.FirstName.Value())
	}
	if in.LastName.Set() {
		add("last_name", in.LastName.Value())
	}
	if in.Phone.Set() {
		add("phone", in.Phone.Value())
	}
	if in.Department.Set() {
		add("department", in.Department.Value())
	}
	if in.Designation.Set() {
		add("designation", in.Designation.Value())
	}
	if in.DateOfJoining.Set() {
		add("date_of_joining", in.DateOfJoining.Value())
	}
	if in.DateOfBirth.Set() {
		add("date_of_birth", in.DateOfBirth.Value())
	}
	if in.Address.Set() {
		add("address", in.Address.Value())
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE employees SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: employee not found", httpx.ErrNotFound)
	}
	return r.Get(ctx, id)
}

// Delete removes the profile.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: employee not found", httpx.ErrNotFound)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
