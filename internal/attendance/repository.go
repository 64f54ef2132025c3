package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rubankumarsankar/new-b/internal/platform/db"
	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
)

// Repository defines persistence for attendance records.
type Repository interface {
	EmployeeIDForUser(ctx context.Context, userID int64) (int64, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*Record, error)
	Create(ctx context.Context, rec *Record) (*Record, error)
	SetCheckIn(ctx context.Context, id int64, checkIn time.Time, status Status) (*Record, error)
	SetCheckOut(ctx context.Context, id int64, checkOut time.Time, workingHours float64) (*Record, error)
	ListByEmployee(ctx context.Context, employeeID int64, limit, offset int) ([]Record, int, error)
	ListForDate(ctx context.Context, date time.Time) ([]DayEntry, error)
	Override(ctx context.Context, employeeID int64, date time.Time, status Status, remarks string) (*Record, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const recordColumns = `id, employee_id, date, check_in_time, check_out_time, status, working_hours, remarks, created_at, updated_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	var remarks *string
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckIn, &rec.CheckOut,
		&rec.Status, &rec.WorkingHours, &remarks, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	if remarks != nil {
		rec.Remarks = *remarks
	}
	return &rec, nil
}

// EmployeeIDForUser resolves the employee profile behind a user account.
func (r *PGRepository) EmployeeIDForUser(ctx context.Context, userID int64) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM employees WHERE user_id = $1`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: employee profile not found", httpx.ErrNotFound)
		}
		return 0, err
	}
	return id, nil
}

// FindByEmployeeAndDate fetches the day's record, if any.
func (r *PGRepository) FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*Record, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM attendance WHERE employee_id = $1 AND date = $2`,
		employeeID, date)
	return scanRecord(row)
}

// Create inserts a fresh record. The unique index on (employee_id, date)
// is the guard against two concurrent check-ins; the loser of that race
// gets the same conflict as a plain double check-in.
func (r *PGRepository) Create(ctx context.Context, rec *Record) (*Record, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO attendance (employee_id, date, check_in_time, check_out_time, status, working_hours, remarks, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		 RETURNING `+recordColumns,
		rec.EmployeeID, rec.Date, rec.CheckIn, rec.CheckOut, rec.Status, rec.WorkingHours, nullable(rec.Remarks))
	created, err := scanRecord(row)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_attendance_employee_date") {
			return nil, fmt.Errorf("%w: already checked in today", httpx.ErrConflict)
		}
		return nil, err
	}
	return created, nil
}

// SetCheckIn stamps check-in on an existing record (an admin-seeded row
// without a check-in time).
func (r *PGRepository) SetCheckIn(ctx context.Context, id int64, checkIn time.Time, status Status) (*Record, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE attendance SET check_in_time = $2, status = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING `+recordColumns,
		id, checkIn, status)
	return scanRecord(row)
}

// SetCheckOut stamps check-out and the computed working hours.
func (r *PGRepository) SetCheckOut(ctx context.Context, id int64, checkOut time.Time, workingHours float64) (*Record, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE attendance SET check_out_time = $2, working_hours = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING `+recordColumns,
		id, checkOut, workingHours)
	return scanRecord(row)
}

// ListByEmployee returns the employee's history, newest first.
func (r *PGRepository) ListByEmployee(ctx context.Context, employeeID int64, limit, offset int) ([]Record, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM attendance WHERE employee_id = $1`, employeeID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM attendance WHERE employee_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		employeeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListForDate returns every employee's record for the day with names joined.
func (r *PGRepository) ListForDate(ctx context.Context, date time.Time) ([]DayEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.employee_id, a.date, a.check_in_time, a.check_out_time, a.status,
		        a.working_hours, a.remarks, a.created_at, a.updated_at,
		        e.first_name || ' ' || e.last_name
		 FROM attendance a
		 JOIN employees e ON e.id = a.employee_id
		 WHERE a.date = $1
		 ORDER BY e.first_name, e.last_name`,
		date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []DayEntry
	for rows.Next() {
		var entry DayEntry
		var remarks *string
		if err := rows.Scan(&entry.ID, &entry.EmployeeID, &entry.Date, &entry.CheckIn, &entry.CheckOut,
			&entry.Status, &entry.WorkingHours, &remarks, &entry.CreatedAt, &entry.UpdatedAt,
			&entry.EmployeeName); err != nil {
			return nil, err
		}
		if remarks != nil {
			entry.Remarks = *remarks
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Override upserts the day's status without touching check-in/out times.
func (r *PGRepository) Override(ctx context.Context, employeeID int64, date time.Time, status Status, remarks string) (*Record, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO attendance (employee_id, date, status, working_hours, remarks, created_at, updated_at)
		 VALUES ($1, $2, $3, 0, $4, now(), now())
		 ON CONFLICT ON CONSTRAINT uq_attendance_employee_date
		 DO UPDATE SET status = EXCLUDED.status, remarks = EXCLUDED.remarks, updated_at = now()
		 RETURNING `+recordColumns,
		employeeID, date, status, nullable(remarks))
	return scanRecord(row)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ Repository = (*PGRepository)(nil)
