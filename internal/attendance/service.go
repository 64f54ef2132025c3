package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
)

// Notifier delivers best-effort notifications; failures never surface to
// the caller of this service.
type Notifier interface {
	NotifyLateArrival(ctx context.Context, userID int64, checkIn time.Time)
}

// Service implements the check-in/check-out state machine per employee and
// day: NoRecord -> CheckedIn -> CheckedOut, terminal for the day.
type Service struct {
	repo     Repository
	policy   OfficePolicy
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a Service. notifier may be nil.
func NewService(repo Repository, policy OfficePolicy, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		policy:   policy,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckIn records the first check-in of the day and derives its status.
func (s *Service) CheckIn(ctx context.Context, userID int64) (*Record, error) {
	employeeID, err := s.repo.EmployeeIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	today := DayOf(now)

	existing, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil && !errors.Is(err, httpx.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.CheckIn != nil {
		return nil, fmt.Errorf("%w: already checked in today", httpx.ErrConflict)
	}

	status := s.policy.StatusAt(now)

	var rec *Record
	if existing != nil {
		// Admin-seeded row (absent/leave) without a check-in time.
		rec, err = s.repo.SetCheckIn(ctx, existing.ID, now, status)
	} else {
		rec, err = s.repo.Create(ctx, &Record{
			EmployeeID: employeeID,
			Date:       today,
			CheckIn:    &now,
			Status:     status,
		})
	}
	if err != nil {
		return nil, err
	}
	if status == StatusLate && s.notifier != nil {
		s.notifier.NotifyLateArrival(ctx, userID, now)
	}
	return rec, nil
}

// CheckOut closes the day's record and computes working hours. Status is
// not recomputed here.
func (s *Service) CheckOut(ctx context.Context, userID int64) (*Record, error) {
	employeeID, err := s.repo.EmployeeIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	today := DayOf(now)

	rec, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: not checked in", httpx.ErrTimeOrder)
		}
		return nil, err
	}
	if rec.CheckIn == nil {
		return nil, fmt.Errorf("%w: not checked in", httpx.ErrTimeOrder)
	}
	if rec.CheckOut != nil {
		return nil, fmt.Errorf("%w: already checked out", httpx.ErrConflict)
	}
	hours, err := WorkingHours(*rec.CheckIn, now)
	if err != nil {
		return nil, err
	}
	return s.repo.SetCheckOut(ctx, rec.ID, now, hours)
}

// Today returns the caller's record for the current day, or nil.
func (s *Service) Today(ctx context.Context, userID int64) (*Record, error) {
	employeeID, err := s.repo.EmployeeIDForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, DayOf(s.now()))
	if errors.Is(err, httpx.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

// History returns the caller's attendance, newest first.
func (s *Service) History(ctx context.Context, userID int64, limit, offset int) ([]Record, int, error) {
	employeeID, err := s.repo.EmployeeIDForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByEmployee(ctx, employeeID, limit, offset)
}

// AllToday returns every employee's record for the current day.
func (s *Service) AllToday(ctx context.Context) ([]DayEntry, error) {
	return s.repo.ListForDate(ctx, DayOf(s.now()))
}

// Override sets a day's status administratively (half_day, absent, leave
// or a correction). Check-in/out times are left untouched.
func (s *Service) Override(ctx context.Context, employeeID int64, date time.Time, status Status, remarks string) (*Record, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}
	return s.repo.Override(ctx, employeeID, DayOf(date), status, remarks)
}
