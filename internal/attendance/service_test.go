package attendance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
)

// mockRepository guards the (employee, date) uniqueness with a mutex the
// same way the database's unique index does.
type mockRepository struct {
	mu        sync.Mutex
	records   map[string]*Record
	employees map[int64]int64 // userID -> employeeID
	nextID    int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		records:   make(map[string]*Record),
		employees: make(map[int64]int64),
		nextID:    1,
	}
}

func dayKey(employeeID int64, date time.Time) string {
	return fmt.Sprintf("%d/%s", employeeID, date.Format("2006-01-02"))
}

func (m *mockRepository) EmployeeIDForUser(ctx context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.employees[userID]
	if !ok {
		return 0, fmt.Errorf("%w: employee profile not found", httpx.ErrNotFound)
	}
	return id, nil
}

func (m *mockRepository) FindByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[dayKey(employeeID, date)]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (m *mockRepository) Create(ctx context.Context, rec *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(rec.EmployeeID, rec.Date)
	if _, exists := m.records[key]; exists {
		return nil, fmt.Errorf("%w: already checked in today", httpx.ErrConflict)
	}
	stored := *rec
	stored.ID = m.nextID
	m.nextID++
	m.records[key] = &stored
	clone := stored
	return &clone, nil
}

func (m *mockRepository) byID(id int64) *Record {
	for _, rec := range m.records {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

func (m *mockRepository) SetCheckIn(ctx context.Context, id int64, checkIn time.Time, status Status) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.byID(id)
	if rec == nil {
		return nil, httpx.ErrNotFound
	}
	rec.CheckIn = &checkIn
	rec.Status = status
	clone := *rec
	return &clone, nil
}

func (m *mockRepository) SetCheckOut(ctx context.Context, id int64, checkOut time.Time, workingHours float64) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.byID(id)
	if rec == nil {
		return nil, httpx.ErrNotFound
	}
	rec.CheckOut = &checkOut
	rec.WorkingHours = workingHours
	clone := *rec
	return &clone, nil
}

func (m *mockRepository) ListByEmployee(ctx context.Context, employeeID int64, limit, offset int) ([]Record, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, rec := range m.records {
		if rec.EmployeeID == employeeID {
			out = append(out, *rec)
		}
	}
	return out, len(out), nil
}

func (m *mockRepository) ListForDate(ctx context.Context, date time.Time) ([]DayEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []DayEntry
	for _, rec := range m.records {
		if rec.Date.Equal(date) {
			out = append(out, DayEntry{Record: *rec, EmployeeName: "Someone"})
		}
	}
	return out, nil
}

func (m *mockRepository) Override(ctx context.Context, employeeID int64, date time.Time, status Status, remarks string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(employeeID, date)
	rec, ok := m.records[key]
	if !ok {
		rec = &Record{ID: m.nextID, EmployeeID: employeeID, Date: date}
		m.nextID++
		m.records[key] = rec
	}
	rec.Status = status
	rec.Remarks = remarks
	clone := *rec
	return &clone, nil
}

type lateRecorder struct {
	mu    sync.Mutex
	calls []int64
}

func (l *lateRecorder) NotifyLateArrival(ctx context.Context, userID int64, checkIn time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, userID)
}

func newTestService(t *testing.T, clock func() time.Time) (*Service, *mockRepository, *lateRecorder) {
	t.Helper()
	repo := newMockRepository()
	repo.employees[10] = 1
	policy, err := ParseOfficePolicy("09:30", 15)
	require.NoError(t, err)
	late := &lateRecorder{}
	svc := NewService(repo, policy, late, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = clock
	return svc, repo, late
}

func clockAt(hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.March, 3, hour, minute, 0, 0, time.UTC)
	}
}

func TestCheckInOnTime(t *testing.T) {
	svc, _, late := newTestService(t, clockAt(9, 44))
	rec, err := svc.CheckIn(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, StatusPresent, rec.Status)
	require.NotNil(t, rec.CheckIn)
	assert.Empty(t, late.calls)
}

func TestCheckInLateNotifies(t *testing.T) {
	svc, _, late := newTestService(t, clockAt(9, 46))
	rec, err := svc.CheckIn(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, StatusLate, rec.Status)
	assert.Equal(t, []int64{10}, late.calls)
}

func TestCheckInTwiceConflicts(t *testing.T) {
	svc, repo, _ := newTestService(t, clockAt(9, 0))
	first, err := svc.CheckIn(context.Background(), 10)
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrConflict))

	// The first record is untouched by the failed second attempt.
	stored := repo.byID(first.ID)
	require.NotNil(t, stored)
	assert.Equal(t, first.CheckIn.Unix(), stored.CheckIn.Unix())
	assert.Equal(t, first.Status, stored.Status)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	svc, _, _ := newTestService(t, clockAt(17, 0))
	_, err := svc.CheckOut(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrTimeOrder))
}

func TestCheckInThenCheckOutComputesHours(t *testing.T) {
	svc, _, _ := newTestService(t, clockAt(9, 0))
	_, err := svc.CheckIn(context.Background(), 10)
	require.NoError(t, err)

	svc.now = clockAt(17, 30)
	rec, err := svc.CheckOut(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 8.5, rec.WorkingHours)
	require.NotNil(t, rec.CheckOut)
	// Status derived at check-in is not recomputed.
	assert.Equal(t, StatusPresent, rec.Status)
}

func TestCheckOutTwiceConflicts(t *testing.T) {
	svc, _, _ := newTestService(t, clockAt(9, 0))
	_, err := svc.CheckIn(context.Background(), 10)
	require.NoError(t, err)

	svc.now = clockAt(17, 0)
	_, err = svc.CheckOut(context.Background(), 10)
	require.NoError(t, err)

	_, err = svc.CheckOut(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrConflict))
}

func TestCheckInWithoutProfile(t *testing.T) {
	svc, _, _ := newTestService(t, clockAt(9, 0))
	_, err := svc.CheckIn(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestCheckInFillsSeededRow(t *testing.T) {
	svc, repo, _ := newTestService(t, clockAt(9, 0))
	// Admin seeded the day as leave before the employee showed up.
	_, err := svc.Override(context.Background(), 1, clockAt(9, 0)(), StatusLeave, "sick leave")
	require.NoError(t, err)

	rec, err := svc.CheckIn(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, StatusPresent, rec.Status)
	require.NotNil(t, rec.CheckIn)
	assert.Len(t, repo.records, 1)
}

func TestOverrideRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService(t, clockAt(9, 0))
	_, err := svc.Override(context.Background(), 1, clockAt(9, 0)(), Status("vacationing"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestConcurrentCheckInsCreateOneRecord(t *testing.T) {
	svc, repo, _ := newTestService(t, clockAt(9, 0))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CheckIn(context.Background(), 10)
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, httpx.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, repo.records, 1)
}
