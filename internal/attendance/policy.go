package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
)

// OfficePolicy holds the configured office start and grace period. It is
// read-only for this package; nothing here mutates configuration.
type OfficePolicy struct {
	StartHour    int
	StartMinute  int
	GraceMinutes int
}

// ParseOfficePolicy builds a policy from an "HH:MM" office start string.
func ParseOfficePolicy(start string, graceMinutes int) (OfficePolicy, error) {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return OfficePolicy{}, fmt.Errorf("attendance: parse office start %q: %w", start, err)
	}
	return OfficePolicy{
		StartHour:    t.Hour(),
		StartMinute:  t.Minute(),
		GraceMinutes: graceMinutes,
	}, nil
}

// StatusAt derives the check-in status. The office start is anchored to the
// check-in's own calendar day; within the grace period counts as present.
func (p OfficePolicy) StatusAt(checkIn time.Time) Status {
	y, m, d := checkIn.Date()
	officeStart := time.Date(y, m, d, p.StartHour, p.StartMinute, 0, 0, checkIn.Location())
	diffMinutes := checkIn.Sub(officeStart).Minutes()
	if diffMinutes <= float64(p.GraceMinutes) {
		return StatusPresent
	}
	return StatusLate
}

// WorkingHours computes hours between check-in and check-out, rounded to
// two decimal places. A check-out before check-in (the overnight-shift
// case) is rejected rather than stored as a negative value.
func WorkingHours(checkIn, checkOut time.Time) (float64, error) {
	diff := checkOut.Sub(checkIn)
	if diff < 0 {
		return 0, fmt.Errorf("%w: check-out precedes check-in", httpx.ErrTimeOrder)
	}
	hours := diff.Hours()
	return math.Round(hours*100) / 100, nil
}
