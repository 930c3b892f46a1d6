package settlement

import (
	"fmt"
	"time"

	"marketplace/internal/pkg/errs"
)

// Period is an inclusive range of calendar days in UTC.
type Period struct {
	start time.Time
	end   time.Time
}

// NewPeriod truncates both bounds to their UTC date.
func NewPeriod(start, end time.Time) (Period, error) {
	s := truncateToDate(start)
	e := truncateToDate(end)
	if start.IsZero() || end.IsZero() {
		return Period{}, errs.NewValueIsRequiredError("period bounds")
	}
	if e.Before(s) {
		return Period{}, errs.NewValueIsInvalidErrorWithCause("period",
			fmt.Errorf("end %s is before start %s", e.Format(time.DateOnly), s.Format(time.DateOnly)))
	}
	return Period{start: s, end: e}, nil
}

func (p Period) Start() time.Time { return p.start }
func (p Period) End() time.Time   { return p.end }

// EndExclusive is the first instant after the period: end date plus one day.
func (p Period) EndExclusive() time.Time {
	return p.end.AddDate(0, 0, 1)
}

// Contains reports whether t falls in [start, end + 1 day).
func (p Period) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(p.start) && t.Before(p.EndExclusive())
}

func (p Period) String() string {
	return p.start.Format(time.DateOnly) + ".." + p.end.Format(time.DateOnly)
}

func truncateToDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
