package questionnaire

import (
	"time"

	"github.com/pkg/errors"
)

var errInvalidDate = errors.New("data non valida, usa il formato AAAA-MM-GG")

// DateRange bounds a selection by creation date. Zero bounds are unset.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (dr DateRange) IsZero() bool {
	return dr.From.IsZero() && dr.To.IsZero()
}

// Contains reports whether t falls within the range; To includes its whole day.
// A zero t is only contained by an unbounded range.
func (dr DateRange) Contains(t time.Time) bool {
	if dr.IsZero() {
		return true
	}
	if t.IsZero() {
		return false
	}
	if !dr.From.IsZero() && t.Before(dr.From) {
		return false
	}
	if !dr.To.IsZero() && t.After(EndOfDay(dr.To)) {
		return false
	}
	return true
}

// EndOfDay returns the last millisecond of t's day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// ParseDate accepts YYYY-MM-DD (UTC midnight) or RFC3339.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return t, nil
}

// FilterByDate keeps the responses created within dr, preserving order.
func FilterByDate(rs []Response, dr DateRange) []Response {
	out := make([]Response, 0, len(rs))
	for _, r := range rs {
		if dr.Contains(r.CreatedAt) {
			out = append(out, r)
		}
	}
	return out
}

// Filter narrows a set of responses. Zero fields are ignored.
type Filter struct {
	DateRange
	Worker     string
	Department string
}

func (f Filter) Apply(rs []Response) []Response {
	out := FilterByDate(rs, f.DateRange)
	if f.Worker != "" {
		out = SelectByKey(out, FieldWorker, f.Worker)
	}
	if f.Department != "" {
		out = SelectByKey(out, FieldDepartment, f.Department)
	}
	return out
}
