package period

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidMonth is returned when a month string cannot be parsed.
var ErrInvalidMonth = errors.New("period: invalid month")

const monthLayout = "2006-01"

// Month is a calendar month. Ordering is defined on the (year, month) pair;
// the YYYY-MM string form exists only at the boundary.
type Month struct {
	Year  int
	Month time.Month
}

// Parse reads a YYYY-MM month. Longer values (timestamps, YYYY-MM-DD) are
// truncated to their first seven characters before parsing.
func Parse(value string) (Month, error) {
	if len(value) > len(monthLayout) {
		value = value[:len(monthLayout)]
	}
	t, err := time.Parse(monthLayout, value)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, value)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// FromTime truncates a timestamp to its month.
func FromTime(t time.Time) Month {
	t = t.UTC()
	return Month{Year: t.Year(), Month: t.Month()}
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return m.Start().Format(monthLayout)
}

// YearKey returns the 4-digit year used for yearly roll-ups.
func (m Month) YearKey() string {
	return fmt.Sprintf("%04d", m.Year)
}

// Start returns midnight UTC on the first day of the month, the form stored
// in Postgres date columns.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the month is unset.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Compare returns -1, 0 or 1 ordering m against other.
func (m Month) Compare(other Month) int {
	a := m.Year*12 + int(m.Month)
	b := other.Year*12 + int(other.Month)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether m precedes other.
func (m Month) Before(other Month) bool { return m.Compare(other) < 0 }

// After reports whether m follows other.
func (m Month) After(other Month) bool { return m.Compare(other) > 0 }

// Next returns the following calendar month.
func (m Month) Next() Month {
	return FromTime(m.Start().AddDate(0, 1, 0))
}

// Span returns the number of calendar months from start to end, exclusive of
// start. A window is "long" when its span exceeds twelve.
func Span(start, end Month) int {
	return (end.Year-start.Year)*12 + int(end.Month) - int(start.Month)
}
