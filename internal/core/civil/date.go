// Package civil provides a calendar date type with no time or zone component.
// Scheduling logic works in dates; instants only appear once a date is
// anchored to a wall-clock time in a specific zone
package civil

import (
	"fmt"
	"time"
)

// Date is a calendar date, zone agnostic
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of t in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current date in loc
func Today(loc *time.Location) Date {
	return DateOf(time.Now().In(loc))
}

// Parse parses a date in ISO 8601 form (2006-01-02)
func Parse(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("civil: parse %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String formats the date as 2006-01-02
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero value
func (d Date) IsZero() bool { return d == Date{} }

// At anchors the date to a wall-clock time in loc.
// time.Date normalizes using loc's offset for that specific date,
// so results stay correct across DST transitions
func (d Date) At(hour, min, sec, nsec int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, min, sec, nsec, loc)
}

// Weekday returns the day of week, time.Sunday == 0
func (d Date) Weekday() time.Weekday {
	return d.At(0, 0, 0, 0, time.UTC).Weekday()
}

// AddDays returns the date n days after d (n may be negative)
func (d Date) AddDays(n int) Date {
	return DateOf(d.At(0, 0, 0, 0, time.UTC).AddDate(0, 0, n))
}

// Before reports whether d is earlier than other
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is later than other
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Compare returns -1, 0, or +1 ordering d against other
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmp(d.Year, other.Year)
	case d.Month != other.Month:
		return cmp(int(d.Month), int(other.Month))
	default:
		return cmp(d.Day, other.Day)
	}
}

// DaysUntil returns the number of days from d to other (negative if other is earlier)
func (d Date) DaysUntil(other Date) int {
	a := d.At(0, 0, 0, 0, time.UTC)
	b := other.At(0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Max returns the later of a and b
func Max(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// Min returns the earlier of a and b
func Min(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Date) UnmarshalText(b []byte) error {
	p, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = p
	return nil
}
