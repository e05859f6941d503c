// Package cadence models when a routine step recurs: the time-of-day slot
// it belongs to and the recurrence rule deciding which dates it falls on
package cadence

import (
	"fmt"

	"glowdesk/internal/core/civil"
)

// TimeOfDay is the slot a step belongs to within a day
type TimeOfDay string

// Known time-of-day slots
const (
	Morning TimeOfDay = "morning"
	Evening TimeOfDay = "evening"
)

// ParseTimeOfDay validates a wire value
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch TimeOfDay(s) {
	case Morning, Evening:
		return TimeOfDay(s), nil
	default:
		return "", fmt.Errorf("cadence: unknown time of day %q", s)
	}
}

// Valid reports whether t is a known slot
func (t TimeOfDay) Valid() bool {
	return t == Morning || t == Evening
}

// WeekdayMask is a 7-bit weekday set, bit 0 = Sunday through bit 6 = Saturday
type WeekdayMask uint8

// MaskAll selects every weekday
const MaskAll WeekdayMask = 0x7f

// Has reports whether weekday index wd (0=Sunday..6=Saturday) is in the set
func (m WeekdayMask) Has(wd int) bool {
	return wd >= 0 && wd <= 6 && (m>>uint(wd))&1 == 1
}

// Days returns the selected weekday indexes in ascending order
func (m WeekdayMask) Days() []int {
	var out []int
	for wd := 0; wd <= 6; wd++ {
		if m.Has(wd) {
			out = append(out, wd)
		}
	}
	return out
}

// MaskOf builds a mask from weekday indexes, ignoring out-of-range values
func MaskOf(days ...int) WeekdayMask {
	var m WeekdayMask
	for _, d := range days {
		if d >= 0 && d <= 6 {
			m |= 1 << uint(d)
		}
	}
	return m
}

// Frequency kinds on the wire
const (
	KindDaily    = "daily"
	KindWeekdays = "weekdays"
)

// Frequency is a tagged union: every day, or a fixed set of weekdays.
// Construct via Daily or OnWeekdays so an empty weekday set is unrepresentable
type Frequency struct {
	kind string
	mask WeekdayMask
}

// Daily returns the frequency matching every date
func Daily() Frequency {
	return Frequency{kind: KindDaily}
}

// OnWeekdays returns a frequency matching the given weekday set.
// The mask must select at least one day and fit in 7 bits
func OnWeekdays(mask WeekdayMask) (Frequency, error) {
	if mask == 0 {
		return Frequency{}, fmt.Errorf("cadence: weekday mask must select at least one day")
	}
	if mask > MaskAll {
		return Frequency{}, fmt.Errorf("cadence: weekday mask %#x exceeds 7 bits", uint8(mask))
	}
	return Frequency{kind: KindWeekdays, mask: mask}, nil
}

// ParseFrequency rebuilds a Frequency from its persisted kind and mask
func ParseFrequency(kind string, mask WeekdayMask) (Frequency, error) {
	switch kind {
	case KindDaily:
		return Daily(), nil
	case KindWeekdays:
		return OnWeekdays(mask)
	default:
		return Frequency{}, fmt.Errorf("cadence: unknown frequency kind %q", kind)
	}
}

// Kind returns the wire kind, daily or weekdays
func (f Frequency) Kind() string { return f.kind }

// IsDaily reports whether f matches every date
func (f Frequency) IsDaily() bool { return f.kind == KindDaily }

// Mask returns the weekday set, zero for daily frequencies
func (f Frequency) Mask() WeekdayMask { return f.mask }

// Matches reports whether d is an occurrence date under f.
// A zero-value Frequency never matches
func (f Frequency) Matches(d civil.Date) bool {
	switch f.kind {
	case KindDaily:
		return true
	case KindWeekdays:
		return f.mask.Has(int(d.Weekday()))
	default:
		return false
	}
}

// String renders the frequency for logs
func (f Frequency) String() string {
	if f.IsDaily() {
		return KindDaily
	}
	return fmt.Sprintf("%s(%#07b)", KindWeekdays, uint8(f.mask))
}
