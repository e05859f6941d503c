// Package deadline converts calendar dates into absolute completion deadlines
// in a subscriber's timezone
package deadline

import (
	"time"

	"glowdesk/internal/core/cadence"
	"glowdesk/internal/core/civil"
	perr "glowdesk/internal/platform/errors"
)

// On-time cutoff hours, local wall clock
const (
	morningCutoffHour = 11
	eveningCutoffHour = 22
)

// grace period ends at local end of day, microsecond precision to match storage
const (
	graceHour = 23
	graceMin  = 59
	graceSec  = 59
	graceNsec = 999999000
)

// Deadlines are the two instants bounding an occurrence's completion window
type Deadlines struct {
	// OnTime is the cutoff for an on-time completion
	OnTime time.Time
	// GraceEnd is local end of day, after which the occurrence is missed.
	// Always at or after OnTime
	GraceEnd time.Time
}

// Calculator computes deadlines in one fixed timezone.
// It is pure: the same date and slot always produce the same instants
type Calculator struct {
	zone *time.Location
}

// NewCalculator resolves an IANA zone id, rejecting unknown identifiers
func NewCalculator(timezone string) (*Calculator, error) {
	if timezone == "" {
		return nil, perr.InvalidArgf("timezone is required")
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "unresolvable timezone %q", timezone)
	}
	return &Calculator{zone: loc}, nil
}

// Zone returns the resolved location
func (c *Calculator) Zone() *time.Location { return c.zone }

// Compute returns the deadlines for one date and time-of-day slot.
// Anchoring via civil.Date.At uses the zone's offset for that specific
// date, so dates on either side of a DST transition get the offset the
// zone database specifies
func (c *Calculator) Compute(d civil.Date, tod cadence.TimeOfDay) (Deadlines, error) {
	var cutoff int
	switch tod {
	case cadence.Morning:
		cutoff = morningCutoffHour
	case cadence.Evening:
		cutoff = eveningCutoffHour
	default:
		return Deadlines{}, perr.InvalidArgf("unknown time of day %q", string(tod))
	}
	return Deadlines{
		OnTime:   d.At(cutoff, 0, 0, 0, c.zone).UTC(),
		GraceEnd: d.At(graceHour, graceMin, graceSec, graceNsec, c.zone).UTC(),
	}, nil
}

// Cache memoizes Compute results for one generation run.
// The run is single-subscriber so the timezone is fixed; keep the cache
// scoped to one invocation and never share it across subscribers
type Cache struct {
	calc *Calculator
	memo map[string]Deadlines
}

// NewCache wraps a calculator with an empty memo
func NewCache(calc *Calculator) *Cache {
	return &Cache{calc: calc, memo: map[string]Deadlines{}}
}

// Get returns deadlines for (d, tod), computing on first access
func (c *Cache) Get(d civil.Date, tod cadence.TimeOfDay) (Deadlines, error) {
	key := d.String() + "|" + string(tod)
	if dl, ok := c.memo[key]; ok {
		return dl, nil
	}
	dl, err := c.calc.Compute(d, tod)
	if err != nil {
		return Deadlines{}, err
	}
	c.memo[key] = dl
	return dl, nil
}

// Len reports how many distinct keys have been computed
func (c *Cache) Len() int { return len(c.memo) }
