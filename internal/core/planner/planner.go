// Package planner derives concrete occurrence drafts for a routine's steps
// over a calendar window
package planner

import (
	"github.com/google/uuid"

	"glowdesk/internal/core/cadence"
	"glowdesk/internal/core/civil"
	"glowdesk/internal/core/deadline"
)

// Step is the slice of a routine product the planner needs
type Step struct {
	ProductID    uuid.UUID
	SubscriberID uuid.UUID
	TimeOfDay    cadence.TimeOfDay
	Frequency    cadence.Frequency
}

// Draft is one unsaved occurrence: a step anchored to a date with deadlines
type Draft struct {
	ProductID    uuid.UUID
	SubscriberID uuid.UUID
	Date         civil.Date
	TimeOfDay    cadence.TimeOfDay
	Deadlines    deadline.Deadlines
}

// Window is the inclusive date range to materialize
type Window struct {
	Start civil.Date
	End   civil.Date
}

// Empty reports whether the window covers no dates
func (w Window) Empty() bool {
	return w.Start.IsZero() || w.End.IsZero() || w.End.Before(w.Start)
}

// Days returns the number of dates covered, zero when empty
func (w Window) Days() int {
	if w.Empty() {
		return 0
	}
	return w.Start.DaysUntil(w.End) + 1
}

// HorizonWindow applies the rolling-window policy: horizonDays dates starting
// at the later of routineStart and today, capped at routineEnd when present
func HorizonWindow(routineStart, today civil.Date, horizonDays int, routineEnd *civil.Date) Window {
	start := civil.Max(routineStart, today)
	end := start.AddDays(horizonDays - 1)
	if routineEnd != nil {
		end = civil.Min(end, *routineEnd)
	}
	return Window{Start: start, End: end}
}

// Generate produces one draft per (step, matching date) over w.
// Steps are grouped by time-of-day so the cache sees at most one compute
// per (date, slot); emission order is date-major then step input order,
// deterministic for a given input.
// An empty or inverted window yields no drafts and no error
func Generate(steps []Step, w Window, cache *deadline.Cache) ([]Draft, error) {
	if w.Empty() || len(steps) == 0 {
		return nil, nil
	}

	// group index by slot, preserving input order inside each group
	slots := make([]cadence.TimeOfDay, 0, 2)
	groups := map[cadence.TimeOfDay][]Step{}
	for _, s := range steps {
		if _, seen := groups[s.TimeOfDay]; !seen {
			slots = append(slots, s.TimeOfDay)
		}
		groups[s.TimeOfDay] = append(groups[s.TimeOfDay], s)
	}

	var out []Draft
	for d := w.Start; !d.After(w.End); d = d.AddDays(1) {
		for _, tod := range slots {
			group := groups[tod]

			// skip the deadline compute when nothing in the group recurs today
			anyMatch := false
			for _, s := range group {
				if s.Frequency.Matches(d) {
					anyMatch = true
					break
				}
			}
			if !anyMatch {
				continue
			}

			dl, err := cache.Get(d, tod)
			if err != nil {
				return nil, err
			}
			for _, s := range group {
				if !s.Frequency.Matches(d) {
					continue
				}
				out = append(out, Draft{
					ProductID:    s.ProductID,
					SubscriberID: s.SubscriberID,
					Date:         d,
					TimeOfDay:    tod,
					Deadlines:    dl,
				})
			}
		}
	}
	return out, nil
}
