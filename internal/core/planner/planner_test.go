package planner

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"glowdesk/internal/core/cadence"
	"glowdesk/internal/core/civil"
	"glowdesk/internal/core/deadline"
)

func mustDate(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := civil.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func newCache(t *testing.T, tz string) *deadline.Cache {
	t.Helper()
	calc, err := deadline.NewCalculator(tz)
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}
	return deadline.NewCache(calc)
}

func dailyStep(tod cadence.TimeOfDay) Step {
	return Step{
		ProductID:    uuid.New(),
		SubscriberID: uuid.New(),
		TimeOfDay:    tod,
		Frequency:    cadence.Daily(),
	}
}

func TestHorizonWindow(t *testing.T) {
	today := mustDate(t, "2025-03-10")

	// routine already running: window starts today
	w := HorizonWindow(mustDate(t, "2025-01-01"), today, 60, nil)
	if w.Start != today || w.Days() != 60 {
		t.Fatalf("window = %+v, days = %d", w, w.Days())
	}

	// routine starts in the future: window starts at routine start
	start := mustDate(t, "2025-04-01")
	w = HorizonWindow(start, today, 60, nil)
	if w.Start != start {
		t.Fatalf("window start = %v", w.Start)
	}

	// end date caps the horizon
	end := mustDate(t, "2025-03-20")
	w = HorizonWindow(mustDate(t, "2025-01-01"), today, 60, &end)
	if w.End != end || w.Days() != 11 {
		t.Fatalf("capped window = %+v, days = %d", w, w.Days())
	}

	// end date before start yields an empty window
	past := mustDate(t, "2025-03-01")
	w = HorizonWindow(mustDate(t, "2025-01-01"), today, 60, &past)
	if !w.Empty() || w.Days() != 0 {
		t.Fatalf("expected empty window, got %+v", w)
	}
}

func TestGenerateDailyCompleteness(t *testing.T) {
	const days = 14
	s := dailyStep(cadence.Morning)
	w := Window{Start: mustDate(t, "2025-06-01"), End: mustDate(t, "2025-06-01").AddDays(days - 1)}

	drafts, err := Generate([]Step{s}, w, newCache(t, "America/New_York"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(drafts) != days {
		t.Fatalf("drafts = %d, want %d", len(drafts), days)
	}
	seen := map[string]bool{}
	d := w.Start
	for i, dr := range drafts {
		if dr.Date != d {
			t.Fatalf("draft %d date = %s, want %s", i, dr.Date, d)
		}
		if seen[dr.Date.String()] {
			t.Fatalf("duplicate date %s", dr.Date)
		}
		seen[dr.Date.String()] = true
		if dr.Deadlines.OnTime.After(dr.Deadlines.GraceEnd) {
			t.Fatalf("deadline ordering violated on %s", dr.Date)
		}
		d = d.AddDays(1)
	}
}

func TestGenerateWeekdayFiltering(t *testing.T) {
	freq, err := cadence.OnWeekdays(cadence.MaskOf(1, 3, 5)) // Mon Wed Fri
	if err != nil {
		t.Fatal(err)
	}
	s := dailyStep(cadence.Evening)
	s.Frequency = freq

	// 2025-06-02 is a Monday; two full weeks
	w := Window{Start: mustDate(t, "2025-06-02"), End: mustDate(t, "2025-06-15")}
	drafts, err := Generate([]Step{s}, w, newCache(t, "UTC"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(drafts) != 6 {
		t.Fatalf("drafts = %d, want 6", len(drafts))
	}
	for _, dr := range drafts {
		wd := int(dr.Date.Weekday())
		if wd != 1 && wd != 3 && wd != 5 {
			t.Fatalf("unexpected weekday %d on %s", wd, dr.Date)
		}
	}
}

func TestGenerateEmptyAndInvertedWindow(t *testing.T) {
	s := dailyStep(cadence.Morning)
	cache := newCache(t, "UTC")

	drafts, err := Generate([]Step{s}, Window{}, cache)
	if err != nil || drafts != nil {
		t.Fatalf("empty window = (%v, %v)", drafts, err)
	}

	inverted := Window{Start: mustDate(t, "2025-06-10"), End: mustDate(t, "2025-06-01")}
	drafts, err = Generate([]Step{s}, inverted, cache)
	if err != nil || drafts != nil {
		t.Fatalf("inverted window = (%v, %v)", drafts, err)
	}

	drafts, err = Generate(nil, Window{Start: mustDate(t, "2025-06-01"), End: mustDate(t, "2025-06-10")}, cache)
	if err != nil || drafts != nil {
		t.Fatalf("no steps = (%v, %v)", drafts, err)
	}
}

func TestGenerateDeterministicOrder(t *testing.T) {
	steps := []Step{
		dailyStep(cadence.Morning),
		dailyStep(cadence.Evening),
		dailyStep(cadence.Morning),
	}
	w := Window{Start: mustDate(t, "2025-06-01"), End: mustDate(t, "2025-06-05")}

	a, err := Generate(steps, w, newCache(t, "America/New_York"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(steps, w, newCache(t, "America/New_York"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("generation is not deterministic")
	}

	// date-major: all drafts for a date precede any draft for a later date
	for i := 1; i < len(a); i++ {
		if a[i].Date.Before(a[i-1].Date) {
			t.Fatalf("draft %d date %s precedes %s", i, a[i].Date, a[i-1].Date)
		}
	}
}

func TestGenerateCacheLocality(t *testing.T) {
	// many steps sharing slots: one compute per (date, slot)
	steps := make([]Step, 0, 10)
	for i := 0; i < 5; i++ {
		steps = append(steps, dailyStep(cadence.Morning), dailyStep(cadence.Evening))
	}
	const days = 7
	w := Window{Start: mustDate(t, "2025-06-01"), End: mustDate(t, "2025-06-01").AddDays(days - 1)}

	cache := newCache(t, "America/New_York")
	drafts, err := Generate(steps, w, cache)
	if err != nil {
		t.Fatal(err)
	}
	if len(drafts) != len(steps)*days {
		t.Fatalf("drafts = %d", len(drafts))
	}
	if cache.Len() != days*2 {
		t.Fatalf("cache entries = %d, want %d", cache.Len(), days*2)
	}
}

func TestGenerateSkipsComputeWhenNothingMatches(t *testing.T) {
	sundayOnly, err := cadence.OnWeekdays(cadence.MaskOf(0))
	if err != nil {
		t.Fatal(err)
	}
	s := dailyStep(cadence.Morning)
	s.Frequency = sundayOnly

	// Monday through Saturday: no occurrence dates at all
	w := Window{Start: mustDate(t, "2025-06-02"), End: mustDate(t, "2025-06-07")}
	cache := newCache(t, "UTC")
	drafts, err := Generate([]Step{s}, w, cache)
	if err != nil {
		t.Fatal(err)
	}
	if len(drafts) != 0 || cache.Len() != 0 {
		t.Fatalf("drafts = %d cache = %d", len(drafts), cache.Len())
	}
}
