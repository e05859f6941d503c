package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"glowdesk/internal/modkit/repokit"
	perr "glowdesk/internal/platform/errors"
	"glowdesk/internal/platform/store"
	"glowdesk/internal/services/api/reports/domain"
	"glowdesk/internal/services/api/reports/repo"
	"glowdesk/internal/services/api/reports/service"
)

type fakeRepo struct {
	daily     []repo.RowDaily
	byProduct []repo.RowByProduct

	gotStart, gotEnd string
}

func (f *fakeRepo) DailyStatusCounts(_ context.Context, _ uuid.UUID, start, end string) ([]repo.RowDaily, error) {
	f.gotStart, f.gotEnd = start, end
	return f.daily, nil
}

func (f *fakeRepo) ByProduct(_ context.Context, _ uuid.UUID, start, end string) ([]repo.RowByProduct, error) {
	f.gotStart, f.gotEnd = start, end
	return f.byProduct, nil
}

type fakeTx struct{}

func (fakeTx) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return nil, errors.New("not wired")
}
func (fakeTx) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("not wired")
}
func (fakeTx) QueryRow(context.Context, string, ...any) store.Row { return nil }
func (fakeTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(nil)
}

func newService(fr *fakeRepo) *service.Svc {
	return service.New(fakeTx{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return fr }))
}

func TestWeeklyBuildsSevenDayGrid(t *testing.T) {
	fr := &fakeRepo{daily: []repo.RowDaily{
		{Day: "2025-03-02", Status: "on_time", Count: 2},
		{Day: "2025-03-03", Status: "late", Count: 1},
		{Day: "2025-03-03", Status: "missed", Count: 1},
		{Day: "2025-03-08", Status: "pending", Count: 2},
	}}
	svc := newService(fr)

	out, err := svc.Weekly(context.Background(), domain.WeeklyInput{
		SubscriberID: uuid.NewString(),
		WeekStart:    "2025-03-02",
	})
	if err != nil {
		t.Fatalf("Weekly: %v", err)
	}

	if out.WeekStart != "2025-03-02" || out.WeekEnd != "2025-03-08" {
		t.Fatalf("window = %s..%s", out.WeekStart, out.WeekEnd)
	}
	if fr.gotStart != "2025-03-02" || fr.gotEnd != "2025-03-08" {
		t.Fatalf("query range = %s..%s", fr.gotStart, fr.gotEnd)
	}
	if len(out.Days) != 7 {
		t.Fatalf("days = %d", len(out.Days))
	}
	if out.Days[0].Date != "2025-03-02" || out.Days[6].Date != "2025-03-08" {
		t.Fatalf("grid edges = %s..%s", out.Days[0].Date, out.Days[6].Date)
	}

	want := domain.StatusTotals{Scheduled: 6, OnTime: 2, Late: 1, Missed: 1, Pending: 2}
	if out.Totals != want {
		t.Fatalf("totals = %+v", out.Totals)
	}
	// (2 + 1) / 6 = 50.0
	if out.AdherencePct != 50.0 {
		t.Fatalf("adherence = %v", out.AdherencePct)
	}

	// a day with no rows stays zeroed
	if out.Days[3].Totals != (domain.StatusTotals{}) {
		t.Fatalf("empty day = %+v", out.Days[3].Totals)
	}
	if out.Days[1].Totals.Late != 1 || out.Days[1].Totals.Missed != 1 {
		t.Fatalf("day 2025-03-03 = %+v", out.Days[1].Totals)
	}
}

func TestWeeklyEmptyWeekIsZeroAdherence(t *testing.T) {
	svc := newService(&fakeRepo{})
	out, err := svc.Weekly(context.Background(), domain.WeeklyInput{
		SubscriberID: uuid.NewString(),
		WeekStart:    "2025-03-02",
	})
	if err != nil {
		t.Fatalf("Weekly: %v", err)
	}
	if out.AdherencePct != 0 || out.Totals.Scheduled != 0 {
		t.Fatalf("out = %+v", out)
	}
}

func TestWeeklyAdherenceRounding(t *testing.T) {
	fr := &fakeRepo{daily: []repo.RowDaily{
		{Day: "2025-03-02", Status: "on_time", Count: 1},
		{Day: "2025-03-03", Status: "missed", Count: 2},
	}}
	svc := newService(fr)

	out, err := svc.Weekly(context.Background(), domain.WeeklyInput{
		SubscriberID: uuid.NewString(),
		WeekStart:    "2025-03-02",
	})
	if err != nil {
		t.Fatalf("Weekly: %v", err)
	}
	// 1/3 = 33.333..., rounded to one decimal
	if out.AdherencePct != 33.3 {
		t.Fatalf("adherence = %v", out.AdherencePct)
	}
}

func TestByProductMapsTotals(t *testing.T) {
	pid := uuid.New()
	fr := &fakeRepo{byProduct: []repo.RowByProduct{
		{ProductID: pid, Name: "Retinol Serum", Scheduled: 10, OnTime: 6, Late: 2, Missed: 1, Pending: 1},
	}}
	svc := newService(fr)

	out, err := svc.ByProduct(context.Background(), domain.ByProductInput{
		SubscriberID: uuid.NewString(),
		Start:        "2025-03-01",
		End:          "2025-03-31",
	})
	if err != nil {
		t.Fatalf("ByProduct: %v", err)
	}
	if len(out) != 1 || out[0].ProductID != pid.String() || out[0].Name != "Retinol Serum" {
		t.Fatalf("out = %+v", out)
	}
	// (6 + 2) / 10 = 80.0
	if out[0].AdherencePct != 80.0 {
		t.Fatalf("adherence = %v", out[0].AdherencePct)
	}
}

func TestByProductRejectsInvertedRange(t *testing.T) {
	svc := newService(&fakeRepo{})
	_, err := svc.ByProduct(context.Background(), domain.ByProductInput{
		SubscriberID: uuid.NewString(),
		Start:        "2025-03-31",
		End:          "2025-03-01",
	})
	if perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("err = %v", err)
	}
}
