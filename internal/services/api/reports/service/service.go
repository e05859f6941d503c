// Package service contains report workflows
package service

import (
	"context"
	"math"

	"github.com/google/uuid"

	"glowdesk/internal/core/civil"
	"glowdesk/internal/modkit/repokit"
	perr "glowdesk/internal/platform/errors"
	"glowdesk/internal/services/api/reports/domain"
	"glowdesk/internal/services/api/reports/repo"
)

// Service defines the service contract for reports
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
}

// New creates a new reports service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("reports.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("reports.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db}
}

// adherence is the share of occurrences completed at all, on time or late,
// out of everything scheduled, as a percentage rounded to one decimal
func adherence(t domain.StatusTotals) float64 {
	if t.Scheduled == 0 {
		return 0
	}
	pct := float64(t.OnTime+t.Late) / float64(t.Scheduled) * 100
	return math.Round(pct*10) / 10
}

func addStatus(t *domain.StatusTotals, status string, n int64) {
	t.Scheduled += n
	switch status {
	case "on_time":
		t.OnTime += n
	case "late":
		t.Late += n
	case "missed":
		t.Missed += n
	case "pending":
		t.Pending += n
	}
}

// Weekly builds the seven day compliance report starting at week_start
func (s *Svc) Weekly(ctx context.Context, in domain.WeeklyInput) (domain.WeeklyReport, error) {
	subID, err := uuid.Parse(in.SubscriberID)
	if err != nil {
		return domain.WeeklyReport{}, perr.InvalidArgf("subscriber_id: %v", err)
	}
	start, err := civil.Parse(in.WeekStart)
	if err != nil {
		return domain.WeeklyReport{}, perr.InvalidArgf("week_start: %v", err)
	}
	end := start.AddDays(6)

	rows, err := s.Repo.DailyStatusCounts(ctx, subID, start.String(), end.String())
	if err != nil {
		return domain.WeeklyReport{}, err
	}

	out := domain.WeeklyReport{
		SubscriberID: in.SubscriberID,
		WeekStart:    start.String(),
		WeekEnd:      end.String(),
		Days:         make([]domain.DayBreakdown, 0, 7),
	}

	byDay := make(map[string]*domain.StatusTotals, 7)
	for d := start; !d.After(end); d = d.AddDays(1) {
		day := domain.DayBreakdown{Date: d.String()}
		out.Days = append(out.Days, day)
		byDay[day.Date] = &out.Days[len(out.Days)-1].Totals
	}
	for _, r := range rows {
		addStatus(&out.Totals, r.Status, r.Count)
		if t, ok := byDay[r.Day]; ok {
			addStatus(t, r.Status, r.Count)
		}
	}
	out.AdherencePct = adherence(out.Totals)
	return out, nil
}

// ByProduct builds per product compliance over an arbitrary date range
func (s *Svc) ByProduct(ctx context.Context, in domain.ByProductInput) ([]domain.ProductReport, error) {
	subID, err := uuid.Parse(in.SubscriberID)
	if err != nil {
		return nil, perr.InvalidArgf("subscriber_id: %v", err)
	}
	start, err := civil.Parse(in.Start)
	if err != nil {
		return nil, perr.InvalidArgf("start: %v", err)
	}
	end, err := civil.Parse(in.End)
	if err != nil {
		return nil, perr.InvalidArgf("end: %v", err)
	}
	if end.Before(start) {
		return nil, perr.InvalidArgf("end %s precedes start %s", end, start)
	}

	rows, err := s.Repo.ByProduct(ctx, subID, start.String(), end.String())
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProductReport, 0, len(rows))
	for _, r := range rows {
		t := domain.StatusTotals{
			Scheduled: r.Scheduled,
			OnTime:    r.OnTime,
			Late:      r.Late,
			Missed:    r.Missed,
			Pending:   r.Pending,
		}
		out = append(out, domain.ProductReport{
			ProductID:    r.ProductID.String(),
			Name:         r.Name,
			Totals:       t,
			AdherencePct: adherence(t),
		})
	}
	return out, nil
}
