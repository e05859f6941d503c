// Package service contains compliance workflows over the schedule engine ports
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"glowdesk/internal/core/civil"
	perr "glowdesk/internal/platform/errors"
	"glowdesk/internal/services/api/compliance/domain"
	scheduledom "glowdesk/internal/services/schedule/domain"
)

// Service defines the service contract for compliance
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	completion scheduledom.CompletionPort
	sweeper    scheduledom.SweeperPort
	query      scheduledom.QueryPort

	// now is a clock seam for tests, defaults to time.Now
	now func() time.Time
}

// New creates a new compliance service
func New(completion scheduledom.CompletionPort, sweeper scheduledom.SweeperPort, query scheduledom.QueryPort) *Svc {
	if completion == nil || sweeper == nil || query == nil {
		panic("compliance.Service requires completion, sweeper and query ports")
	}
	return &Svc{completion: completion, sweeper: sweeper, query: query, now: time.Now}
}

func occurrenceOut(o scheduledom.Occurrence) domain.Occurrence {
	out := domain.Occurrence{
		ID:             o.ID.String(),
		ProductID:      o.ProductID.String(),
		SubscriberID:   o.SubscriberID.String(),
		ScheduledDate:  o.ScheduledDate.String(),
		TimeOfDay:      string(o.TimeOfDay),
		OnTimeDeadline: o.OnTimeDeadline.UTC().Format(time.RFC3339Nano),
		GracePeriodEnd: o.GracePeriodEnd.UTC().Format(time.RFC3339Nano),
		Status:         string(o.Status),
	}
	if o.CompletedAt != nil {
		s := o.CompletedAt.UTC().Format(time.RFC3339Nano)
		out.CompletedAt = &s
	}
	return out
}

// Complete marks an occurrence done at the given instant (or now)
func (s *Svc) Complete(ctx context.Context, in domain.CompleteInput) (domain.Occurrence, error) {
	id, err := uuid.Parse(in.OccurrenceID)
	if err != nil {
		return domain.Occurrence{}, perr.InvalidArgf("occurrence_id: %v", err)
	}
	at := s.now()
	if in.CompletedAt != "" {
		if at, err = time.Parse(time.RFC3339, in.CompletedAt); err != nil {
			return domain.Occurrence{}, perr.InvalidArgf("completed_at: %v", err)
		}
	}
	o, err := s.completion.MarkDone(ctx, id, at)
	if err != nil {
		return domain.Occurrence{}, err
	}
	return occurrenceOut(o), nil
}

// Sweep flips expired pending occurrences to missed
func (s *Svc) Sweep(ctx context.Context, in domain.SweepInput) (domain.SweepOutput, error) {
	asOf := s.now()
	if in.AsOf != "" {
		var err error
		if asOf, err = time.Parse(time.RFC3339, in.AsOf); err != nil {
			return domain.SweepOutput{}, perr.InvalidArgf("as_of: %v", err)
		}
	}
	n, err := s.sweeper.SweepExpired(ctx, asOf)
	if err != nil {
		return domain.SweepOutput{}, err
	}
	return domain.SweepOutput{Missed: n, AsOf: asOf.UTC().Format(time.RFC3339Nano)}, nil
}

// DayPlan returns a subscriber's occurrences for one date, morning first
func (s *Svc) DayPlan(ctx context.Context, in domain.DayPlanInput) ([]domain.Occurrence, error) {
	subID, err := uuid.Parse(in.SubscriberID)
	if err != nil {
		return nil, perr.InvalidArgf("subscriber_id: %v", err)
	}
	date, err := civil.Parse(in.Date)
	if err != nil {
		return nil, perr.InvalidArgf("date: %v", err)
	}
	rows, err := s.query.DayPlan(ctx, subID, date)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Occurrence, 0, len(rows))
	for _, o := range rows {
		out = append(out, occurrenceOut(o))
	}
	return out, nil
}
