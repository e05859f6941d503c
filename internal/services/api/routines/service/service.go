// Package service contains routine management workflows
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"glowdesk/internal/core/cadence"
	"glowdesk/internal/core/civil"
	"glowdesk/internal/modkit/repokit"
	perr "glowdesk/internal/platform/errors"
	"glowdesk/internal/platform/logger"
	"glowdesk/internal/services/api/routines/domain"
	"glowdesk/internal/services/api/routines/repo"
	scheduledom "glowdesk/internal/services/schedule/domain"
)

// Service defines the service contract for routines
type Service interface{ domain.ServicePort }

// Svc implements the Service interface.
// Schedule-affecting writes and their regeneration share one transaction, so
// a routine mutation and its occurrence churn commit or roll back together
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	regen  scheduledom.TxRegeneratorPort

	// now is a clock seam for tests, defaults to time.Now
	now func() time.Time
}

// New creates a new routines service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], regen scheduledom.TxRegeneratorPort) *Svc {
	if db == nil {
		panic("routines.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("routines.Service requires a non nil Repo binder")
	}
	if regen == nil {
		panic("routines.Service requires a non nil regenerator port")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, regen: regen, now: time.Now}
}

// inTx runs fn on one transaction shared by the routine write and the engine's
// occurrence regeneration, retrying once on lock contention; a second
// retryable failure surfaces as a regeneration conflict
func (s *Svc) inTx(ctx context.Context, fn func(r repo.Repo, q repokit.Queryer) error) error {
	run := func() error {
		return s.db.Tx(ctx, func(q repokit.Queryer) error {
			return fn(s.binder.Bind(q), q)
		})
	}
	err := run()
	if err != nil && perr.Retryable(err) {
		logger.C(ctx).Warn().Err(err).Msg("regeneration lock race, retrying once")
		if err = run(); err != nil && perr.Retryable(err) {
			return scheduledom.ErrRegenerationConflict
		}
	}
	return err
}

func parseFrequency(in domain.FrequencyInput) (cadence.Frequency, error) {
	f, err := cadence.ParseFrequency(in.Kind, cadence.WeekdayMask(in.WeekdayMask))
	if err != nil {
		return cadence.Frequency{}, perr.InvalidArgf("frequency: %v", err)
	}
	return f, nil
}

func parseDates(start, end string) (civil.Date, *civil.Date, error) {
	s, err := civil.Parse(start)
	if err != nil {
		return civil.Date{}, nil, perr.InvalidArgf("start_date: %v", err)
	}
	if end == "" {
		return s, nil, nil
	}
	e, err := civil.Parse(end)
	if err != nil {
		return civil.Date{}, nil, perr.InvalidArgf("end_date: %v", err)
	}
	if e.Before(s) {
		return civil.Date{}, nil, perr.InvalidArgf("end_date %s precedes start_date %s", e, s)
	}
	return s, &e, nil
}

func routineOut(r repo.RoutineRow) domain.Routine {
	out := domain.Routine{
		ID:           r.ID.String(),
		SubscriberID: r.SubscriberID.String(),
		Name:         r.Name,
		Status:       r.Status,
		Timezone:     r.Timezone,
		StartDate:    r.StartDate.String(),
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if r.EndDate != nil {
		s := r.EndDate.String()
		out.EndDate = &s
	}
	return out
}

func productOut(p repo.ProductRow) domain.Product {
	return domain.Product{
		ID:        p.ID.String(),
		RoutineID: p.RoutineID.String(),
		Name:      p.Name,
		TimeOfDay: string(p.TimeOfDay),
		Frequency: domain.FrequencyOutput{
			Kind:        p.Frequency.Kind(),
			WeekdayMask: int(p.Frequency.Mask()),
		},
		Position:  p.Position,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Create makes a new draft routine
func (s *Svc) Create(ctx context.Context, in domain.CreateRoutineInput) (domain.Routine, error) {
	subID, err := uuid.Parse(in.SubscriberID)
	if err != nil {
		return domain.Routine{}, perr.InvalidArgf("subscriber_id: %v", err)
	}
	start, end, err := parseDates(in.StartDate, in.EndDate)
	if err != nil {
		return domain.Routine{}, err
	}

	now := s.now().UTC()
	row := repo.RoutineRow{
		ID:           uuid.New(),
		SubscriberID: subID,
		Name:         in.Name,
		Status:       string(scheduledom.RoutineDraft),
		Timezone:     in.Timezone,
		StartDate:    start,
		EndDate:      end,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.InsertRoutine(ctx, row); err != nil {
		return domain.Routine{}, err
	}
	return routineOut(row), nil
}

// Get returns one routine with its product steps
func (s *Svc) Get(ctx context.Context, in domain.RoutineRef) (domain.RoutineDetail, error) {
	id, err := uuid.Parse(in.RoutineID)
	if err != nil {
		return domain.RoutineDetail{}, perr.InvalidArgf("routine_id: %v", err)
	}
	row, err := s.Repo.GetRoutine(ctx, id)
	if err != nil {
		return domain.RoutineDetail{}, err
	}
	prods, err := s.Repo.ListProducts(ctx, id)
	if err != nil {
		return domain.RoutineDetail{}, err
	}
	out := domain.RoutineDetail{Routine: routineOut(row), Products: make([]domain.Product, 0, len(prods))}
	for _, p := range prods {
		out.Products = append(out.Products, productOut(p))
	}
	return out, nil
}

// List returns a subscriber's routines, newest first
func (s *Svc) List(ctx context.Context, in domain.ListRoutinesInput) ([]domain.Routine, error) {
	subID, err := uuid.Parse(in.SubscriberID)
	if err != nil {
		return nil, perr.InvalidArgf("subscriber_id: %v", err)
	}
	rows, err := s.Repo.ListBySubscriber(ctx, subID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Routine, 0, len(rows))
	for _, r := range rows {
		out = append(out, routineOut(r))
	}
	return out, nil
}

// Update replaces a routine's editable fields. Timezone or date changes on a
// published routine shift every future deadline, so the whole schedule is
// regenerated
func (s *Svc) Update(ctx context.Context, in domain.UpdateRoutineInput) (domain.Routine, error) {
	id, err := uuid.Parse(in.RoutineID)
	if err != nil {
		return domain.Routine{}, perr.InvalidArgf("routine_id: %v", err)
	}
	start, end, err := parseDates(in.StartDate, in.EndDate)
	if err != nil {
		return domain.Routine{}, err
	}

	var row repo.RoutineRow
	err = s.inTx(ctx, func(r repo.Repo, q repokit.Queryer) error {
		var err error
		if row, err = r.GetRoutine(ctx, id); err != nil {
			return err
		}

		sameEnd := (row.EndDate == nil && end == nil) ||
			(row.EndDate != nil && end != nil && *row.EndDate == *end)
		scheduleAffecting := row.Timezone != in.Timezone || row.StartDate != start || !sameEnd

		row.Name = in.Name
		row.Timezone = in.Timezone
		row.StartDate = start
		row.EndDate = end
		row.UpdatedAt = s.now().UTC()

		if err := r.UpdateRoutine(ctx, row); err != nil {
			return err
		}
		if scheduleAffecting && row.Status == string(scheduledom.RoutinePublished) {
			return s.regen.RoutinePublishedTx(ctx, q, id)
		}
		return nil
	})
	if err != nil {
		return domain.Routine{}, err
	}
	return routineOut(row), nil
}

// Delete removes a routine; products and occurrences cascade away with it
func (s *Svc) Delete(ctx context.Context, in domain.RoutineRef) error {
	id, err := uuid.Parse(in.RoutineID)
	if err != nil {
		return perr.InvalidArgf("routine_id: %v", err)
	}
	return s.Repo.DeleteRoutine(ctx, id)
}

// Publish flips the routine to published and materializes its schedule.
// The partial unique index on routines rejects a second published routine
// for the subscriber, surfacing as a conflict
func (s *Svc) Publish(ctx context.Context, in domain.RoutineRef) (domain.Routine, error) {
	id, err := uuid.Parse(in.RoutineID)
	if err != nil {
		return domain.Routine{}, perr.InvalidArgf("routine_id: %v", err)
	}
	var row repo.RoutineRow
	err = s.inTx(ctx, func(r repo.Repo, q repokit.Queryer) error {
		var err error
		if row, err = r.GetRoutine(ctx, id); err != nil {
			return err
		}
		if row.Status != string(scheduledom.RoutinePublished) {
			row.Status = string(scheduledom.RoutinePublished)
			row.UpdatedAt = s.now().UTC()
			if err := r.SetStatus(ctx, id, row.Status, row.UpdatedAt); err != nil {
				return err
			}
		}
		return s.regen.RoutinePublishedTx(ctx, q, id)
	})
	if err != nil {
		return domain.Routine{}, err
	}
	return routineOut(row), nil
}

// Unpublish flips the routine back to draft and drops its future occurrences
func (s *Svc) Unpublish(ctx context.Context, in domain.RoutineRef) (domain.Routine, error) {
	id, err := uuid.Parse(in.RoutineID)
	if err != nil {
		return domain.Routine{}, perr.InvalidArgf("routine_id: %v", err)
	}
	var row repo.RoutineRow
	err = s.inTx(ctx, func(r repo.Repo, q repokit.Queryer) error {
		var err error
		if row, err = r.GetRoutine(ctx, id); err != nil {
			return err
		}
		if row.Status == string(scheduledom.RoutineDraft) {
			return nil
		}

		// drop futures while the routine is still published, then flip
		if err := s.regen.RoutineUnpublishedTx(ctx, q, id); err != nil {
			return err
		}
		row.Status = string(scheduledom.RoutineDraft)
		row.UpdatedAt = s.now().UTC()
		return r.SetStatus(ctx, id, row.Status, row.UpdatedAt)
	})
	if err != nil {
		return domain.Routine{}, err
	}
	return routineOut(row), nil
}

// AddProduct appends a step to the routine and materializes its occurrences
// when the routine is published
func (s *Svc) AddProduct(ctx context.Context, in domain.AddProductInput) (domain.Product, error) {
	routineID, err := uuid.Parse(in.RoutineID)
	if err != nil {
		return domain.Product{}, perr.InvalidArgf("routine_id: %v", err)
	}
	tod, err := cadence.ParseTimeOfDay(in.TimeOfDay)
	if err != nil {
		return domain.Product{}, perr.InvalidArgf("%v", err)
	}
	freq, err := parseFrequency(in.Frequency)
	if err != nil {
		return domain.Product{}, err
	}

	var row repo.ProductRow
	err = s.inTx(ctx, func(r repo.Repo, q repokit.Queryer) error {
		rt, err := r.GetRoutine(ctx, routineID)
		if err != nil {
			return err
		}

		pos := in.Position
		if pos <= 0 {
			if pos, err = r.NextPosition(ctx, routineID); err != nil {
				return err
			}
		}

		now := s.now().UTC()
		row = repo.ProductRow{
			ID:           uuid.New(),
			RoutineID:    routineID,
			SubscriberID: rt.SubscriberID,
			Name:         in.Name,
			TimeOfDay:    tod,
			Frequency:    freq,
			Position:     pos,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.InsertProduct(ctx, row); err != nil {
			return err
		}
		return s.regen.ProductCreatedTx(ctx, q, row.ID)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return productOut(row), nil
}

// UpdateProduct replaces a step's editable fields. Only cadence changes cause
// occurrence churn; renames and reorders leave the schedule alone
func (s *Svc) UpdateProduct(ctx context.Context, in domain.UpdateProductInput) (domain.Product, error) {
	id, err := uuid.Parse(in.ProductID)
	if err != nil {
		return domain.Product{}, perr.InvalidArgf("product_id: %v", err)
	}
	tod, err := cadence.ParseTimeOfDay(in.TimeOfDay)
	if err != nil {
		return domain.Product{}, perr.InvalidArgf("%v", err)
	}
	freq, err := parseFrequency(in.Frequency)
	if err != nil {
		return domain.Product{}, err
	}

	var row repo.ProductRow
	err = s.inTx(ctx, func(r repo.Repo, q repokit.Queryer) error {
		var err error
		if row, err = r.GetProduct(ctx, id); err != nil {
			return err
		}

		diff := scheduledom.ProductDiff{
			FrequencyChanged: row.Frequency != freq,
			TimeOfDayChanged: row.TimeOfDay != tod,
		}

		row.Name = in.Name
		row.TimeOfDay = tod
		row.Frequency = freq
		if in.Position > 0 {
			row.Position = in.Position
		}
		row.UpdatedAt = s.now().UTC()

		if err := r.UpdateProduct(ctx, row); err != nil {
			return err
		}
		return s.regen.ProductUpdatedTx(ctx, q, id, diff)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return productOut(row), nil
}

// DeleteProduct removes a step and all of its occurrences, history included
func (s *Svc) DeleteProduct(ctx context.Context, in domain.ProductRef) error {
	id, err := uuid.Parse(in.ProductID)
	if err != nil {
		return perr.InvalidArgf("product_id: %v", err)
	}
	return s.inTx(ctx, func(r repo.Repo, q repokit.Queryer) error {
		if _, err := r.GetProduct(ctx, id); err != nil {
			return err
		}
		if err := s.regen.ProductDeletedTx(ctx, q, id); err != nil {
			return err
		}
		return r.DeleteProduct(ctx, id)
	})
}
