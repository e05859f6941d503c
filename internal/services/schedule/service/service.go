// Package service implements the schedule engine: regeneration, completion
// transitions, and the expiry sweep
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"glowdesk/internal/core/civil"
	"glowdesk/internal/core/deadline"
	"glowdesk/internal/core/planner"
	"glowdesk/internal/modkit/repokit"
	perr "glowdesk/internal/platform/errors"
	"glowdesk/internal/platform/logger"
	"glowdesk/internal/services/schedule/domain"
	"glowdesk/internal/services/schedule/repo"
)

// Config for the schedule service
type Config struct {
	// HorizonDays is the rolling generation window length
	HorizonDays int
}

// Service implements domain.RegeneratorPort, CompletionPort, SweeperPort and QueryPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Cfg    Config

	// Now is a clock seam for tests, defaults to time.Now
	Now func() time.Time
}

// New constructs a schedule service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Service {
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 60
	}
	return &Service{DB: db, Binder: binder, Cfg: cfg, Now: time.Now}
}

// inTx runs fn transactionally with the single automatic retry for lock
// contention; a second retryable failure surfaces as a regeneration conflict
func (s *Service) inTx(ctx context.Context, fn func(r repo.Storage) error) error {
	run := func() error {
		return s.DB.Tx(ctx, func(q repokit.Queryer) error {
			return fn(s.Binder.Bind(q))
		})
	}
	err := run()
	if err != nil && perr.Retryable(err) {
		logger.C(ctx).Warn().Err(err).Msg("regeneration lock race, retrying once")
		if err = run(); err != nil && perr.Retryable(err) {
			return domain.ErrRegenerationConflict
		}
	}
	return err
}

// window resolves the generation window for a routine: the configured horizon
// from the later of the routine start and today in the subscriber's zone,
// capped at the routine end date
func (s *Service) window(rt domain.Routine, calc *deadline.Calculator) planner.Window {
	today := civil.DateOf(s.Now().In(calc.Zone()))
	return planner.HorizonWindow(rt.StartDate, today, s.Cfg.HorizonDays, rt.EndDate)
}

func steps(products []domain.RoutineProduct) []planner.Step {
	out := make([]planner.Step, 0, len(products))
	for _, p := range products {
		out = append(out, planner.Step{
			ProductID:    p.ID,
			SubscriberID: p.SubscriberID,
			TimeOfDay:    p.TimeOfDay,
			Frequency:    p.Frequency,
		})
	}
	return out
}

func (s *Service) drafts(rt domain.Routine, products []domain.RoutineProduct) ([]domain.Occurrence, error) {
	calc, err := deadline.NewCalculator(rt.Timezone)
	if err != nil {
		return nil, err
	}
	w := s.window(rt, calc)
	plan, err := planner.Generate(steps(products), w, deadline.NewCache(calc))
	if err != nil {
		return nil, err
	}

	now := s.Now().UTC()
	out := make([]domain.Occurrence, 0, len(plan))
	for _, d := range plan {
		out = append(out, domain.Occurrence{
			ID:             uuid.New(),
			ProductID:      d.ProductID,
			SubscriberID:   d.SubscriberID,
			ScheduledDate:  d.Date,
			TimeOfDay:      d.TimeOfDay,
			OnTimeDeadline: d.Deadlines.OnTime,
			GracePeriodEnd: d.Deadlines.GraceEnd,
			Status:         domain.StatusPending,
			CreatedAt:      now,
		})
	}
	return out, nil
}

// replaceProduct deletes the product's future occurrences and inserts the
// regenerated set, all on the caller's transaction
func (s *Service) replaceProduct(
	ctx context.Context,
	r repo.Storage,
	rt domain.Routine,
	p domain.RoutineProduct,
) error {
	calc, err := deadline.NewCalculator(rt.Timezone)
	if err != nil {
		return err
	}
	today := civil.DateOf(s.Now().In(calc.Zone()))
	if _, err := r.DeleteByProductFrom(ctx, p.ID, today); err != nil {
		return err
	}
	xs, err := s.drafts(rt, []domain.RoutineProduct{p})
	if err != nil {
		return err
	}
	return r.InsertOccurrences(ctx, xs)
}

func (s *Service) regenerateProduct(ctx context.Context, r repo.Storage, productID uuid.UUID) error {
	p, err := r.GetProductForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	rt, err := r.GetRoutine(ctx, p.RoutineID)
	if err != nil {
		return err
	}
	if rt.Status != domain.RoutinePublished {
		return nil // drafts materialize nothing
	}
	return s.replaceProduct(ctx, r, rt, p)
}

func (s *Service) productDeleted(ctx context.Context, r repo.Storage, productID uuid.UUID) error {
	n, err := r.DeleteByProduct(ctx, productID)
	if err != nil {
		return err
	}
	logger.C(ctx).Debug().
		Str("product_id", productID.String()).
		Int64("deleted", n).
		Msg("occurrences cascade deleted")
	return nil
}

func (s *Service) routinePublished(ctx context.Context, r repo.Storage, routineID uuid.UUID) error {
	rt, err := r.GetRoutineForUpdate(ctx, routineID)
	if err != nil {
		return err
	}
	if rt.Status != domain.RoutinePublished {
		return nil
	}
	calc, err := deadline.NewCalculator(rt.Timezone)
	if err != nil {
		return err
	}
	today := civil.DateOf(s.Now().In(calc.Zone()))
	if _, err := r.DeleteByRoutineFrom(ctx, routineID, today); err != nil {
		return err
	}
	products, err := r.ListProductsByRoutine(ctx, routineID)
	if err != nil {
		return err
	}
	xs, err := s.drafts(rt, products)
	if err != nil {
		return err
	}
	return r.InsertOccurrences(ctx, xs)
}

func (s *Service) routineUnpublished(ctx context.Context, r repo.Storage, routineID uuid.UUID) error {
	rt, err := r.GetRoutineForUpdate(ctx, routineID)
	if err != nil {
		return err
	}
	calc, err := deadline.NewCalculator(rt.Timezone)
	if err != nil {
		return err
	}
	today := civil.DateOf(s.Now().In(calc.Zone()))
	_, err = r.DeleteByRoutineFrom(ctx, routineID, today)
	return err
}

// ProductCreated implements domain.RegeneratorPort
func (s *Service) ProductCreated(ctx context.Context, productID uuid.UUID) error {
	return s.inTx(ctx, func(r repo.Storage) error {
		return s.regenerateProduct(ctx, r, productID)
	})
}

// ProductUpdated implements domain.RegeneratorPort.
// Renames and other non-schedule fields cause no occurrence churn
func (s *Service) ProductUpdated(ctx context.Context, productID uuid.UUID, diff domain.ProductDiff) error {
	if !diff.ScheduleAffecting() {
		return nil
	}
	return s.inTx(ctx, func(r repo.Storage) error {
		return s.regenerateProduct(ctx, r, productID)
	})
}

// ProductDeleted implements domain.RegeneratorPort, removing all occurrences
// for the product including past ones (cascade)
func (s *Service) ProductDeleted(ctx context.Context, productID uuid.UUID) error {
	return s.inTx(ctx, func(r repo.Storage) error {
		return s.productDeleted(ctx, r, productID)
	})
}

// RoutinePublished implements domain.RegeneratorPort.
// Idempotent by replacement: future occurrences for the whole routine are
// deleted and regenerated, never appended
func (s *Service) RoutinePublished(ctx context.Context, routineID uuid.UUID) error {
	return s.inTx(ctx, func(r repo.Storage) error {
		return s.routinePublished(ctx, r, routineID)
	})
}

// RoutineUnpublished implements domain.RegeneratorPort, dropping future
// occurrences while keeping history
func (s *Service) RoutineUnpublished(ctx context.Context, routineID uuid.UUID) error {
	return s.inTx(ctx, func(r repo.Storage) error {
		return s.routineUnpublished(ctx, r, routineID)
	})
}

// ProductCreatedTx implements domain.TxRegeneratorPort on the caller's transaction
func (s *Service) ProductCreatedTx(ctx context.Context, q repokit.Queryer, productID uuid.UUID) error {
	return s.regenerateProduct(ctx, s.Binder.Bind(q), productID)
}

// ProductUpdatedTx implements domain.TxRegeneratorPort
func (s *Service) ProductUpdatedTx(ctx context.Context, q repokit.Queryer, productID uuid.UUID, diff domain.ProductDiff) error {
	if !diff.ScheduleAffecting() {
		return nil
	}
	return s.regenerateProduct(ctx, s.Binder.Bind(q), productID)
}

// ProductDeletedTx implements domain.TxRegeneratorPort
func (s *Service) ProductDeletedTx(ctx context.Context, q repokit.Queryer, productID uuid.UUID) error {
	return s.productDeleted(ctx, s.Binder.Bind(q), productID)
}

// RoutinePublishedTx implements domain.TxRegeneratorPort
func (s *Service) RoutinePublishedTx(ctx context.Context, q repokit.Queryer, routineID uuid.UUID) error {
	return s.routinePublished(ctx, s.Binder.Bind(q), routineID)
}

// RoutineUnpublishedTx implements domain.TxRegeneratorPort
func (s *Service) RoutineUnpublishedTx(ctx context.Context, q repokit.Queryer, routineID uuid.UUID) error {
	return s.routineUnpublished(ctx, s.Binder.Bind(q), routineID)
}

// MarkDone implements domain.CompletionPort: transition A of the state machine
func (s *Service) MarkDone(ctx context.Context, occurrenceID uuid.UUID, at time.Time) (domain.Occurrence, error) {
	var out domain.Occurrence
	err := s.inTx(ctx, func(r repo.Storage) error {
		o, err := r.GetOccurrenceForUpdate(ctx, occurrenceID)
		if err != nil {
			return err
		}
		if o.Status != domain.StatusPending {
			return domain.ErrAlreadyFinalized
		}
		if at.After(o.GracePeriodEnd) {
			return domain.ErrGracePeriodExpired
		}
		st := domain.StatusOnTime
		if at.After(o.OnTimeDeadline) {
			st = domain.StatusLate
		}
		utc := at.UTC()
		if err := r.CompletePending(ctx, occurrenceID, utc, st); err != nil {
			return err
		}
		o.CompletedAt = &utc
		o.Status = st
		out = o
		return nil
	})
	return out, err
}

// SweepExpired implements domain.SweeperPort: transition B, idempotent
func (s *Service) SweepExpired(ctx context.Context, asOf time.Time) (int64, error) {
	r := s.Binder.Bind(s.DB)
	n, err := r.SweepExpired(ctx, asOf.UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.C(ctx).Info().Int64("missed", n).Time("as_of", asOf).Msg("expiry sweep flipped occurrences")
	}
	return n, nil
}

// SweepExpiredPaged implements domain.SweeperPort, draining the expired
// backlog in bounded batches. Each batch locks its rows (skipping ones held
// by in-flight completions) and flips them in its own short transaction
func (s *Service) SweepExpiredPaged(ctx context.Context, asOf time.Time, batch int) (int64, error) {
	if batch <= 0 {
		batch = 500
	}
	cutoff := asOf.UTC()
	var total int64
	for {
		var n int64
		err := s.inTx(ctx, func(r repo.Storage) error {
			xs, err := r.FindPendingExpired(ctx, cutoff, batch)
			if err != nil {
				return err
			}
			if len(xs) == 0 {
				n = 0
				return nil
			}
			ids := make([]uuid.UUID, 0, len(xs))
			for _, o := range xs {
				ids = append(ids, o.ID)
			}
			n, err = r.MarkMissed(ctx, ids)
			return err
		})
		if err != nil {
			return total, err
		}
		total += n
		if n < int64(batch) {
			break
		}
	}
	if total > 0 {
		logger.C(ctx).Info().Int64("missed", total).Time("as_of", asOf).Msg("paged expiry sweep complete")
	}
	return total, nil
}

// DayPlan implements domain.QueryPort
func (s *Service) DayPlan(ctx context.Context, subscriberID uuid.UUID, date civil.Date) ([]domain.Occurrence, error) {
	return s.Binder.Bind(s.DB).ListDay(ctx, subscriberID, date)
}
