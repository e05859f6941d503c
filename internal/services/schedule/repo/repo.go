// Package repo provides the schedule repository implementation
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"glowdesk/internal/core/cadence"
	"glowdesk/internal/core/civil"
	"glowdesk/internal/modkit/repokit"
	perr "glowdesk/internal/platform/errors"
	"glowdesk/internal/platform/store"
	"glowdesk/internal/services/schedule/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the schedule repository
type Storage interface {
	GetRoutine(ctx context.Context, routineID uuid.UUID) (domain.Routine, error)
	GetRoutineForUpdate(ctx context.Context, routineID uuid.UUID) (domain.Routine, error)
	GetProductForUpdate(ctx context.Context, productID uuid.UUID) (domain.RoutineProduct, error)
	ListProductsByRoutine(ctx context.Context, routineID uuid.UUID) ([]domain.RoutineProduct, error)

	InsertOccurrences(ctx context.Context, xs []domain.Occurrence) error
	DeleteByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	DeleteByProductFrom(ctx context.Context, productID uuid.UUID, from civil.Date) (int64, error)
	DeleteByRoutineFrom(ctx context.Context, routineID uuid.UUID, from civil.Date) (int64, error)

	GetOccurrenceForUpdate(ctx context.Context, id uuid.UUID) (domain.Occurrence, error)
	CompletePending(ctx context.Context, id uuid.UUID, at time.Time, st domain.Status) error
	SweepExpired(ctx context.Context, asOf time.Time) (int64, error)
	FindPendingExpired(ctx context.Context, asOf time.Time, limit int) ([]domain.Occurrence, error)
	MarkMissed(ctx context.Context, ids []uuid.UUID) (int64, error)
	ListDay(ctx context.Context, subscriberID uuid.UUID, date civil.Date) ([]domain.Occurrence, error)
}

const routineCols = `id, subscriber_id, name, status, timezone, start_date, end_date, created_at, updated_at`

func scanRoutine(r store.Row) (domain.Routine, error) {
	var (
		out     domain.Routine
		status  string
		startAt time.Time
		endAt   *time.Time
	)
	if err := r.Scan(
		&out.ID, &out.SubscriberID, &out.Name, &status, &out.Timezone,
		&startAt, &endAt, &out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return domain.Routine{}, err
	}
	out.Status = domain.RoutineStatus(status)
	out.StartDate = civil.DateOf(startAt)
	if endAt != nil {
		d := civil.DateOf(*endAt)
		out.EndDate = &d
	}
	return out, nil
}

// GetRoutine implements Storage
func (s *pg) GetRoutine(ctx context.Context, routineID uuid.UUID) (domain.Routine, error) {
	return store.One(ctx, s.q, scanRoutine,
		`SELECT `+routineCols+` FROM routines WHERE id = $1`, routineID)
}

// GetRoutineForUpdate locks the routine row to serialize regeneration for its scope
func (s *pg) GetRoutineForUpdate(ctx context.Context, routineID uuid.UUID) (domain.Routine, error) {
	return store.One(ctx, s.q, scanRoutine,
		`SELECT `+routineCols+` FROM routines WHERE id = $1 FOR UPDATE`, routineID)
}

const productCols = `id, routine_id, subscriber_id, name, time_of_day, frequency_kind, weekday_mask,
	sort_order, created_at, updated_at`

func scanProduct(r store.Row) (domain.RoutineProduct, error) {
	var (
		out  domain.RoutineProduct
		tod  string
		kind string
		mask int16
	)
	if err := r.Scan(
		&out.ID, &out.RoutineID, &out.SubscriberID, &out.Name, &tod, &kind, &mask,
		&out.Position, &out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return domain.RoutineProduct{}, err
	}
	out.TimeOfDay = cadence.TimeOfDay(tod)
	freq, err := cadence.ParseFrequency(kind, cadence.WeekdayMask(mask))
	if err != nil {
		return domain.RoutineProduct{}, perr.Wrapf(err, perr.ErrorCodeDB, "product %s has invalid frequency", out.ID)
	}
	out.Frequency = freq
	return out, nil
}

// GetProductForUpdate locks the product row to serialize regeneration for its scope
func (s *pg) GetProductForUpdate(ctx context.Context, productID uuid.UUID) (domain.RoutineProduct, error) {
	return store.One(ctx, s.q, scanProduct,
		`SELECT `+productCols+` FROM routine_products WHERE id = $1 FOR UPDATE`, productID)
}

// ListProductsByRoutine implements Storage, ordered by position for deterministic planning
func (s *pg) ListProductsByRoutine(ctx context.Context, routineID uuid.UUID) ([]domain.RoutineProduct, error) {
	return store.Many(ctx, s.q, scanProduct,
		`SELECT `+productCols+` FROM routine_products WHERE routine_id = $1 ORDER BY sort_order, created_at`,
		routineID)
}

// InsertOccurrences bulk-inserts generated occurrences in one statement
func (s *pg) InsertOccurrences(ctx context.Context, xs []domain.Occurrence) error {
	if len(xs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO scheduled_occurrences
		(id, product_id, subscriber_id, scheduled_date, time_of_day,
		on_time_deadline, grace_period_end, status, created_at) VALUES `)

	args := make([]any, 0, len(xs)*9)
	for i, o := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*9 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)

		args = append(args,
			o.ID, o.ProductID, o.SubscriberID, o.ScheduledDate.String(), string(o.TimeOfDay),
			o.OnTimeDeadline, o.GracePeriodEnd, string(o.Status), o.CreatedAt,
		)
	}
	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}

// DeleteByProduct removes every occurrence for the product (cascade on delete)
func (s *pg) DeleteByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	tag, err := s.q.Exec(ctx,
		`DELETE FROM scheduled_occurrences WHERE product_id = $1`, productID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteByProductFrom removes occurrences on or after from, leaving history untouched
func (s *pg) DeleteByProductFrom(ctx context.Context, productID uuid.UUID, from civil.Date) (int64, error) {
	tag, err := s.q.Exec(ctx,
		`DELETE FROM scheduled_occurrences WHERE product_id = $1 AND scheduled_date >= $2`,
		productID, from.String())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteByRoutineFrom removes future occurrences for every product in the routine
func (s *pg) DeleteByRoutineFrom(ctx context.Context, routineID uuid.UUID, from civil.Date) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		DELETE FROM scheduled_occurrences o
		USING routine_products p
		WHERE o.product_id = p.id AND p.routine_id = $1 AND o.scheduled_date >= $2`,
		routineID, from.String())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const occurrenceCols = `id, product_id, subscriber_id, scheduled_date, time_of_day,
	on_time_deadline, grace_period_end, completed_at, status, created_at`

func scanOccurrence(r store.Row) (domain.Occurrence, error) {
	var (
		out    domain.Occurrence
		date   time.Time
		tod    string
		status string
	)
	if err := r.Scan(
		&out.ID, &out.ProductID, &out.SubscriberID, &date, &tod,
		&out.OnTimeDeadline, &out.GracePeriodEnd, &out.CompletedAt, &status, &out.CreatedAt,
	); err != nil {
		return domain.Occurrence{}, err
	}
	out.ScheduledDate = civil.DateOf(date)
	out.TimeOfDay = cadence.TimeOfDay(tod)
	out.Status = domain.Status(status)
	return out, nil
}

// GetOccurrenceForUpdate locks one occurrence row for a completion transition
func (s *pg) GetOccurrenceForUpdate(ctx context.Context, id uuid.UUID) (domain.Occurrence, error) {
	return store.One(ctx, s.q, scanOccurrence,
		`SELECT `+occurrenceCols+` FROM scheduled_occurrences WHERE id = $1 FOR UPDATE`, id)
}

// CompletePending applies a completion transition guarded on pending status,
// so a racing sweep or double completion affects exactly zero rows
func (s *pg) CompletePending(ctx context.Context, id uuid.UUID, at time.Time, st domain.Status) error {
	return store.ExecOne(ctx, s.q, `
		UPDATE scheduled_occurrences
		SET completed_at = $2, status = $3
		WHERE id = $1 AND status = 'pending'`,
		id, at, string(st))
}

// SweepExpired flips expired pending rows to missed, leaving completed_at null
func (s *pg) SweepExpired(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE scheduled_occurrences
		SET status = 'missed'
		WHERE status = 'pending' AND grace_period_end <= $1`,
		asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// FindPendingExpired locks a batch of pending rows whose grace period ended at
// or before asOf, skipping rows held by a concurrent completion
func (s *pg) FindPendingExpired(ctx context.Context, asOf time.Time, limit int) ([]domain.Occurrence, error) {
	return store.Many(ctx, s.q, scanOccurrence, `
		SELECT `+occurrenceCols+`
		FROM scheduled_occurrences
		WHERE status = 'pending' AND grace_period_end <= $1
		ORDER BY grace_period_end
		LIMIT $2
		FOR UPDATE SKIP LOCKED`,
		asOf, limit)
}

// MarkMissed flips the given rows to missed, still guarded on pending status
func (s *pg) MarkMissed(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.q.Exec(ctx, `
		UPDATE scheduled_occurrences
		SET status = 'missed'
		WHERE id = ANY($1) AND status = 'pending'`,
		ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListDay lists a subscriber's occurrences for one date, morning first
func (s *pg) ListDay(ctx context.Context, subscriberID uuid.UUID, date civil.Date) ([]domain.Occurrence, error) {
	return store.Many(ctx, s.q, scanOccurrence, `
		SELECT `+occurrenceCols+`
		FROM scheduled_occurrences
		WHERE subscriber_id = $1 AND scheduled_date = $2
		ORDER BY on_time_deadline, created_at`,
		subscriberID, date.String())
}
