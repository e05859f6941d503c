// Package repo provides persistence for routines and their products
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"glowdesk/internal/core/cadence"
	"glowdesk/internal/core/civil"
	"glowdesk/internal/modkit/repokit"
	perr "glowdesk/internal/platform/errors"
	"glowdesk/internal/platform/store"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new routines repo binder for Postgres
func NewPG() repokit.Binder[Repo] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Repo { return &pg{q: q} }

// RoutineRow is a routines table row
type RoutineRow struct {
	ID           uuid.UUID
	SubscriberID uuid.UUID
	Name         string
	Status       string
	Timezone     string
	StartDate    civil.Date
	EndDate      *civil.Date
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductRow is a routine_products table row
type ProductRow struct {
	ID           uuid.UUID
	RoutineID    uuid.UUID
	SubscriberID uuid.UUID
	Name         string
	TimeOfDay    cadence.TimeOfDay
	Frequency    cadence.Frequency
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repo defines the routines repository
type Repo interface {
	InsertRoutine(ctx context.Context, r RoutineRow) error
	UpdateRoutine(ctx context.Context, r RoutineRow) error
	SetStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error
	DeleteRoutine(ctx context.Context, id uuid.UUID) error
	GetRoutine(ctx context.Context, id uuid.UUID) (RoutineRow, error)
	ListBySubscriber(ctx context.Context, subscriberID uuid.UUID) ([]RoutineRow, error)

	InsertProduct(ctx context.Context, p ProductRow) error
	UpdateProduct(ctx context.Context, p ProductRow) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (ProductRow, error)
	ListProducts(ctx context.Context, routineID uuid.UUID) ([]ProductRow, error)
	NextPosition(ctx context.Context, routineID uuid.UUID) (int, error)
}

const routineCols = `id, subscriber_id, name, status, timezone, start_date, end_date, created_at, updated_at`

func scanRoutine(r store.Row) (RoutineRow, error) {
	var (
		out     RoutineRow
		startAt time.Time
		endAt   *time.Time
	)
	if err := r.Scan(
		&out.ID, &out.SubscriberID, &out.Name, &out.Status, &out.Timezone,
		&startAt, &endAt, &out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return RoutineRow{}, err
	}
	out.StartDate = civil.DateOf(startAt)
	if endAt != nil {
		d := civil.DateOf(*endAt)
		out.EndDate = &d
	}
	return out, nil
}

func endDateArg(d *civil.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

// InsertRoutine implements Repo
func (s *pg) InsertRoutine(ctx context.Context, r RoutineRow) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO routines (id, subscriber_id, name, status, timezone, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.SubscriberID, r.Name, r.Status, r.Timezone,
		r.StartDate.String(), endDateArg(r.EndDate), r.CreatedAt, r.UpdatedAt,
	)
	return err
}

// UpdateRoutine implements Repo, replacing the editable fields
func (s *pg) UpdateRoutine(ctx context.Context, r RoutineRow) error {
	return store.ExecOne(ctx, s.q, `
		UPDATE routines
		SET name = $2, timezone = $3, start_date = $4, end_date = $5, updated_at = $6
		WHERE id = $1`,
		r.ID, r.Name, r.Timezone, r.StartDate.String(), endDateArg(r.EndDate), r.UpdatedAt,
	)
}

// SetStatus implements Repo
func (s *pg) SetStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	return store.ExecOne(ctx, s.q, `
		UPDATE routines SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, at,
	)
}

// DeleteRoutine implements Repo; products and occurrences go with it (cascade)
func (s *pg) DeleteRoutine(ctx context.Context, id uuid.UUID) error {
	return store.ExecOne(ctx, s.q, `DELETE FROM routines WHERE id = $1`, id)
}

// GetRoutine implements Repo
func (s *pg) GetRoutine(ctx context.Context, id uuid.UUID) (RoutineRow, error) {
	return store.One(ctx, s.q, scanRoutine,
		`SELECT `+routineCols+` FROM routines WHERE id = $1`, id)
}

// ListBySubscriber implements Repo, newest first
func (s *pg) ListBySubscriber(ctx context.Context, subscriberID uuid.UUID) ([]RoutineRow, error) {
	return store.Many(ctx, s.q, scanRoutine,
		`SELECT `+routineCols+` FROM routines WHERE subscriber_id = $1 ORDER BY created_at DESC`,
		subscriberID)
}

const productCols = `id, routine_id, subscriber_id, name, time_of_day, frequency_kind, weekday_mask,
	sort_order, created_at, updated_at`

func scanProduct(r store.Row) (ProductRow, error) {
	var (
		out  ProductRow
		tod  string
		kind string
		mask int16
	)
	if err := r.Scan(
		&out.ID, &out.RoutineID, &out.SubscriberID, &out.Name, &tod, &kind, &mask,
		&out.Position, &out.CreatedAt, &out.UpdatedAt,
	); err != nil {
		return ProductRow{}, err
	}
	out.TimeOfDay = cadence.TimeOfDay(tod)
	freq, err := cadence.ParseFrequency(kind, cadence.WeekdayMask(mask))
	if err != nil {
		return ProductRow{}, perr.Wrapf(err, perr.ErrorCodeDB, "product %s has invalid frequency", out.ID)
	}
	out.Frequency = freq
	return out, nil
}

// InsertProduct implements Repo
func (s *pg) InsertProduct(ctx context.Context, p ProductRow) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO routine_products
			(id, routine_id, subscriber_id, name, time_of_day, frequency_kind, weekday_mask, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.RoutineID, p.SubscriberID, p.Name, string(p.TimeOfDay),
		p.Frequency.Kind(), int16(p.Frequency.Mask()), p.Position, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// UpdateProduct implements Repo, replacing the editable fields
func (s *pg) UpdateProduct(ctx context.Context, p ProductRow) error {
	return store.ExecOne(ctx, s.q, `
		UPDATE routine_products
		SET name = $2, time_of_day = $3, frequency_kind = $4, weekday_mask = $5, sort_order = $6, updated_at = $7
		WHERE id = $1`,
		p.ID, p.Name, string(p.TimeOfDay), p.Frequency.Kind(), int16(p.Frequency.Mask()), p.Position, p.UpdatedAt,
	)
}

// DeleteProduct implements Repo
func (s *pg) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return store.ExecOne(ctx, s.q, `DELETE FROM routine_products WHERE id = $1`, id)
}

// GetProduct implements Repo
func (s *pg) GetProduct(ctx context.Context, id uuid.UUID) (ProductRow, error) {
	return store.One(ctx, s.q, scanProduct,
		`SELECT `+productCols+` FROM routine_products WHERE id = $1`, id)
}

// ListProducts implements Repo, in step order
func (s *pg) ListProducts(ctx context.Context, routineID uuid.UUID) ([]ProductRow, error) {
	return store.Many(ctx, s.q, scanProduct,
		`SELECT `+productCols+` FROM routine_products WHERE routine_id = $1 ORDER BY sort_order, created_at`,
		routineID)
}

// NextPosition returns one past the highest step position in the routine
func (s *pg) NextPosition(ctx context.Context, routineID uuid.UUID) (int, error) {
	n, err := store.Scalar[int](ctx, s.q,
		`SELECT COALESCE(MAX(sort_order), 0) + 1 FROM routine_products WHERE routine_id = $1`,
		routineID)
	if err != nil {
		return 0, err
	}
	return n, nil
}
