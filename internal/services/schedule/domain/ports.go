package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"glowdesk/internal/core/civil"
	"glowdesk/internal/modkit/repokit"
)

// RegeneratorPort regenerates a scope in a transaction of its own. For
// standalone callers (operator tooling); mutations that must commit atomically
// with their regeneration use TxRegeneratorPort instead
type RegeneratorPort interface {
	// ProductCreated inserts occurrences for a new product when its routine is published
	ProductCreated(ctx context.Context, productID uuid.UUID) error
	// ProductUpdated replaces future occurrences when frequency or time-of-day changed
	ProductUpdated(ctx context.Context, productID uuid.UUID, diff ProductDiff) error
	// ProductDeleted removes all occurrences for the product
	ProductDeleted(ctx context.Context, productID uuid.UUID) error
	// RoutinePublished replaces future occurrences for every product in the routine
	RoutinePublished(ctx context.Context, routineID uuid.UUID) error
	// RoutineUnpublished removes future occurrences for every product in the routine
	RoutineUnpublished(ctx context.Context, routineID uuid.UUID) error
}

// TxRegeneratorPort mirrors RegeneratorPort on the caller's transaction: the
// triggering mutation and the occurrence delete+insert commit or roll back as
// one. The caller owns the transaction and its retry policy
type TxRegeneratorPort interface {
	ProductCreatedTx(ctx context.Context, q repokit.Queryer, productID uuid.UUID) error
	ProductUpdatedTx(ctx context.Context, q repokit.Queryer, productID uuid.UUID, diff ProductDiff) error
	ProductDeletedTx(ctx context.Context, q repokit.Queryer, productID uuid.UUID) error
	RoutinePublishedTx(ctx context.Context, q repokit.Queryer, routineID uuid.UUID) error
	RoutineUnpublishedTx(ctx context.Context, q repokit.Queryer, routineID uuid.UUID) error
}

// CompletionPort records subscriber completion actions
type CompletionPort interface {
	// MarkDone applies the completion transition at instant at.
	// Rejects when the occurrence is already finalized or past its grace period
	MarkDone(ctx context.Context, occurrenceID uuid.UUID, at time.Time) (Occurrence, error)
}

// SweeperPort flips expired pending occurrences to missed
type SweeperPort interface {
	// SweepExpired transitions pending rows whose grace period ended at or
	// before asOf, returning how many were flipped
	SweepExpired(ctx context.Context, asOf time.Time) (int64, error)
	// SweepExpiredPaged drains the same backlog in bounded batches so a large
	// backlog never holds one long transaction. Used by the worker loop
	SweepExpiredPaged(ctx context.Context, asOf time.Time, batch int) (int64, error)
}

// QueryPort is the read side used by the dashboard
type QueryPort interface {
	// DayPlan lists a subscriber's occurrences for one date
	DayPlan(ctx context.Context, subscriberID uuid.UUID, date civil.Date) ([]Occurrence, error)
}
