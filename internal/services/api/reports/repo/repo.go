// Package repo provides postgres access for reports
package repo

import (
	"context"

	"github.com/google/uuid"

	"glowdesk/internal/modkit/repokit"
)

// Repo is the minimal persistence surface for reports
type Repo interface {
	DailyStatusCounts(ctx context.Context, subscriberID uuid.UUID, start, end string) ([]RowDaily, error)
	ByProduct(ctx context.Context, subscriberID uuid.UUID, start, end string) ([]RowByProduct, error)
}

// RowDaily counts one subscriber's occurrences by day and status
type RowDaily struct {
	Day    string
	Status string
	Count  int64
}

// RowByProduct aggregates one product's occurrences over a range
type RowByProduct struct {
	ProductID uuid.UUID
	Name      string
	Scheduled int64
	OnTime    int64
	Late      int64
	Missed    int64
	Pending   int64
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) DailyStatusCounts(ctx context.Context, subscriberID uuid.UUID, start, end string) ([]RowDaily, error) {
	const sql = `
select scheduled_date::text, status, count(1)
from scheduled_occurrences
where subscriber_id = $1
and scheduled_date between $2 and $3
group by scheduled_date, status
order by scheduled_date asc, status asc
`
	rows, err := r.q.Query(ctx, sql, subscriberID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RowDaily
	for rows.Next() {
		var rr RowDaily
		if err := rows.Scan(&rr.Day, &rr.Status, &rr.Count); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *queries) ByProduct(ctx context.Context, subscriberID uuid.UUID, start, end string) ([]RowByProduct, error) {
	const sql = `
select p.id, p.name,
count(o.id) as scheduled,
count(o.id) filter (where o.status = 'on_time') as on_time,
count(o.id) filter (where o.status = 'late') as late,
count(o.id) filter (where o.status = 'missed') as missed,
count(o.id) filter (where o.status = 'pending') as pending
from routine_products p
join scheduled_occurrences o on o.product_id = p.id
where o.subscriber_id = $1
and o.scheduled_date between $2 and $3
group by p.id, p.name
order by p.name asc, p.id asc
`
	rows, err := r.q.Query(ctx, sql, subscriberID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RowByProduct
	for rows.Next() {
		var rr RowByProduct
		if err := rows.Scan(&rr.ProductID, &rr.Name, &rr.Scheduled, &rr.OnTime, &rr.Late, &rr.Missed, &rr.Pending); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
