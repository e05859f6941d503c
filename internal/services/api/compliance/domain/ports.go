package domain

import "context"

// ServicePort defines the service contract for compliance
type ServicePort interface {
	Complete(ctx context.Context, in CompleteInput) (Occurrence, error)
	Sweep(ctx context.Context, in SweepInput) (SweepOutput, error)
	DayPlan(ctx context.Context, in DayPlanInput) ([]Occurrence, error)
}
