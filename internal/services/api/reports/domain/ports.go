package domain

import "context"

// ServicePort defines the service contract for reports
type ServicePort interface {
	Weekly(ctx context.Context, in WeeklyInput) (WeeklyReport, error)
	ByProduct(ctx context.Context, in ByProductInput) ([]ProductReport, error)
}
