package module

import (
	"context"

	rpdom "glowdesk/internal/services/api/reports/domain"
	rpsvc "glowdesk/internal/services/api/reports/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptReportsPort exposes service methods as module ports for cross-module usage
type adaptReportsPort struct{ svc rpsvc.Service }

func (a adaptReportsPort) Weekly(ctx context.Context, in rpdom.WeeklyInput) (rpdom.WeeklyReport, error) {
	return a.svc.Weekly(ctx, in)
}

func (a adaptReportsPort) ByProduct(ctx context.Context, in rpdom.ByProductInput) ([]rpdom.ProductReport, error) {
	return a.svc.ByProduct(ctx, in)
}
