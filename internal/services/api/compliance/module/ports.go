package module

import (
	"context"

	cdom "glowdesk/internal/services/api/compliance/domain"
	csvc "glowdesk/internal/services/api/compliance/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptCompliancePort exposes service methods as module ports for cross-module usage
type adaptCompliancePort struct{ svc csvc.Service }

func (a adaptCompliancePort) Complete(ctx context.Context, in cdom.CompleteInput) (cdom.Occurrence, error) {
	return a.svc.Complete(ctx, in)
}

func (a adaptCompliancePort) DayPlan(ctx context.Context, in cdom.DayPlanInput) ([]cdom.Occurrence, error) {
	return a.svc.DayPlan(ctx, in)
}
