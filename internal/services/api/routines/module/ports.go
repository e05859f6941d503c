package module

import (
	"context"

	rdom "glowdesk/internal/services/api/routines/domain"
	rsvc "glowdesk/internal/services/api/routines/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptRoutinesPort exposes service methods as module ports for cross-module usage
type adaptRoutinesPort struct{ svc rsvc.Service }

func (a adaptRoutinesPort) Create(ctx context.Context, in rdom.CreateRoutineInput) (rdom.Routine, error) {
	return a.svc.Create(ctx, in)
}

func (a adaptRoutinesPort) Get(ctx context.Context, in rdom.RoutineRef) (rdom.RoutineDetail, error) {
	return a.svc.Get(ctx, in)
}

func (a adaptRoutinesPort) Publish(ctx context.Context, in rdom.RoutineRef) (rdom.Routine, error) {
	return a.svc.Publish(ctx, in)
}
