// Package module implements the schedule engine module
package module

import (
	"glowdesk/internal/modkit"
	"glowdesk/internal/modkit/httpkit"
	"glowdesk/internal/services/schedule/domain"
	"glowdesk/internal/services/schedule/repo"
	"glowdesk/internal/services/schedule/service"
)

// Ports exposed by the schedule module
type Ports struct {
	Regenerator   domain.RegeneratorPort
	RegeneratorTx domain.TxRegeneratorPort
	Completion    domain.CompletionPort
	Sweeper       domain.SweeperPort
	Query         domain.QueryPort
}

// Module implements the schedule engine module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new schedule module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		HorizonDays: opts.HorizonDays,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Regenerator:   svc,
		RegeneratorTx: svc,
		Completion:    svc,
		Sweeper:       svc,
		Query:         svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "schedule" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module; the engine has no routes of its own
func (m *Module) MountRoutes(r httpkit.Router) {}
