// Package module wires compliance into the API using modkit
package module

import (
	"net/http"

	modkit "glowdesk/internal/modkit"
	"glowdesk/internal/modkit/httpkit"
	str "glowdesk/internal/platform/strings"
	chttp "glowdesk/internal/services/api/compliance/http"
	csvc "glowdesk/internal/services/api/compliance/service"
	scheduledom "glowdesk/internal/services/schedule/domain"
)

// Module implements the compliance API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc csvc.Service
}

// Ports declares the injected engine ports this API module requires
type Ports struct {
	Completion scheduledom.CompletionPort
	Sweeper    scheduledom.SweeperPort
	Query      scheduledom.QueryPort
}

// New constructs a compliance module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("compliance"),
		modkit.WithPrefix("/compliance"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Completion == nil || injected.Sweeper == nil || injected.Query == nil {
		panic("compliance API module requires Completion, Sweeper and Query ports (from services/schedule)")
	}

	svc := csvc.New(injected.Completion, injected.Sweeper, injected.Query)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptCompliancePort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		chttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
