// Package module wires routines into the API using modkit
package module

import (
	"net/http"

	modkit "glowdesk/internal/modkit"
	"glowdesk/internal/modkit/httpkit"
	str "glowdesk/internal/platform/strings"
	rhttp "glowdesk/internal/services/api/routines/http"
	rrepo "glowdesk/internal/services/api/routines/repo"
	rsvc "glowdesk/internal/services/api/routines/service"
	scheduledom "glowdesk/internal/services/schedule/domain"
)

// Module implements the routines API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc rsvc.Service
}

// Ports declares the injected engine port(s) this API module requires.
// The Tx variant is required so routine writes and their regeneration share
// one transaction
type Ports struct {
	Regenerator scheduledom.TxRegeneratorPort
}

// New constructs a routines module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("routines"),
		modkit.WithPrefix("/routines"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Regenerator == nil {
		panic("routines API module requires Regenerator port (from services/schedule)")
	}

	svc := rsvc.New(deps.PG, rrepo.NewPG(), injected.Regenerator)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptRoutinesPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		rhttp.Register(r, m.svc)
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
