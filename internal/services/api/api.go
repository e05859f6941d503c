// Package api provides the HTTP API for the application
package api

import (
	"glowdesk/internal/platform/config"
	"glowdesk/internal/platform/logger"
	phttp "glowdesk/internal/platform/net/http"
	"glowdesk/internal/platform/store"

	"glowdesk/internal/modkit"
	"glowdesk/internal/modkit/httpkit"
	"glowdesk/internal/modkit/module"
	"glowdesk/internal/modkit/swaggerkit"

	compliancemod "glowdesk/internal/services/api/compliance/module"
	reportsmod "glowdesk/internal/services/api/reports/module"
	routinesmod "glowdesk/internal/services/api/routines/module"

	// Engine module that owns the schedule ports
	schedulemod "glowdesk/internal/services/schedule/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	// Construct the schedule engine first and extract its ports
	schedule := schedulemod.New(deps)
	enginePorts := module.MustPortsOf[schedulemod.Ports](schedule)

	// Inject the engine ports into the API modules that drive it
	routines := routinesmod.New(
		deps,
		modkit.WithPorts(routinesmod.Ports{
			Regenerator: enginePorts.RegeneratorTx,
		}),
	)
	compliance := compliancemod.New(
		deps,
		modkit.WithPorts(compliancemod.Ports{
			Completion: enginePorts.Completion,
			Sweeper:    enginePorts.Sweeper,
			Query:      enginePorts.Query,
		}),
	)

	mods := []module.Module{
		schedule, // include the engine so its ports are registered
		routines,
		compliance,
		reportsmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its own prefix
			m.MountRoutes(api)
		}
	})
}
