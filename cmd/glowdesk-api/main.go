// @title         Glowdesk API
// @version       0.1.0
// @description   Routine scheduling and compliance endpoints for the coaching backend

package main

import (
	"context"

	"glowdesk/internal/platform/config"
	"glowdesk/internal/platform/logger"
	phttp "glowdesk/internal/platform/net/http"
	"glowdesk/internal/platform/store"

	"glowdesk/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_") // pgCfg lives under SERVICE_PGSQL_*

	// bring up logging early
	l := logger.Get()

	// open the platform store
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API; module config (SCHEDULE_HORIZON_DAYS etc) reads the
	// root scope so both binaries see the same knobs
	api.Mount(
		srv.Router(),
		api.Options{
			Config:        root,
			Store:         st,
			Logger:        l,
			EnableSwagger: apiCfg.MayBool("SWAGGER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
