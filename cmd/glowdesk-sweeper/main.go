package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"glowdesk/internal/modkit"
	"glowdesk/internal/modkit/module"
	"glowdesk/internal/platform/config"
	"glowdesk/internal/platform/logger"
	"glowdesk/internal/platform/store"

	schedulemod "glowdesk/internal/services/schedule/module"
)

func main() {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// Flags
	var (
		fMode     = flag.String("mode", "sweep", "sweeper mode: sweep | worker | regen")
		fInterval = flag.Duration("interval", 5*time.Minute, "sweep interval in worker mode")
		fBatch    = flag.Int("batch", 500, "rows per sweep transaction in worker mode")
		fRoutine  = flag.String("routine", "", "routine id to regenerate in regen mode")
	)
	flag.Parse()

	// Shared deps
	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	sm := schedulemod.New(deps)
	module.Register(sm.Name(), sm.Ports())
	ports := module.MustPortsOf[schedulemod.Ports](sm)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *fMode {
	case "sweep":
		// One pass over expired pending occurrences, then exit
		n, err := ports.Sweeper.SweepExpired(ctx, time.Now())
		if err != nil {
			l.Fatal().Err(err).Msg("expiry sweep failed")
		}
		l.Info().Int64("missed", n).Msg("expiry sweep complete")

	case "worker":
		// Run forever (until signal) draining the backlog in bounded batches
		l.Info().Dur("interval", *fInterval).Int("batch", *fBatch).Msg("sweeper worker started")
		tick := time.NewTicker(*fInterval)
		defer tick.Stop()
		for {
			if _, err := ports.Sweeper.SweepExpiredPaged(ctx, time.Now(), *fBatch); err != nil {
				l.Error().Err(err).Msg("expiry sweep failed")
			}
			select {
			case <-ctx.Done():
				l.Info().Msg("sweeper worker stopping")
				return
			case <-tick.C:
			}
		}

	case "regen":
		// Rebuild one routine's future schedule, then exit
		id, err := uuid.Parse(*fRoutine)
		if err != nil {
			l.Panic().Str("routine", *fRoutine).Msg("regen mode requires -routine with a valid uuid")
		}
		if err := ports.Regenerator.RoutinePublished(ctx, id); err != nil {
			l.Fatal().Err(err).Msg("routine regeneration failed")
		}
		l.Info().Str("routine_id", id.String()).Msg("routine schedule regenerated")

	default:
		l.Panic().Str("mode", *fMode).Msg("unknown -mode (expected: sweep | worker | regen)")
	}
}
