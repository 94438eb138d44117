package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/advisorydesk/advisory-scheduler/internal/cache"
	"github.com/advisorydesk/advisory-scheduler/internal/config"
	dbpkg "github.com/advisorydesk/advisory-scheduler/internal/db"
	infraRepo "github.com/advisorydesk/advisory-scheduler/internal/infra/repository"
	"github.com/advisorydesk/advisory-scheduler/internal/notify"
	"github.com/advisorydesk/advisory-scheduler/internal/timezone"
	ucSchedule "github.com/advisorydesk/advisory-scheduler/internal/usecase/schedule"
)

// The worker owns the background cadence: releasing expired holds on a
// short ticker and re-materializing the slot horizon on a long one. The
// API exposes the same operations for on-demand runs.
func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := infraRepo.NewScheduleGormRepository(db)

	notifyDispatcher := notify.NewDispatcher(notify.NewEmailNotifier())

	var slotsCache ucSchedule.SlotsCache
	if cfg.RedisAddr != "" {
		slotsCache = cache.NewSlotsCache(
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			cfg.SlotsCacheTTL,
		)
	}

	loc := timezone.Location(cfg.Timezone)

	releaseUC := ucSchedule.NewReleaseSlot(repo, slotsCache, notifyDispatcher)
	sweepUC := ucSchedule.NewSweep(repo, releaseUC)
	materializeUC := ucSchedule.NewMaterialize(repo, loc)
	reconcileUC := ucSchedule.NewReconcile(repo, materializeUC)

	runMaterialize := func() {
		now := time.Now().In(loc)

		mres, err := materializeUC.Execute(ctx, cfg.HorizonDays, now)
		if err != nil {
			log.Printf("materialize error: %v", err)
		} else {
			log.Printf("materialize: created=%d skipped=%d", mres.Created, mres.Skipped)
		}

		rres, err := reconcileUC.Execute(ctx, cfg.HorizonDays, now)
		if err != nil {
			log.Printf("reconcile error: %v", err)
		} else if len(rres.Conflicts) > 0 {
			for _, conflict := range rres.Conflicts {
				log.Printf(
					"reconcile conflict: %s %s %s defined by %v",
					conflict.Date, conflict.Time, conflict.ServiceType, conflict.Definitions,
				)
			}
		}
	}

	// Fill the horizon once at startup so a fresh deployment serves
	// slots before the first long tick.
	runMaterialize()

	sweepTicker := time.NewTicker(cfg.SweepInterval)
	defer sweepTicker.Stop()

	materializeTicker := time.NewTicker(cfg.MaterializeInterval)
	defer materializeTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	log.Printf(
		"worker running: sweep every %s, materialize every %s",
		cfg.SweepInterval, cfg.MaterializeInterval,
	)

	for {
		select {
		case <-sweepTicker.C:
			result, err := sweepUC.Execute(ctx, time.Now().In(loc))
			if err != nil {
				log.Printf("sweep error: %v", err)
				continue
			}
			if result.Released > 0 || result.Failed > 0 {
				log.Printf("sweep: released=%d failed=%d", result.Released, result.Failed)
			}

		case <-materializeTicker.C:
			runMaterialize()

		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
