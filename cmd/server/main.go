package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/farmsim/internal/config"
	"github.com/mamadbah2/farmsim/internal/metrics"
	"github.com/mamadbah2/farmsim/internal/persistence"
	"github.com/mamadbah2/farmsim/internal/repository/mongodb"
	"github.com/mamadbah2/farmsim/internal/repository/sheets"
	"github.com/mamadbah2/farmsim/internal/scheduler"
	"github.com/mamadbah2/farmsim/internal/server/handlers"
	"github.com/mamadbah2/farmsim/internal/server/router"
	"github.com/mamadbah2/farmsim/internal/service/farm"
	"github.com/mamadbah2/farmsim/internal/service/game"
	reportingsvc "github.com/mamadbah2/farmsim/internal/service/reporting"
	"github.com/mamadbah2/farmsim/internal/simulation"
	"github.com/mamadbah2/farmsim/pkg/clients/webhook"
	"github.com/mamadbah2/farmsim/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, closeStore := openStore(cfg.Save, baseLogger)
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := farm.NewManager(store, simulation.NewRand(cfg.Game.Seed), baseLogger.Named("svc.farm"))
	if manager.HasSave(ctx) {
		if err := manager.Load(ctx); err != nil {
			baseLogger.Warn("failed to load save, starting a new game", zap.Error(err))
			manager.NewGame(cfg.Game.FarmName, cfg.Game.FarmerName)
		}
	} else {
		manager.NewGame(cfg.Game.FarmName, cfg.Game.FarmerName)
	}
	if err := manager.SetSpeed(cfg.Game.Speed); err != nil {
		baseLogger.Fatal("invalid game speed", zap.Error(err))
	}

	var sinks []reportingsvc.Sink
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		sinks = append(sinks, mongoRepo)
	}
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sinks = append(sinks, sheets.NewLedger(sheetsRepo))
	}

	var notifier webhook.Notifier
	if cfg.Notifier.WebhookURL != "" {
		client, err := webhook.NewClient(cfg.Notifier.WebhookURL)
		if err != nil {
			baseLogger.Fatal("failed to init webhook notifier", zap.Error(err))
		}
		notifier = client
		baseLogger.Info("daily summary webhook enabled")
	}

	reportingSvc := reportingsvc.NewService(sinks, notifier, baseLogger.Named("svc.reporting"))
	manager.SetReportHook(reportingSvc.Enqueue)

	recorder := metrics.NewRecorder()
	session := game.NewSession(manager, recorder, baseLogger.Named("svc.game"))

	farmHandler := handlers.NewFarmHandler(session, reportingSvc, baseLogger.Named("handlers.farm"))
	engine := router.New(farmHandler, recorder.Handler(), baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Save.AutosaveCron, session, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Run(gctx, cfg.Game.TickInterval)
	})
	g.Go(func() error {
		return reportingSvc.Run(gctx)
	})
	g.Go(func() error {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		baseLogger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		baseLogger.Error("farm server stopped with error", zap.Error(err))
	}

	sched.Stop()

	if cfg.Save.SaveOnExit {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := session.Save(saveCtx); err != nil {
			baseLogger.Error("save on exit failed", zap.Error(err))
		} else {
			baseLogger.Info("game saved on exit")
		}
	}
}

// openStore picks the save backend. The returned func releases it.
func openStore(cfg config.SaveConfig, log *zap.Logger) (persistence.Store, func()) {
	switch cfg.Backend {
	case config.SaveBackendSQLite:
		store, err := persistence.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			log.Fatal("failed to open sqlite save store", zap.Error(err))
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Error("failed to close sqlite save store", zap.Error(err))
			}
		}
	default:
		return persistence.NewFileStore(cfg.Path), func() {}
	}
}
