package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/craftline/stockdesk/internal/config"
	"github.com/craftline/stockdesk/internal/gateway"
	sheetsgw "github.com/craftline/stockdesk/internal/gateway/sheets"
	webapigw "github.com/craftline/stockdesk/internal/gateway/webapi"
	"github.com/craftline/stockdesk/internal/repository/mongodb"
	"github.com/craftline/stockdesk/internal/scheduler"
	"github.com/craftline/stockdesk/internal/server/handlers"
	"github.com/craftline/stockdesk/internal/server/router"
	catalogsvc "github.com/craftline/stockdesk/internal/service/catalog"
	movementsvc "github.com/craftline/stockdesk/internal/service/movements"
	stocksvc "github.com/craftline/stockdesk/internal/service/stock"
	"github.com/craftline/stockdesk/internal/store"
	"github.com/craftline/stockdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.Debug))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var gw gateway.Gateway
	switch cfg.Gateway.Driver {
	case config.DriverWebAPI:
		gw = webapigw.New(cfg.WebAPI)
		baseLogger.Info("sheet web-api gateway enabled", zap.String("base_url", cfg.WebAPI.BaseURL))
	default:
		gw, err = sheetsgw.New(context.Background(), cfg.Sheets, baseLogger.Named("gateway.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets gateway", zap.Error(err))
		}
	}

	var archive mongodb.Repository
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
		baseLogger.Info("snapshot archive enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		baseLogger.Warn("MONGODB_URI missing, snapshot archive disabled")
	}

	st := store.New()
	engine := stocksvc.NewEngine(baseLogger.Named("svc.stock"))
	stockService := stocksvc.NewService(gw, st, engine, baseLogger.Named("svc.stock"))
	movementService := movementsvc.NewService(gw, st, baseLogger.Named("svc.movements"))
	catalogService := catalogsvc.NewService(gw, st, baseLogger.Named("svc.catalog"))

	// Warm the confirmed tier; a failed initial load is not fatal because
	// every read path retries through EnsureLoaded.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := stockService.Refresh(loadCtx); err != nil {
		baseLogger.Warn("initial load failed, serving empty until refresh succeeds", zap.Error(err))
	}
	cancelLoad()

	stockHandler := handlers.NewStockHandler(stockService, archive, baseLogger.Named("handlers.stock"))
	writeHandler := handlers.NewWriteHandler(movementService, catalogService, baseLogger.Named("handlers.write"))
	engineRouter := router.New(stockHandler, writeHandler, st, baseLogger.Named("router"), cfg.Server.Debug)

	sched := scheduler.New(cfg.Jobs, stockService, archive, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engineRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
