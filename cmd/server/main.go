package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/invest-advisor/internal/config"
	"github.com/mamadbah2/invest-advisor/internal/domain/models"
	"github.com/mamadbah2/invest-advisor/internal/repository/mongodb"
	"github.com/mamadbah2/invest-advisor/internal/repository/sheets"
	"github.com/mamadbah2/invest-advisor/internal/scheduler"
	"github.com/mamadbah2/invest-advisor/internal/server/handlers"
	"github.com/mamadbah2/invest-advisor/internal/server/router"
	"github.com/mamadbah2/invest-advisor/internal/service/advisory"
	"github.com/mamadbah2/invest-advisor/internal/service/conversation"
	"github.com/mamadbah2/invest-advisor/internal/service/ledger"
	"github.com/mamadbah2/invest-advisor/pkg/clients/completion"
	"github.com/mamadbah2/invest-advisor/pkg/logger"
	"github.com/mamadbah2/invest-advisor/pkg/metrics"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	collector := metrics.NewCollector(metrics.ClassifyWith(map[error]string{
		ledger.ErrInvalidAmount:      "invalid_amount",
		ledger.ErrInsufficientFunds:  "insufficient_funds",
		ledger.ErrAddAccountRejected: "rejected",
		ledger.ErrAccountNotFound:    "not_found",
	}))

	var sinks []scheduler.SnapshotSink
	var archive conversation.Archive

	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()

		archive = mongoRepo
		sinks = append(sinks, scheduler.SinkFunc{Label: "mongodb", Fn: mongoRepo.SaveLedgerSnapshot})
		baseLogger.Info("mongodb archive enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		baseLogger.Warn("mongodb uri missing, conversation and ledger archive disabled")
	}

	seed := models.SeedAccounts()
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		ledgerSheet := sheets.NewLedgerSheet(sheetsRepo, cfg.Sheets.LedgerRange, baseLogger.Named("repo.ledger_sheet"))

		loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		accounts, err := ledgerSheet.LoadAccounts(loadCtx)
		cancel()
		switch {
		case err != nil:
			baseLogger.Error("failed to load accounts from sheet, using seed accounts", zap.Error(err))
		case len(accounts) > 0:
			seed = accounts
		}

		sinks = append(sinks, scheduler.SinkFunc{Label: "sheets", Fn: ledgerSheet.ExportSnapshot})
	}

	book := ledger.NewBook(seed, collector, baseLogger.Named("svc.ledger"))
	baseLogger.Info("ledger ready", zap.Int("accounts", len(seed)))

	var completionClient completion.Client
	if cfg.Advisory.URL != "" {
		completionClient = completion.NewClient(completion.Options{
			URL:     cfg.Advisory.URL,
			APIKey:  cfg.Advisory.APIKey,
			Model:   cfg.Advisory.Model,
			Timeout: cfg.Advisory.Timeout,
		})
		baseLogger.Info("advisory endpoint enabled", zap.String("url", cfg.Advisory.URL))
	} else {
		baseLogger.Warn("advisory endpoint missing, answers come from the local fallback")
	}

	dispatcher := advisory.NewDispatcher(completionClient, collector, cfg.Advisory.Timeout, baseLogger.Named("svc.advisory"))
	conversations := conversation.NewService(conversation.NewSessionManager(), dispatcher, archive, baseLogger.Named("svc.conversation"))

	advisoryHandler := handlers.NewAdvisoryHandler(dispatcher, conversations, models.DefaultSnapshot(), baseLogger.Named("handlers.advisory"))
	accountHandler := handlers.NewAccountHandler(book, baseLogger.Named("handlers.accounts"))
	engine := router.New(advisoryHandler, accountHandler, collector.Handler(), baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Ledger, book, sinks, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Advisory.Timeout + 15*time.Second,
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
