package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mbdiagne/comptoir/internal/config"
	"github.com/mbdiagne/comptoir/internal/ledger"
	"github.com/mbdiagne/comptoir/internal/scheduler"
	"github.com/mbdiagne/comptoir/internal/server/handlers"
	"github.com/mbdiagne/comptoir/internal/server/router"
	cartsvc "github.com/mbdiagne/comptoir/internal/service/cart"
	checkoutsvc "github.com/mbdiagne/comptoir/internal/service/checkout"
	possvc "github.com/mbdiagne/comptoir/internal/service/pos"
	"github.com/mbdiagne/comptoir/internal/session"
	"github.com/mbdiagne/comptoir/pkg/clients/backend"
	"github.com/mbdiagne/comptoir/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	api := backend.New(cfg.Backend)

	stockLedger := ledger.New(api.Inventory, baseLogger.Named("ledger"))
	state := session.New()
	cart := cartsvc.New(stockLedger, baseLogger.Named("svc.cart"))
	finalizer := checkoutsvc.New(api.Sales, api.Payments, stockLedger, cart,
		cfg.Terminal.TaxRate, cfg.Terminal.DefaultPaymentMethod, baseLogger.Named("svc.checkout"))
	terminal := possvc.New(state, stockLedger, cart, finalizer,
		api.Products, api.Customers, api.Discounts,
		cfg.Terminal.TaxRate, baseLogger.Named("svc.pos"))

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Backend.Timeout*4)
	if err := terminal.LoadSession(loadCtx); err != nil {
		cancelLoad()
		baseLogger.Fatal("failed to load terminal session", zap.Error(err))
	}
	cancelLoad()

	terminalHandler := handlers.NewTerminalHandler(terminal, baseLogger.Named("handlers.terminal"))
	engine := router.New(terminalHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, stockLedger, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("terminal starting",
			zap.String("port", cfg.Server.Port),
			zap.String("session_id", state.ID().String()))
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
