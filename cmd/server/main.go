package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/coop-banking-core/internal/adapter/http/controller"
	"github.com/api-sage/coop-banking-core/internal/adapter/http/middleware"
	"github.com/api-sage/coop-banking-core/internal/adapter/http/router"
	"github.com/api-sage/coop-banking-core/internal/adapter/repository/postgres"
	"github.com/api-sage/coop-banking-core/internal/config"
	"github.com/api-sage/coop-banking-core/internal/logger"
	"github.com/api-sage/coop-banking-core/internal/usecase/services"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config failed", err, nil)
		os.Exit(1)
	}
	logger.Configure(cfg.LogLevel)

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(startupCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		logger.Error("run migrations failed", err, nil)
		os.Exit(1)
	}

	db, err := postgres.Open(startupCtx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("open database failed", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	memberRepo := postgres.NewMemberRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	loanRepo := postgres.NewLoanRepository(db)
	depositRepo := postgres.NewDepositRepository(db)
	shareRepo := postgres.NewShareRepository(db)
	dividendRepo := postgres.NewDividendRepository(db)

	memberService := services.NewMemberService(memberRepo)
	ledgerService := services.NewLedgerService(accountRepo, memberRepo)
	loanService := services.NewLoanService(loanRepo, memberRepo)
	depositService := services.NewDepositService(depositRepo, memberRepo, cfg.RecurringClosurePercent, cfg.MissedInstallmentPercent)
	shareService := services.NewShareService(shareRepo, memberRepo)
	dividendService := services.NewDividendService(dividendRepo, shareRepo)

	authMiddleware := middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey)
	handler := router.New(
		authMiddleware,
		controller.NewMemberController(memberService),
		controller.NewAccountController(ledgerService),
		controller.NewLoanController(loanService),
		controller.NewDepositController(depositService),
		controller.NewShareController(shareService),
		controller.NewDividendController(dividendService),
	)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.MaturitySweepSpec, func() {
		sweepCtx, sweepCancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer sweepCancel()
		if _, err := depositService.MatureDueDeposits(sweepCtx); err != nil {
			logger.Error("scheduled maturity sweep failed", err, nil)
		}
	}); err != nil {
		logger.Error("schedule maturity sweep failed", err, logger.Fields{
			"spec": cfg.MaturitySweepSpec,
		})
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", logger.Fields{
			"port":      cfg.Port,
			"sweepSpec": cfg.MaturitySweepSpec,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped unexpectedly", err, nil)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", err, nil)
	}
	logger.Info("server stopped", nil)
}
