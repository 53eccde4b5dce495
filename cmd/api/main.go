package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-basis-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-basis-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/cron"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-basis-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-basis-go/internal/repository/cache"
	"github.com/cmlabs-hris/payroll-basis-go/internal/repository/postgresql"
	payrollBasisService "github.com/cmlabs-hris/payroll-basis-go/internal/service/payrollbasis"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).
		With(slog.String("app", "payroll-basis"), slog.String("env", cfg.App.Env))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	attendanceRepo := postgresql.NewAttendanceSessionRepository(db)
	rulesRepo := cache.NewRulesRepository(postgresql.NewPayrollRulesRepository(db), cfg.Payroll.RulesCacheTTL, logger)
	salaryRepo := postgresql.NewEmployeeSalaryRepository(db)
	resultRepo := postgresql.NewPayrollBasisRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	payrollBasisSvc := payrollBasisService.NewPayrollBasisService(
		timeEntryRepo,
		attendanceRepo,
		rulesRepo,
		salaryRepo,
		resultRepo,
		transactor,
		payrollBasisService.WithLogger(logger),
	)

	payrollBasisHandler := appHTTP.NewPayrollBasisHandler(payrollBasisSvc)
	router := appHTTP.NewRouter(JWTService, appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		Env:            cfg.App.Env,
		Version:        version,
		LogLevel:       cfg.SlogLevel(),
	}, payrollBasisHandler)

	scheduler := cron.NewScheduler(logger)
	cron.NewPayrollBasisJobs(companyRepo, payrollBasisSvc, logger).RegisterJobs(scheduler, cfg.Payroll.RefreshInterval)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", server.Addr, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
