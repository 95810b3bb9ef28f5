package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/Jasemalbateni/academybase-sub000/internal/application"
	"github.com/Jasemalbateni/academybase-sub000/internal/config"
	httptransport "github.com/Jasemalbateni/academybase-sub000/internal/http"
	"github.com/Jasemalbateni/academybase-sub000/internal/persistence/postgres"
)

func runMigrations(dsn, dir string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, dir)
}

func main() {
	configPath := flag.String("config", "config/example.yaml", "path to the yaml config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := runMigrations(cfg.Postgres.DSN, cfg.Migrations.Dir); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	staffRepo := postgres.NewStaffRepository(pool)
	playerRepo := postgres.NewPlayerRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	eventRepo := postgres.NewCalendarEventRepository(pool)
	attendanceRepo := postgres.NewAttendanceRepository(pool)
	substituteRepo := postgres.NewSubstituteRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)

	idGenerator := uuid.New
	now := time.Now

	tenantService := application.NewTenantServiceWithLogger(tenantRepo, application.VerifyAPIKey, logger)
	calendarService := application.NewCalendarServiceWithLogger(branchRepo, eventRepo, ledgerRepo, idGenerator, now, logger)
	attendanceService := application.NewAttendanceServiceWithLogger(branchRepo, staffRepo, attendanceRepo, substituteRepo, idGenerator, now, logger)
	subscriptionService := application.NewSubscriptionServiceWithLogger(playerRepo, branchRepo, subscriptionRepo, idGenerator, now, logger)
	reportService := application.NewReportServiceWithLogger(calendarService, attendanceService, ledgerRepo, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Calendar:      httptransport.NewCalendarHandler(calendarService, logger),
		Attendance:    httptransport.NewAttendanceHandler(attendanceService, logger),
		Subscriptions: httptransport.NewSubscriptionHandler(subscriptionService, logger),
		Reports:       httptransport.NewReportHandler(reportService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequireTenant(tenantService, logger),
		},
		BaseMiddleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Metrics(),
		},
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("back-office API listening", "addr", server.Addr, "env", cfg.App.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
