package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/config"
	appHTTP "github.com/cmlabs-hris/mobile-portal-backend/internal/handler/http"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/cron"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/database"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/metrics"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/storage"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/mobile-portal-backend/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/mobile-portal-backend/internal/service/auth"
	creditService "github.com/cmlabs-hris/mobile-portal-backend/internal/service/credit"
	documentService "github.com/cmlabs-hris/mobile-portal-backend/internal/service/document"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/service/file"
	marketPriceService "github.com/cmlabs-hris/mobile-portal-backend/internal/service/marketprice"
	userService "github.com/cmlabs-hris/mobile-portal-backend/internal/service/user"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	documentTypeRepo := postgresql.NewDocumentTypeRepository(db)
	documentRequestRepo := postgresql.NewDocumentRequestRepository(db)
	creditRepo := postgresql.NewCreditRepository(db)
	marketPriceRepo := postgresql.NewMarketPriceRepository(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage, cfg.Attendance.PhotoMaxBytes, cfg.Storage.BaseURL)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("failed to initialize jwt service: %w", err)
	}

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New()
	}

	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	userSvc := userService.NewUserService(userRepo, dashboardRepo, employeeRepo, attendanceRepo)
	attendanceSvc := attendanceService.NewAttendanceService(transactor, attendanceRepo, fileService, appMetrics)
	documentSvc := documentService.NewDocumentService(transactor, documentTypeRepo, documentRequestRepo, employeeRepo, fileService, appMetrics)
	creditSvc := creditService.NewCreditService(creditRepo)
	marketPriceSvc := marketPriceService.NewMarketPriceService(transactor, marketPriceRepo)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("prune_rate_limiters", 10*time.Minute, func(ctx context.Context) error {
		rateLimiter.Cleanup(30 * time.Minute)
		return nil
	})
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		appMetrics,
		rateLimiter,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewUserHandler(userSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewDocumentHandler(documentSvc),
		appHTTP.NewCreditHandler(creditSvc),
		appHTTP.NewMarketPriceHandler(marketPriceSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
