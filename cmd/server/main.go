package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"regtrack/internal/config"
	"regtrack/internal/email/noop"
	"regtrack/internal/email/ses"
	"regtrack/internal/handler"
	"regtrack/internal/logger"
	"regtrack/internal/port"
	"regtrack/internal/repository/postgres"
	"regtrack/internal/router"
	"regtrack/internal/service"
	s3storage "regtrack/internal/storage/s3"
)

// @title           RegTrack API
// @version         1.0
// @description     Multi-tenant regulatory registration tracking for pharmaceutical companies.
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	companyRepo := postgres.NewCompanyRepo(db)
	userRepo := postgres.NewUserRepo(db)
	otpRepo := postgres.NewOTPRepo(db)
	countryRepo := postgres.NewCountryRepo(db)
	productRepo := postgres.NewProductRepo(db)
	regRepo := postgres.NewRegistrationRepo(db)
	renewalRepo := postgres.NewRenewalRepo(db)
	variationRepo := postgres.NewVariationRepo(db)
	recycleRepo := postgres.NewRecycleRepo(db)
	dashboardRepo := postgres.NewDashboardRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	uploadRepo := postgres.NewUploadRepo(db)
	historyRepo := postgres.NewRegistrationHistoryRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	emailSender, err := newEmailSender(cfg.Email, zlog)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, companyRepo, otpRepo, emailSender, cfg.JWT, cfg.Auth, zlog.Named("auth"))
	resetSvc := service.NewPasswordResetService(companyRepo, userRepo, emailSender, cfg.JWT, zlog.Named("password_reset"))
	companySvc := service.NewCompanyService(companyRepo)
	userSvc := service.NewUserService(userRepo)
	countrySvc := service.NewCountryService(countryRepo)
	productSvc := service.NewProductService(productRepo, zlog.Named("products"))
	regSvc := service.NewRegistrationService(regRepo, productRepo, countryRepo, renewalRepo, historyRepo, cfg.Renewal, zlog.Named("registrations"))
	renewalSvc := service.NewRenewalService(renewalRepo, regRepo)
	variationSvc := service.NewVariationService(variationRepo, regRepo)
	recycleSvc := service.NewRecycleService(recycleRepo, cfg.Recycle.Retention)
	dashboardSvc := service.NewDashboardService(dashboardRepo)
	exportSvc := service.NewExportService(regRepo, renewalRepo, variationRepo)
	fileSvc := service.NewFileService(fileRepo, s3Client, regRepo, renewalRepo, variationRepo, &cfg.S3, zlog.Named("files"))
	uploadSvc := service.NewUploadService(uploadRepo, fileRepo, s3Client, regRepo, renewalRepo, variationRepo, &cfg.S3, cfg.Upload, zlog.Named("uploads"))

	worker := service.NewUploadWorker(uploadRepo, uploadSvc, service.UploadWorkerConfig{
		PollInterval: cfg.Upload.PollInterval,
		Concurrency:  cfg.Upload.Concurrency,
		JobTimeout:   cfg.Upload.JobTimeout,
	}, zlog)
	sweeper := service.NewSweeper(uploadSvc, recycleSvc, cfg.Upload.SweepInterval, zlog)

	// Initialize handlers
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, resetSvc),
		Company:      handler.NewCompanyHandler(companySvc),
		User:         handler.NewUserHandler(userSvc),
		Country:      handler.NewCountryHandler(countrySvc),
		Product:      handler.NewProductHandler(productSvc, cfg.S3.MaxFileSizeMB<<20),
		Registration: handler.NewRegistrationHandler(regSvc),
		Renewal:      handler.NewRenewalHandler(renewalSvc),
		Variation:    handler.NewVariationHandler(variationSvc),
		Recycle:      handler.NewRecycleHandler(recycleSvc),
		File:         handler.NewFileHandler(fileSvc),
		Upload:       handler.NewUploadHandler(uploadSvc),
		Export:       handler.NewExportHandler(exportSvc),
		Dashboard:    handler.NewDashboardHandler(dashboardSvc),
		Health:       handler.NewHealthHandler(db),
	}

	r := router.Setup(authSvc, handlers, cfg.CORS.AllowedOrigins, zlog)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zlog.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("env", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		worker.Start(gctx)
		return nil
	})

	g.Go(func() error {
		sweeper.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zlog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	zlog.Info("shutdown complete")
	return nil
}

func newEmailSender(cfg config.EmailConfig, log *zap.Logger) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
	case "", "noop":
		return noop.NewNoopSender(log.Named("email")), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
