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

	"github.com/go-chi/httplog/v3"

	"github.com/fieldsight/fieldsight-backend-go/internal/config"
	"github.com/fieldsight/fieldsight-backend-go/internal/event"
	appHTTP "github.com/fieldsight/fieldsight-backend-go/internal/handler/http"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/database"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/jwt"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/llm"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/sse"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/storage"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/vision"
	"github.com/fieldsight/fieldsight-backend-go/internal/repository/postgresql"
	analyticsService "github.com/fieldsight/fieldsight-backend-go/internal/service/analytics"
	assistantService "github.com/fieldsight/fieldsight-backend-go/internal/service/assistant"
	auditService "github.com/fieldsight/fieldsight-backend-go/internal/service/audit"
	notificationService "github.com/fieldsight/fieldsight-backend-go/internal/service/notification"
	payrollService "github.com/fieldsight/fieldsight-backend-go/internal/service/payroll"
	verificationService "github.com/fieldsight/fieldsight-backend-go/internal/service/verification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), int32(cfg.Database.MaxConns))
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	visionClient, err := vision.NewClient(ctx, cfg.Vision.CredentialsFile)
	if err != nil {
		logger.Error("failed to create vision client", slog.Any("error", err))
		os.Exit(1)
	}
	defer visionClient.Close()

	var resolver storage.URIResolver
	switch cfg.Vision.StorageType {
	case "bucket":
		resolver = storage.NewBucketResolver(cfg.Vision.StorageBucket)
	case "local":
		resolver = storage.NewLocalResolver(cfg.Vision.UploadsBaseURL)
	}

	var provider llm.Provider
	if cfg.Assistant.APIKey != "" {
		provider = llm.NewOpenAIProvider(cfg.Assistant.APIKey, cfg.Assistant.BaseURL, cfg.Assistant.Model)
	} else {
		logger.Info("no assistant API key configured, using rule-based responder only")
	}

	// Repositories
	userRepo := postgresql.NewUserRepository(db)
	projectRepo := postgresql.NewProjectRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	analysisRepo := postgresql.NewAnalysisRepository(db)
	verificationRepo := postgresql.NewVerificationRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)

	// Services
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()
	notifSvc := notificationService.NewService(notificationRepo, hub, notificationService.Config{}, logger)
	analyticsSvc := analyticsService.NewService(analysisRepo, projectRepo, reportRepo, userRepo, notifSvc, logger)
	payrollSvc := payrollService.NewService(payrollRepo, attendanceRepo, userRepo, notifSvc, logger)
	verificationSvc := verificationService.NewService(verificationRepo, visionClient, resolver, notifSvc, logger)
	assistantSvc := assistantService.NewService(provider, projectRepo, verificationRepo, logger)
	auditSvc := auditService.NewService(auditRepo, userRepo, logger)

	// Event dispatcher
	dispatcher := event.NewDispatcher(logger, event.Config{})
	dispatcher.Register(event.TypeDailyReportCreated, func(ctx context.Context, e event.Event) error {
		payload, ok := e.Payload.(event.DailyReportCreated)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", e.Payload)
		}
		return analyticsSvc.AnalyzeReport(ctx, payload.ProjectID, payload.ReportID)
	})
	dispatcher.Register(event.TypePayrollDocumentCreated, func(ctx context.Context, e event.Event) error {
		payload, ok := e.Payload.(event.PayrollDocumentCreated)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", e.Payload)
		}
		return payrollSvc.ValidateNewDocument(ctx, payload.ProjectID, payload.PayrollID)
	})
	dispatcher.Register(event.TypeAttendanceWritten, func(ctx context.Context, e event.Event) error {
		payload, ok := e.Payload.(event.AttendanceWritten)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", e.Payload)
		}
		return payrollSvc.ReconcileAttendanceChange(ctx, payload)
	})
	dispatcher.Start()

	// HTTP layer
	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		Logger:       logger,
		JWTService:   jwtService,
		FrontendURL:  cfg.App.FrontendURL,
		Verification: appHTTP.NewVerificationHandler(verificationSvc),
		Assistant:    appHTTP.NewAssistantHandler(assistantSvc),
		Audit:        appHTTP.NewAuditHandler(auditSvc),
		Analytics:    appHTTP.NewAnalyticsHandler(analyticsSvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, jwtService),
		Events:       appHTTP.NewEventHandler(dispatcher),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.Int("port", cfg.App.Port), slog.String("env", cfg.App.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown: stop accepting requests, then drain the queues.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	dispatcher.Stop()
	notifSvc.Stop()

	logger.Info("stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fieldsight-backend"),
		slog.String("env", cfg.App.Env),
	)
}
