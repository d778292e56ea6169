package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/fieldsight/fieldsight-backend-go/internal/domain/user"
	"github.com/fieldsight/fieldsight-backend-go/internal/handler/http/middleware"
	"github.com/fieldsight/fieldsight-backend-go/internal/pkg/jwt"
)

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	Logger      *slog.Logger
	JWTService  jwt.Service
	FrontendURL string

	Verification VerificationHandler
	Assistant    AssistantHandler
	Audit        AuditHandler
	Analytics    AnalyticsHandler
	Notification NotificationHandler
	Events       EventHandler
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(deps.Logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// SSE stream authenticates with its own short-lived token.
		r.Get("/notifications/stream", deps.Notification.Stream)

		// Event intake from the main application.
		r.Route("/events", func(r chi.Router) {
			r.Post("/daily-reports", deps.Events.DailyReportCreated)
			r.Post("/payroll-documents", deps.Events.PayrollDocumentCreated)
			r.Post("/attendance", deps.Events.AttendanceWritten)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))

			r.Route("/verifications", func(r chi.Router) {
				r.Post("/", deps.Verification.Verify)
				r.Get("/", deps.Verification.List)
			})

			r.Post("/assistant/chat", deps.Assistant.Chat)
			r.Post("/actions", deps.Audit.LogAction)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(user.RoleAdmin, user.RoleProjectManager))
				r.Get("/projects/{projectID}/analytics", deps.Analytics.ListByProject)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", deps.Notification.List)
				r.Post("/read", deps.Notification.MarkAsRead)
				r.Post("/read-all", deps.Notification.MarkAllAsRead)
				r.Get("/stream-token", deps.Notification.GetStreamToken)
			})
		})
	})

	return r
}
