package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/config"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/user"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg *config.Config,
	JWTService jwt.Service,
	appMetrics *metrics.Metrics,
	rateLimiter *middleware.RateLimiter,
	authHandler AuthHandler,
	userHandler UserHandler,
	attendanceHandler AttendanceHandler,
	documentHandler DocumentHandler,
	creditHandler CreditHandler,
	marketPriceHandler MarketPriceHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.SlogLevel(),
		Schema: httplog.SchemaECS,
	}))

	if appMetrics != nil {
		r.Use(appMetrics.Middleware)
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if appMetrics != nil && cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, appMetrics.Handler())
	}

	r.Route("/mobile/api", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/user", func(r chi.Router) {
				r.Get("/permissions", userHandler.Permissions)
				r.Get("/dashboard", userHandler.Dashboard)
			})

			r.Route("/hr", func(r chi.Router) {
				r.Use(middleware.RequireModule(identity.ModuleHR))
				r.Use(middleware.RequireEmployee)

				r.Route("/attendance", func(r chi.Router) {
					r.Get("/status", attendanceHandler.Status)
					r.Get("/history", attendanceHandler.History)
					r.Get("/{id}", attendanceHandler.Get)
					r.Get("/{id}/photo/{kind}", attendanceHandler.Photo)

					r.Group(func(r chi.Router) {
						r.Use(rateLimiter.Handler)
						r.Post("/check_in", attendanceHandler.CheckIn)
						r.Post("/check_out", attendanceHandler.CheckOut)
					})

					// Manager only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceReview))
						r.Post("/{id}/confirm", attendanceHandler.Confirm)
						r.Post("/{id}/reject", attendanceHandler.Reject)
						r.Post("/{id}/reset", attendanceHandler.Reset)
					})
				})

				r.Get("/document/types", documentHandler.ListTypes)
				r.With(rateLimiter.Handler).Post("/document/submit", documentHandler.CreateAndSubmit)

				r.Route("/documents", func(r chi.Router) {
					r.Get("/", documentHandler.List)
					r.Get("/{id}", documentHandler.Get)
					r.Get("/{id}/attachments/{attachmentID}", documentHandler.Attachment)

					r.Group(func(r chi.Router) {
						r.Use(rateLimiter.Handler)
						r.Post("/", documentHandler.Create)
						r.Post("/{id}/attachments", documentHandler.AddAttachments)
						r.Post("/{id}/submit", documentHandler.Submit)
					})

					// Manager only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionDocumentReview))
						r.Post("/{id}/approve", documentHandler.Approve)
						r.Post("/{id}/reject", documentHandler.Reject)
						r.Post("/{id}/reset", documentHandler.Reset)
					})
				})
			})

			r.Route("/sales", func(r chi.Router) {
				r.Use(middleware.RequireModule(identity.ModuleSales))
				r.Get("/customer/credit", creditHandler.CustomerCredit)
			})

			r.Route("/purchase", func(r chi.Router) {
				r.Use(middleware.RequireModule(identity.ModulePurchase))
				r.Get("/market_prices", marketPriceHandler.Latest)
				r.With(
					middleware.RequirePermission(user.PermissionMarketPriceRecord),
					rateLimiter.Handler,
				).Post("/market_price/create", marketPriceHandler.Record)
			})
		})
	})
	return r
}
