package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/The-Leet-AI/notismart-api/internal/service"
	"github.com/The-Leet-AI/notismart-api/pkg/health"
	"github.com/The-Leet-AI/notismart-api/pkg/middleware"
)

// RouterConfig holds the knobs for router construction.
type RouterConfig struct {
	CORS           CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(
	accountService *service.AccountService,
	notificationService *service.NotificationService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("notismart"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(accountService, logger)

	r.Route("/api/v1/auth", func(r chi.Router) {
		// Public endpoints (rate limited)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))

			r.Get("/verify", authHandler.VerifyEmail)

			r.Group(func(r chi.Router) {
				r.Use(ContentTypeJSON)

				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/resend-verification", authHandler.ResendVerification)
			})
		})

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(accountService.Authenticate))

			r.Post("/change-password", authHandler.ChangePassword)
		})
	})

	// Profile endpoints (auth required)
	accountHandler := NewAccountHandler(accountService)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(accountService.Authenticate))

		r.Get("/me", accountHandler.GetProfile)
		r.Put("/me", accountHandler.UpdateProfile)
		r.Delete("/me", accountHandler.DeleteAccount)
	})

	// Notification endpoints (auth required)
	notificationHandler := NewNotificationHandler(notificationService)
	r.Route("/api/v1/notifications", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(accountService.Authenticate))

		r.Post("/", notificationHandler.Create)
		r.Get("/", notificationHandler.List)
	})

	return r
}
