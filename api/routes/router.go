package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/celebrelabs/celebre-backend/api/controllers"
	"github.com/celebrelabs/celebre-backend/api/middleware"
	adminsvc "github.com/celebrelabs/celebre-backend/internal/admin"
	"github.com/celebrelabs/celebre-backend/pkg/config"
	"github.com/celebrelabs/celebre-backend/pkg/firestore"
	"github.com/celebrelabs/celebre-backend/pkg/identity"
	"github.com/celebrelabs/celebre-backend/pkg/logger"
	"github.com/celebrelabs/celebre-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	fsClient firestore.Pinger,
	redisClient *redis.Client,
	verifier identity.Verifier,
	authorizer *adminsvc.Authorizer,
	eligibilityService controllers.EligibilityService,
	inspectService controllers.InspectService,
	metricsService controllers.MetricsService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	adminPolicy := middleware.NewAdminRateLimitPolicy(
		"admin",
		cfg.AdminRateLimit.Window,
		cfg.AdminRateLimit.IPLimit,
		cfg.AdminRateLimit.CallerLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, fsClient, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(verifier, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Post("/bookings/eligibility", controllers.BookingEligibility(eligibilityService, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(verifier, logg))
		r.Use(middleware.RequireAdmin(authorizer, logg))
		r.Use(middleware.AdminRateLimit(adminPolicy, redisClient, logg))

		r.Get("/ping", controllers.AdminPing())
		r.Route("/v1", func(r chi.Router) {
			r.Post("/suppliers/inspect", controllers.AdminInspectSupplier(inspectService, logg))
			r.Get("/rate-limits/metrics", controllers.AdminRateLimitMetrics(metricsService, logg))
		})
	})

	return r
}
