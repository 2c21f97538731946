package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hotelops/reclamations-backend/api/controllers"
	"github.com/hotelops/reclamations-backend/api/middleware"
	"github.com/hotelops/reclamations-backend/internal/auth"
	"github.com/hotelops/reclamations-backend/internal/reclamations"
	"github.com/hotelops/reclamations-backend/internal/users"
	"github.com/hotelops/reclamations-backend/pkg/auth/session"
	"github.com/hotelops/reclamations-backend/pkg/config"
	"github.com/hotelops/reclamations-backend/pkg/enums"
	"github.com/hotelops/reclamations-backend/pkg/logger"
	"github.com/hotelops/reclamations-backend/pkg/metrics"
	"github.com/hotelops/reclamations-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs. DB and Redis are
// typed as pingers so a missing dependency stays a nil interface.
type RouterParams struct {
	Config              *config.Config
	Logger              *logger.Logger
	DB                  controllers.Pinger
	Redis               *redis.Client
	Sessions            session.AccessSessionChecker
	AuthService         auth.Service
	UsersService        users.Service
	ReclamationsService reclamations.Service
	Socket              http.Handler
	Gatherer            prometheus.Gatherer
	HTTPMetrics         *metrics.HTTPMetrics
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, p.HTTPMetrics),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	deps := map[string]controllers.Pinger{"db": p.DB}
	if p.Redis != nil {
		deps["redis"] = p.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})
	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}
	if p.Socket != nil {
		r.Handle("/socket", p.Socket)
	}

	identify := middleware.OptionalAuth(cfg.JWT, p.Sessions, logg)
	adminOnly := passthrough
	if cfg.FeatureFlags.EnforceAuth {
		identify = middleware.Auth(cfg.JWT, p.Sessions, logg)
		adminOnly = middleware.RequireRole(logg, enums.RoleAdmin)
	}

	loginLimit := passthrough
	if p.Redis != nil {
		loginPolicy := middleware.NewAuthRateLimitPolicy(
			"login",
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
			cfg.AuthRateLimit.LoginNameLimit,
		)
		loginLimit = middleware.AuthRateLimit(loginPolicy, p.Redis, logg)
	}

	r.Route("/api/users", func(r chi.Router) {
		r.With(loginLimit).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(identify)
			r.Get("/get", controllers.UsersList(p.UsersService, logg))
			r.Post("/update-player-id", controllers.UsersUpdatePlayerID(p.UsersService, logg))
			r.Post("/logout", controllers.AuthLogout(p.AuthService, logg))
			r.Get("/{id}", controllers.UsersGet(p.UsersService, logg))

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/create", controllers.UsersCreate(p.UsersService, logg))
				r.Put("/update/{id}", controllers.UsersUpdate(p.UsersService, logg))
				r.Delete("/{id}", controllers.UsersDelete(p.UsersService, logg))
			})
		})
	})

	r.Route("/api/reclamations", func(r chi.Router) {
		r.Use(identify)
		r.Get("/", controllers.ReclamationsList(p.ReclamationsService, logg))
		r.Get("/byUser", controllers.ReclamationsByUser(p.ReclamationsService, logg))
		r.Post("/create", controllers.ReclamationsCreate(p.ReclamationsService, logg))
		r.Put("/{id}/status", controllers.ReclamationsUpdateStatus(p.ReclamationsService, logg))
		r.Put("/update/{id}", controllers.ReclamationsUpdate(p.ReclamationsService, logg))
		r.Delete("/{id}", controllers.ReclamationsDelete(p.ReclamationsService, logg))
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
