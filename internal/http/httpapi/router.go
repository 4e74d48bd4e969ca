package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"server/internal/domain"
	"server/internal/http/handlers"
	"server/internal/infra"
	mw "server/internal/middleware"
)

// NewRouter assembles the HTTP surface: public listing reads, the
// authenticated posting routes, and the role-gated admin console.
func NewRouter(app *handlers.App, cfg *infra.Config, lookup mw.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		mw.Logger(app.Logger),
		mw.CORS(cfg.AllowedOrigins),
		mw.I18N(cfg.DefaultLocale, lookup),
		mw.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	// Health & metrics
	r.Get("/v1/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public reads
	r.Get("/listings", app.ListingsPublic)
	r.Get("/listings/{id}", app.ListingsGet)

	// Authenticated user routes
	r.Group(func(r chi.Router) {
		r.Use(mw.AuthJWT(app.JWTSecret))

		r.Post("/listings", app.ListingsCreate)
		r.Patch("/listings/{id}", app.ListingsEdit)
		r.Delete("/listings/{id}", app.ListingsRemove)

		r.Route("/me", func(r chi.Router) {
			r.Get("/credits", app.CreditsBalance)
			r.Get("/ledger", app.LedgerList)
		})
	})

	// Admin console
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.AuthJWT(app.JWTSecret))

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(string(domain.UserRoleAdmin), string(domain.UserRoleModerator)))
			r.Patch("/listings/{id}", app.AdminModerate)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(string(domain.UserRoleAdmin)))
			r.Post("/credits/adjust", app.AdminAdjustCredits)
			r.Post("/users/{id}/role", app.AdminChangeRole)
			r.Get("/users/{id}/ledger", app.AdminUserLedger)
			r.Get("/audit-log", app.AdminAuditLog)
		})
	})

	return r
}
