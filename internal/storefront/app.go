package storefront

import (
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Storefront/internal/auth"
	"Storefront/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	TrustedProxies []netip.Prefix
}

const (
	loginLimitPerMin = 5
	limitWindow      = 60 * time.Second
)

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if s.Log == nil {
		s.Log = deps.Log
	}

	r := chi.NewRouter()

	metricsOn := deps.MetricsEnabled && deps.Registry != nil
	if deps.MetricsEnabled && deps.Registry == nil {
		deps.Log.Warn("metrics enabled but Registry is nil")
	}

	setupMiddleware(r, deps, metricsOn)
	setupRoutes(r, s, deps, metricsOn)

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps, metricsOn bool) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))

	if metricsOn {
		metrics := kit.NewMetrics(deps.Registry)
		r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))
	}
}

func setupRoutes(r *chi.Mux, s *Server, deps HTTPDeps, metricsOn bool) {
	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, limitWindow).TrustProxies(deps.TrustedProxies...)
	authed := auth.RequireRole(s.JWT, "")

	r.Get("/products", s.handleProducts)
	r.Get("/products/{id}", s.handleProduct)
	r.Get("/categories", s.handleCategories)

	r.Route("/browse", func(br chi.Router) {
		br.Get("/", s.handleBrowse)
		br.Post("/category", s.handleFilterCategory)
		br.Post("/search", s.handleSearch)
	})

	r.Route("/auth", func(ar chi.Router) {
		ar.With(loginLimiter.Middleware).Post("/login", s.handleLogin)
		ar.With(authed).Post("/logout", s.handleLogout)
		ar.With(authed, s.requireSession).Get("/me", s.handleMe)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(authed, s.requireSession)

		pr.Get("/cart", s.handleCart)
		pr.Delete("/cart", s.handleClearCart)
		pr.Post("/cart/items", s.handleAddItem)
		pr.Put("/cart/items/{id}", s.handleSetQuantity)
		pr.Delete("/cart/items/{id}", s.handleRemoveItem)

		pr.Post("/checkout", s.handleCheckout)
		pr.Get("/orders", s.handleOrders)
	})

	r.Group(func(ar chi.Router) {
		ar.Use(auth.RequireRole(s.JWT, auth.RoleAdmin), s.requireSession, s.requireAdminSession)
		ar.Get("/admin/dashboard", s.handleDashboard)
	})

	r.Get("/healthz", healthz)
	r.Get("/readyz", s.handleReady)

	if metricsOn {
		r.With(kit.MetricsAuth(deps.MetricsToken)).Handle(
			"/metrics",
			promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
		)
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
