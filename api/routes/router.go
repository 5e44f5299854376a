package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RyftEbikes/ryft-site-sub000/api/controllers"
	"github.com/RyftEbikes/ryft-site-sub000/api/middleware"
	"github.com/RyftEbikes/ryft-site-sub000/internal/auth"
	"github.com/RyftEbikes/ryft-site-sub000/internal/datavault"
	"github.com/RyftEbikes/ryft-site-sub000/internal/orders"
	"github.com/RyftEbikes/ryft-site-sub000/internal/users"
	"github.com/RyftEbikes/ryft-site-sub000/internal/wishlist"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/config"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/db"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/enums"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/logger"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/metrics"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	authService auth.Service,
	usersService users.Service,
	ordersService orders.Service,
	wishlistService wishlist.Service,
	vaultService datavault.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware())
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if httpMetrics != nil {
		r.Get("/metrics", httpMetrics.Handler().ServeHTTP)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(rateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(rateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, logg))
		r.Get("/me", controllers.AuthMe(authService, logg))
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/me", controllers.UsersMe(usersService, logg))
		r.Patch("/me", controllers.UsersUpdateMe(usersService, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.With(middleware.OptionalAuth(cfg.JWT, logg)).Post("/", controllers.OrdersCreate(ordersService, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Get("/", controllers.OrdersList(ordersService, logg))
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Post("/", controllers.WishlistAdd(wishlistService, logg))
		r.Get("/", controllers.WishlistList(wishlistService, logg))
		r.Delete("/{productId}", controllers.WishlistRemove(wishlistService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.RequireRole(string(enums.RoleAdmin), logg),
		)
		r.Patch("/orders/{orderId}/status", controllers.OrdersUpdateStatus(ordersService, logg))
		r.Route("/data", func(r chi.Router) {
			r.Get("/export", controllers.DataExport(vaultService, logg))
			r.Post("/import", controllers.DataImport(vaultService, logg))
			r.Post("/clear", controllers.DataClear(vaultService, logg))
		})
	})

	return r
}

func rateLimit(policy middleware.AuthRateLimitPolicy, store *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.AuthRateLimit(policy, store, logg)
}
