package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/tastetrack-storefront/api/controllers"
	cartcontrollers "github.com/angelmondragon/tastetrack-storefront/api/controllers/cart"
	ordercontrollers "github.com/angelmondragon/tastetrack-storefront/api/controllers/orders"
	"github.com/angelmondragon/tastetrack-storefront/api/middleware"
	"github.com/angelmondragon/tastetrack-storefront/internal/access"
	"github.com/angelmondragon/tastetrack-storefront/internal/auth"
	"github.com/angelmondragon/tastetrack-storefront/internal/catalog"
	"github.com/angelmondragon/tastetrack-storefront/internal/checkout"
	"github.com/angelmondragon/tastetrack-storefront/internal/coupons"
	"github.com/angelmondragon/tastetrack-storefront/internal/orders"
	"github.com/angelmondragon/tastetrack-storefront/pkg/auth/session"
	"github.com/angelmondragon/tastetrack-storefront/pkg/config"
	"github.com/angelmondragon/tastetrack-storefront/pkg/logger"
	"github.com/angelmondragon/tastetrack-storefront/pkg/metrics"
	"github.com/angelmondragon/tastetrack-storefront/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	identities session.IdentityReader,
	recorder *metrics.Storefront,
	metricsHandler http.Handler,
	authService auth.Service,
	catalogService catalog.Service,
	couponCatalog coupons.Catalog,
	cartSessions cartcontrollers.Sessions,
	checkoutService checkout.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.CartSession(logg),
		middleware.Identity(cfg.JWT, identities, logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisClient, dbP))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
			r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).Post("/signup", controllers.AuthSignup(authService, logg))
			r.Post("/logout", controllers.AuthLogout(authService, logg))
			r.With(middleware.RequireIdentity(logg)).Get("/me", controllers.AuthMe(authService, logg))
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", controllers.RestaurantList(catalogService, false, logg))
			r.Get("/open", controllers.RestaurantList(catalogService, true, logg))
			r.Get("/search", controllers.RestaurantSearch(catalogService, logg))
			r.Get("/{restaurantId}", controllers.RestaurantDetail(catalogService, logg))
			r.Get("/{restaurantId}/menu", controllers.RestaurantMenu(catalogService, logg))
		})
		r.Get("/coupons", controllers.CouponList(couponCatalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(cartSessions, logg))
			r.Delete("/", cartcontrollers.CartClear(cartSessions, recorder, logg))
			r.Post("/items", cartcontrollers.CartAddItem(cartSessions, catalogService, recorder, logg))
			r.Put("/items/{itemId}", cartcontrollers.CartUpdateItem(cartSessions, recorder, logg))
			r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(cartSessions, recorder, logg))
			r.Post("/coupon", cartcontrollers.CartApplyCoupon(cartSessions, recorder, logg))
			r.Delete("/coupon", cartcontrollers.CartRemoveCoupon(cartSessions, recorder, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireIdentity(logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Post("/checkout", controllers.Checkout(checkoutService, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(ordersService, logg))
				r.Get("/number/{orderNumber}", ordercontrollers.DetailByNumber(ordersService, logg))
				r.Get("/{orderId}", ordercontrollers.Detail(ordersService, logg))
				r.Get("/{orderId}/tracking", ordercontrollers.Tracking(ordersService, logg))
				r.Post("/{orderId}/cancel", ordercontrollers.CancelOrder(ordersService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Guard(access.RequireAdmin, recorder, logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.AdminList(ordersService, logg))
			r.Put("/{orderId}/status", ordercontrollers.AdminUpdateStatus(ordersService, logg))
		})
	})

	r.Route("/api/vendor/v1", func(r chi.Router) {
		r.Use(middleware.Guard(access.RequireVendor, recorder, logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.VendorList(ordersService, logg))
			r.Put("/{orderId}/status", ordercontrollers.VendorUpdateStatus(ordersService, logg))
		})
	})

	return r
}
