package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/greenmandi/greenmandi-backend/api/controllers"
	"github.com/greenmandi/greenmandi-backend/api/middleware"
	"github.com/greenmandi/greenmandi-backend/internal/auth"
	"github.com/greenmandi/greenmandi-backend/internal/cart"
	"github.com/greenmandi/greenmandi-backend/internal/media"
	"github.com/greenmandi/greenmandi-backend/internal/negotiation"
	"github.com/greenmandi/greenmandi-backend/internal/orders"
	"github.com/greenmandi/greenmandi-backend/internal/products"
	"github.com/greenmandi/greenmandi-backend/internal/users"
	"github.com/greenmandi/greenmandi-backend/pkg/auth/session"
	"github.com/greenmandi/greenmandi-backend/pkg/config"
	"github.com/greenmandi/greenmandi-backend/pkg/enums"
	"github.com/greenmandi/greenmandi-backend/pkg/logger"
	"github.com/greenmandi/greenmandi-backend/pkg/metrics"
	"github.com/greenmandi/greenmandi-backend/pkg/redis"
)

// Dependencies bundles everything the router mounts.
type Dependencies struct {
	Logger         *logger.Logger
	JWT            config.JWTConfig
	RateLimits     config.AuthRateLimitConfig
	Sessions       session.AccessSessionChecker
	Limiter        middleware.Limiter
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler

	DBPinger    controllersPinger
	RedisPinger *redis.Client

	Auth        auth.Service
	Products    products.Service
	Users       users.Service
	Orders      orders.Service
	Media       media.Service
	Negotiation *negotiation.Engine
	Carts       *cart.Registry
}

type controllersPinger interface {
	Ping(ctx context.Context) error
}

// New assembles the full HTTP surface.
func New(deps Dependencies) http.Handler {
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics(deps.HTTPMetrics))

	r.Get("/healthz", controllers.Health(deps.DBPinger, deps.RedisPinger, logg))
	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	requireAuth := middleware.RequireAuth(deps.JWT, deps.Sessions, logg)
	requireSeller := middleware.RequireRole(enums.UserRoleSeller, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthThrottle(deps.Limiter, "register",
				deps.RateLimits.RegisterWindow, deps.RateLimits.RegisterIPLimit,
				deps.RateLimits.RegisterEmailLimit, logg)).
				Post("/register", controllers.Register(deps.Auth, logg))

			r.With(middleware.AuthThrottle(deps.Limiter, "login",
				deps.RateLimits.LoginWindow, deps.RateLimits.LoginIPLimit,
				deps.RateLimits.LoginEmailLimit, logg)).
				Post("/login", controllers.Login(deps.Auth, logg))

			r.Post("/refresh", controllers.Refresh(deps.Auth, logg))
			r.With(requireAuth).Post("/logout", controllers.Logout(deps.Auth, deps.Carts, logg))
		})

		r.Get("/products", controllers.ListProducts(deps.Products, logg))
		r.Get("/products/{productID}", controllers.GetProduct(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.GetProfile(deps.Users, logg))
				r.Patch("/", controllers.UpdateProfile(deps.Users, logg))
				r.Post("/seller", controllers.BecomeSeller(deps.Users, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Carts, logg))
				r.Post("/items", controllers.AddCartItem(deps.Carts, deps.Products, logg))
				r.Delete("/items/{productID}", controllers.RemoveCartItem(deps.Carts, logg))
				r.Patch("/items/{productID}", controllers.UpdateCartQuantity(deps.Carts, logg))
				r.Put("/items/{productID}/terms", controllers.UpdateCartTerms(deps.Carts, logg))
			})

			r.Route("/negotiations", func(r chi.Router) {
				r.Post("/", controllers.OpenNegotiation(deps.Negotiation, deps.Products, logg))
				r.Get("/", controllers.ListNegotiations(deps.Negotiation, logg))
				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", controllers.GetNegotiation(deps.Negotiation, logg))
					r.Delete("/", controllers.CloseNegotiation(deps.Negotiation, logg))
					r.Post("/quantity", controllers.SubmitNegotiationQuantity(deps.Negotiation, logg))
					r.Post("/preview", controllers.PreviewNegotiationOffer(deps.Negotiation, logg))
					r.Post("/accept", controllers.AcceptNegotiationOffer(deps.Negotiation, logg))
					r.Post("/reject", controllers.RejectNegotiationOffer(deps.Negotiation, logg))
				})
			})

			r.Post("/checkout", controllers.Checkout(deps.Orders, logg))
			r.Get("/orders", controllers.ListOrders(deps.Orders, logg))
			r.Get("/orders/{orderID}", controllers.GetOrder(deps.Orders, logg))
			r.Get("/payments", controllers.ListPayments(deps.Orders, logg))

			r.Route("/media", func(r chi.Router) {
				r.Post("/", controllers.RegisterMedia(deps.Media, logg))
				r.Get("/", controllers.ListMyMedia(deps.Media, logg))
			})

			r.Route("/seller/products", func(r chi.Router) {
				r.Use(requireSeller)
				r.Post("/", controllers.CreateProduct(deps.Products, logg))
				r.Patch("/{productID}", controllers.UpdateProduct(deps.Products, logg))
				r.Delete("/{productID}", controllers.DeactivateProduct(deps.Products, logg))
			})
		})
	})

	return r
}
