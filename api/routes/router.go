package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sarthakjns/bazaario-backend/api/controllers"
	webhookcontrollers "github.com/sarthakjns/bazaario-backend/api/controllers/webhooks"
	"github.com/sarthakjns/bazaario-backend/api/middleware"
	authsvc "github.com/sarthakjns/bazaario-backend/internal/auth"
	checkoutsvc "github.com/sarthakjns/bazaario-backend/internal/checkout"
	couponsvc "github.com/sarthakjns/bazaario-backend/internal/coupons"
	customersvc "github.com/sarthakjns/bazaario-backend/internal/customers"
	feedsvc "github.com/sarthakjns/bazaario-backend/internal/feed"
	integrationsvc "github.com/sarthakjns/bazaario-backend/internal/integrations"
	ordersvc "github.com/sarthakjns/bazaario-backend/internal/orders"
	productsvc "github.com/sarthakjns/bazaario-backend/internal/products"
	shippingsvc "github.com/sarthakjns/bazaario-backend/internal/shipping"
	supportsvc "github.com/sarthakjns/bazaario-backend/internal/support"
	rzpwebhook "github.com/sarthakjns/bazaario-backend/internal/webhooks/razorpay"
	"github.com/sarthakjns/bazaario-backend/pkg/config"
	"github.com/sarthakjns/bazaario-backend/pkg/logger"
	"github.com/sarthakjns/bazaario-backend/pkg/metrics"
	pkgredis "github.com/sarthakjns/bazaario-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              controllers.Pinger
	Redis           *pkgredis.Client
	MetricsRegistry *prometheus.Registry
	HTTPMetrics     *metrics.HTTPMetrics

	Auth         authsvc.Service
	Products     productsvc.Service
	Checkout     checkoutsvc.Service
	Orders       ordersvc.Service
	Feed         feedsvc.Service
	Support      supportsvc.Service
	Coupons      couponsvc.Service
	Shipping     shippingsvc.Service
	Customers    customersvc.Service
	Integrations integrationsvc.Service
	Webhook      rzpwebhook.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/razorpay", webhookcontrollers.Razorpay(deps.Webhook, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.Idempotency(deps.Redis, logg)).
			Post("/register", controllers.Register(deps.Auth, logg))
		r.Post("/login", controllers.Login(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).
			Get("/me", controllers.Me(deps.Auth, logg))
	})

	// Public storefront surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Products, logg))
		r.Get("/products/{productID}", controllers.GetProduct(deps.Products, logg))
		r.Get("/feed", controllers.ActivityFeed(deps.Feed, logg))

		// Checkout and placement accept both guests and signed-in customers.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(deps.Redis, logg))
			r.Post("/checkout/payment-intent", controllers.CreatePaymentIntent(deps.Checkout, logg))
			r.Post("/orders", controllers.PlaceOrder(deps.Orders, logg))
		})

		// Signed-in customer surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/orders", controllers.ListMyOrders(deps.Orders, logg))
			r.Get("/orders/{orderID}", controllers.GetMyOrder(deps.Orders, logg))

			r.Route("/support/tickets", func(r chi.Router) {
				r.With(middleware.Idempotency(deps.Redis, logg)).
					Post("/", controllers.CreateTicket(deps.Support, logg))
				r.Get("/", controllers.ListMyTickets(deps.Support, logg))
				r.Get("/{ticketID}", controllers.GetTicket(deps.Support, logg))
				r.Post("/{ticketID}/messages", controllers.ReplyTicket(deps.Support, logg))
				r.Post("/{ticketID}/close", controllers.CloseTicket(deps.Support, logg))
			})
		})
	})

	// Back-office surface.
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(deps.Products, logg))
			r.Post("/", controllers.AdminCreateProduct(deps.Products, logg))
			r.Put("/{productID}", controllers.AdminUpdateProduct(deps.Products, logg))
			r.Delete("/{productID}", controllers.AdminDeleteProduct(deps.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Get("/{orderID}", controllers.AdminGetOrder(deps.Orders, logg))
			r.Patch("/{orderID}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminListCoupons(deps.Coupons, logg))
			r.Post("/", controllers.AdminCreateCoupon(deps.Coupons, logg))
			r.Put("/{couponID}", controllers.AdminUpdateCoupon(deps.Coupons, logg))
			r.Delete("/{couponID}", controllers.AdminDeleteCoupon(deps.Coupons, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminListCustomers(deps.Customers, logg))
			r.Patch("/{customerID}/block", controllers.AdminBlockCustomer(deps.Customers, logg))
		})

		r.Route("/shipping", func(r chi.Router) {
			r.Get("/", controllers.AdminGetShippingRule(deps.Shipping, logg))
			r.Put("/", controllers.AdminUpdateShippingRule(deps.Shipping, logg))
		})

		r.Route("/integrations", func(r chi.Router) {
			r.Get("/", controllers.AdminListIntegrations(deps.Integrations, logg))
			r.Put("/{name}", controllers.AdminUpdateIntegration(deps.Integrations, logg))
		})

		r.Route("/support/tickets", func(r chi.Router) {
			r.Get("/", controllers.ListAllTickets(deps.Support, logg))
			r.Get("/{ticketID}", controllers.GetTicket(deps.Support, logg))
			r.Post("/{ticketID}/messages", controllers.ReplyTicket(deps.Support, logg))
			r.Post("/{ticketID}/close", controllers.CloseTicket(deps.Support, logg))
		})
	})

	return r
}
