package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/halisidigital/halisi-backend/api/controllers"
	webhookcontrollers "github.com/halisidigital/halisi-backend/api/controllers/webhooks"
	"github.com/halisidigital/halisi-backend/api/middleware"
	authsvc "github.com/halisidigital/halisi-backend/internal/auth"
	cartsvc "github.com/halisidigital/halisi-backend/internal/cart"
	catalogsvc "github.com/halisidigital/halisi-backend/internal/catalog"
	checkoutsvc "github.com/halisidigital/halisi-backend/internal/checkout"
	discountsvc "github.com/halisidigital/halisi-backend/internal/discounts"
	newslettersvc "github.com/halisidigital/halisi-backend/internal/newsletter"
	ordersvc "github.com/halisidigital/halisi-backend/internal/orders"
	"github.com/halisidigital/halisi-backend/pkg/config"
	"github.com/halisidigital/halisi-backend/pkg/db"
	"github.com/halisidigital/halisi-backend/pkg/enums"
	"github.com/halisidigital/halisi-backend/pkg/logger"
	"github.com/halisidigital/halisi-backend/pkg/metrics"
	"github.com/halisidigital/halisi-backend/pkg/paystack"
	"github.com/halisidigital/halisi-backend/pkg/redis"
)

// Deps carries everything the router mounts. Metrics fields and the
// Prometheus registry may be nil, in which case the /metrics endpoint and
// request instrumentation are skipped.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *db.Client
	Redis        *redis.Client
	Registry     *prometheus.Registry
	HTTPMetrics  *metrics.HTTPMetrics
	AuthService  authsvc.Service
	Catalog      catalogsvc.Service
	Cart         cartsvc.Service
	Discounts    discountsvc.Service
	Newsletter   newslettersvc.Service
	Orders       ordersvc.Service
	Checkout     checkoutsvc.Service
	Paystack     *paystack.Client
	WebhookGuard *webhookcontrollers.EventGuard
}

// NewRouter assembles the full HTTP surface: public storefront routes keyed
// by cart token, the Paystack webhook, and the admin API behind JWT auth.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var dbPinger db.Pinger
	if deps.DB != nil {
		dbPinger = deps.DB
	}
	var cachePinger redis.Pinger
	var idempotencyStore redis.IdempotencyStore
	if deps.Redis != nil {
		cachePinger = deps.Redis
		idempotencyStore = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbPinger, cachePinger, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/paystack", webhookcontrollers.PaystackWebhook(deps.Checkout, deps.Paystack, deps.WebhookGuard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartToken())

		r.Route("/ebooks", func(r chi.Router) {
			r.Get("/", controllers.ListEbooks(deps.Catalog, logg))
			r.Get("/featured", controllers.FeaturedEbooks(deps.Catalog, logg))
			r.Get("/{ebookID}", controllers.GetEbook(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Cart, logg))
			r.Delete("/", controllers.ClearCart(deps.Cart, logg))
			r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
			r.Delete("/items/{ebookID}", controllers.RemoveCartItem(deps.Cart, logg))
		})

		r.With(middleware.Idempotency(idempotencyStore, logg)).
			Post("/checkout", controllers.BeginCheckout(deps.Checkout, logg))
		r.Get("/checkout/verify/{reference}", controllers.VerifyCheckout(deps.Checkout, logg))
		r.Get("/orders/{reference}/downloads", controllers.OrderDownloads(deps.Checkout, logg))

		r.Post("/newsletter", controllers.SubscribeNewsletter(deps.Newsletter, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AdminLogin(deps.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireAnyRole(logg, enums.MemberRoleAdmin.String(), enums.MemberRoleEditor.String()))

			r.Route("/ebooks", func(r chi.Router) {
				r.Get("/", controllers.ListEbooks(deps.Catalog, logg))
				r.Post("/", controllers.CreateEbook(deps.Catalog, logg))
				r.Get("/{ebookID}", controllers.GetEbook(deps.Catalog, logg))
				r.Patch("/{ebookID}", controllers.UpdateEbook(deps.Catalog, logg))
				r.With(middleware.RequireRole(enums.MemberRoleAdmin.String(), logg)).
					Delete("/{ebookID}", controllers.DeleteEbook(deps.Catalog, logg))
			})

			r.Route("/discounts", func(r chi.Router) {
				r.Get("/", controllers.ListDiscountRules(deps.Discounts, logg))
				r.Post("/", controllers.CreateDiscountRule(deps.Discounts, logg))
				r.Get("/{ruleID}", controllers.GetDiscountRule(deps.Discounts, logg))
				r.Patch("/{ruleID}", controllers.UpdateDiscountRule(deps.Discounts, logg))
				r.With(middleware.RequireRole(enums.MemberRoleAdmin.String(), logg)).
					Delete("/{ruleID}", controllers.DeleteDiscountRule(deps.Discounts, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
				r.Get("/{orderID}", controllers.AdminGetOrder(deps.Orders, logg))
			})

			r.Route("/newsletter", func(r chi.Router) {
				r.Get("/", controllers.ListSubscribers(deps.Newsletter, logg))
				r.With(middleware.RequireRole(enums.MemberRoleAdmin.String(), logg)).
					Delete("/{subscriberID}", controllers.RemoveSubscriber(deps.Newsletter, logg))
			})
		})
	})

	return r
}
