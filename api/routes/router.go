package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brightloom/storefront-backend/api/controllers"
	webhookcontrollers "github.com/brightloom/storefront-backend/api/controllers/webhooks"
	"github.com/brightloom/storefront-backend/api/middleware"
	"github.com/brightloom/storefront-backend/internal/admingate"
	"github.com/brightloom/storefront-backend/internal/bookings"
	"github.com/brightloom/storefront-backend/internal/cart"
	checkoutsvc "github.com/brightloom/storefront-backend/internal/checkout"
	"github.com/brightloom/storefront-backend/internal/contact"
	"github.com/brightloom/storefront-backend/internal/orders"
	stripewebhook "github.com/brightloom/storefront-backend/internal/webhooks/stripe"
	"github.com/brightloom/storefront-backend/pkg/config"
	"github.com/brightloom/storefront-backend/pkg/db"
	"github.com/brightloom/storefront-backend/pkg/logger"
	"github.com/brightloom/storefront-backend/pkg/redis"
	"github.com/brightloom/storefront-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	stripeClient *stripe.Client,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	bookingsService bookings.Service,
	contactService contact.Service,
	adminGate admingate.Service,
	stripeWebhookService *stripewebhook.Service,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.FrontendOrigin),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	// Raw body required for signature verification, so no body middleware here.
	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Put("/", controllers.CartReplace(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit("public", cfg.RateLimit, redisClient, logg))
			r.Post("/checkout/session", controllers.CheckoutCreateSession(checkoutService, logg))
			r.Post("/bookings", controllers.BookingSubmit(bookingsService, logg))
			r.Post("/contact", controllers.ContactSubmit(contactService, logg))
		})

		r.With(middleware.RateLimit("admin-auth", cfg.RateLimit, redisClient, logg)).
			Post("/admin/session", controllers.AdminSignIn(adminGate, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(adminGate, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrders(ordersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(ordersService, logg))
		})
		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", controllers.AdminBookings(bookingsService, logg))
			r.Patch("/{bookingId}/status", controllers.AdminBookingStatus(bookingsService, logg))
		})
	})

	return r
}
