package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/printdeskhq/printdesk-backend/api/controllers"
	"github.com/printdeskhq/printdesk-backend/api/middleware"
	"github.com/printdeskhq/printdesk-backend/internal/orders"
	"github.com/printdeskhq/printdesk-backend/internal/payments"
	"github.com/printdeskhq/printdesk-backend/internal/pricing"
	"github.com/printdeskhq/printdesk-backend/internal/statuses"
	"github.com/printdeskhq/printdesk-backend/internal/timeline"
	"github.com/printdeskhq/printdesk-backend/pkg/config"
	"github.com/printdeskhq/printdesk-backend/pkg/db"
	"github.com/printdeskhq/printdesk-backend/pkg/logger"
	"github.com/printdeskhq/printdesk-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            *db.Client
	Redis         *redis.Client
	PricingEngine *pricing.Engine
	Catalog       *statuses.Catalog
	Orders        orders.Service
	Payments      payments.Service
	Timeline      timeline.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Identity(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(params)))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if params.Redis != nil {
			r.Use(middleware.Idempotency(params.Redis, logg))
		}

		r.Post("/pricing/quote", controllers.PriceQuote(params.PricingEngine, logg))

		r.Get("/statuses", controllers.ListStatuses(params.Catalog, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(params.Orders, logg))
			r.Get("/", controllers.ListOrders(params.Orders, logg))

			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.GetOrder(params.Orders, logg))
				r.Patch("/", controllers.UpdateOrder(params.Orders, logg))
				r.Post("/status", controllers.ChangeOrderStatus(params.Orders, logg))
				r.Get("/events", controllers.ListOrderEvents(params.Timeline, logg))
				r.Post("/payment-requests", controllers.CreatePaymentRequest(params.Payments, logg))
				r.Get("/payment-requests", controllers.ListPaymentRequests(params.Payments, logg))
			})
		})

		r.Route("/payment-requests/{requestID}", func(r chi.Router) {
			r.Post("/mark-paid", controllers.MarkPaymentRequestPaid(params.Payments, logg))
			r.Post("/cancel", controllers.CancelPaymentRequest(params.Payments, logg))
			r.Delete("/", controllers.DeletePaymentRequest(params.Payments, logg))
		})
	})

	return r
}

func readinessDeps(params RouterParams) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if params.DB != nil {
		deps["postgres"] = params.DB
	}
	if params.Redis != nil {
		deps["redis"] = params.Redis
	}
	return deps
}
