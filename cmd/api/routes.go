package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/marketplace-leads/internal/config"
	"github.com/xavierca1/marketplace-leads/internal/infra/http/handlers"
	"github.com/xavierca1/marketplace-leads/internal/infra/http/middleware"
)

type routerDeps struct {
	Config  config.App
	Enquiry *handlers.EnquiryHandler
	Credit  *handlers.CreditHandler
	Webhook *handlers.WebhookHandler
	Health  *handlers.HealthHandler
	Limiter *middleware.RateLimiter
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	// Público
	r.With(d.Limiter.Limit).Post("/listings/{id}/enquiries", d.Enquiry.HandleCreate)
	r.Post("/webhooks/billing", d.Webhook.Handle)

	// Vendedor autenticado
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(d.Config.JWTSecret))

		r.Get("/enquiries", d.Enquiry.HandleList)
		r.Post("/enquiries/{id}/unlock", d.Enquiry.HandleUnlock)

		r.Get("/credits", d.Credit.HandleGet)
		r.Post("/credits/checkout", d.Credit.HandleCheckout)
	})

	return r
}
