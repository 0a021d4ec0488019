// Package http wires the HTTP surface: routing, CORS, auth and role
// guards around the handlers.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nikan-clinic/frontdesk/internal/domain"
	"github.com/nikan-clinic/frontdesk/internal/handler"
	"github.com/nikan-clinic/frontdesk/internal/middleware"
)

type RouterDeps struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Bookings *handler.BookingHandler
	Payments *handler.PaymentHandler
	Catalog  *handler.CatalogHandler
	Reports  *handler.ReportHandler
	Uploads  *handler.UploadHandler

	JWTSecret      string
	AllowedOrigins []string
	Idempotency    middleware.IdempotencyStore
}

// New builds the router. Everything except login and the health probes
// sits behind JWT auth; mutating routes are additionally limited by
// role. Receptionists run the desk day to day, admins manage staff and
// prices, consultants and doctors get read access.
func New(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health/live", deps.Health.Liveness)
	r.Get("/health/ready", deps.Health.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", deps.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.JWTSecret))

			r.Get("/auth/me", deps.Auth.Me)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))
				r.Post("/", deps.Users.Create)
				r.Get("/", deps.Users.List)
			})

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/surgeries", deps.Catalog.Surgeries)
				r.Get("/doctors", deps.Catalog.Doctors)
				r.Get("/consultants", deps.Catalog.Consultants)
				r.Get("/clinics", deps.Catalog.Clinics)
				r.Get("/bank-cards", deps.Catalog.BankCards)
				r.Get("/time-slots", deps.Catalog.TimeSlots)
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", deps.Bookings.List)
				r.Get("/{bookingID}", deps.Bookings.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleReceptionist))

					r.With(middleware.Idempotency(deps.Idempotency)).
						Post("/", deps.Bookings.Admit)
					r.With(middleware.Idempotency(deps.Idempotency)).
						Post("/{bookingID}/payments", deps.Payments.AddDeposit)
					r.Delete("/{bookingID}/payments/{paymentID}", deps.Payments.RemoveDeposit)

					r.Post("/{bookingID}/receipts", deps.Uploads.Receipt)
					r.Post("/{bookingID}/documents", deps.Uploads.Document)
				})

				r.With(middleware.RequireRole(domain.RoleAdmin)).
					Put("/{bookingID}/price", deps.Payments.SetPrice)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/dashboard", deps.Reports.Dashboard)
				r.Get("/", deps.Reports.Report)
			})
		})
	})

	return r
}
