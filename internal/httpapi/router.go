package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"eventpro/internal/account"
	"eventpro/internal/api"
	"eventpro/internal/auth"
	"eventpro/internal/booking"
	"eventpro/internal/session"
	"eventpro/pkg/config"
)

type Dependencies struct {
	Cfg      config.Config
	Log      *slog.Logger
	Accounts *account.Service
	Sessions *session.Manager
	Bookings *booking.Service
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(api.RequestLogger(deps.Log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	authHandlers := auth.Handlers{
		Cfg:      deps.Cfg,
		Accounts: deps.Accounts,
		Sessions: deps.Sessions,
		Log:      deps.Log,
	}
	bookingHandlers := booking.Handlers{Bookings: deps.Bookings, Log: deps.Log}
	loginPath := deps.Cfg.Session.LoginPath

	// v1
	r.Route("/v1", func(r chi.Router) {
		// Browser front-end on a separate origin; cookies included.
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAgeSeconds:  600,
		}))
		r.Use(api.SessionAuth(deps.Sessions, deps.Log))

		r.Get("/catalog", bookingHandlers.Catalog)

		r.Post("/auth/signup", authHandlers.Signup)
		r.Post("/auth/login", authHandlers.Login)
		r.Post("/auth/logout", authHandlers.Logout)
		r.Get("/auth/me", authHandlers.Me)

		// Customer
		r.Group(func(r chi.Router) {
			r.Use(api.RequireSession(loginPath))

			r.Post("/bookings", bookingHandlers.Submit)
			r.Get("/bookings/{id}", bookingHandlers.Get)
			r.Get("/bookings/{id}/payment", bookingHandlers.Payment)
		})
		r.With(api.RequireRole(account.RoleUser, loginPath)).Get("/dashboard", bookingHandlers.Dashboard)

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(api.RequireRole(account.RoleAdmin, loginPath))

			r.Get("/dashboard", bookingHandlers.Dashboard)
			r.Get("/bookings/{id}", bookingHandlers.Get)
			r.Post("/bookings/{id}/transitions", bookingHandlers.Transition)
			r.Patch("/bookings/{id}/status", bookingHandlers.PatchStatus)
			r.Put("/bookings/{id}/progress", bookingHandlers.Progress)
			r.Get("/bookings/{id}/events", bookingHandlers.Events)
		})
	})

	return r
}
