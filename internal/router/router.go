// Package router sets up all HTTP routes and middleware chains for the
// kalem API. Routes are grouped by resource with public, authenticated,
// and admin middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kalem/internal/handlers"
	"kalem/internal/middleware"
	"kalem/internal/session"
)

// Deps collects the handler groups and cross-cutting services the
// router wires together.
type Deps struct {
	Sessions      *session.Store
	Auth          *handlers.Auth
	Posts         *handlers.Posts
	Feeds         *handlers.Feeds
	Notifications *handlers.Notifications
	Users         *handlers.Users
	Secure        bool // set cookie Secure flags behind TLS
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(d.Secure))

		// Auth — rate limited to slow down credential stuffing.
		authLimiter := middleware.NewRateLimiter(10, time.Minute)
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
		})
		r.Post("/logout", d.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/me", d.Auth.Me)
		})

		// 2FA enrollment hardens admin accounts only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth, middleware.RequireAdmin)
			r.Post("/auth/2fa/setup", d.Auth.TwoFASetup)
			r.Post("/auth/2fa/verify", d.Auth.TwoFAVerify)
		})

		// Posts — reads are public, writes need a session. Chi requires
		// one wildcard name per position, so the {id} segment carries the
		// slug for the detail route and a UUID everywhere else.
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Get("/featured", d.Feeds.Featured)
			r.Get("/trending", d.Feeds.Trending)
			r.Get("/{id}", d.Posts.Detail)
			r.Get("/{id}/like", d.Posts.LikeStatus)
			r.Get("/{id}/comments", d.Posts.Comments)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", d.Posts.Create)
				r.Delete("/{id}", d.Posts.Delete)
				r.Post("/{id}/like", d.Posts.ToggleLike)
				r.Post("/{id}/comments", d.Posts.AddComment)
			})
		})

		// Feeds that live outside /posts.
		r.Get("/users/featured", d.Feeds.FeaturedAuthors)
		r.Get("/categories", d.Feeds.Categories)

		// Users
		r.Get("/users/{id}", d.Users.Profile)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Put("/users/me", d.Users.UpdateProfile)
			r.Post("/users/me/avatar", d.Users.UploadAvatar)
		})

		// Notifications — always scoped to the caller.
		r.Route("/notifications", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", d.Notifications.List)
			r.Post("/", d.Notifications.Create)
			r.Put("/{id}/read", d.Notifications.MarkRead)
			r.Post("/read-all", d.Notifications.MarkAllRead)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
