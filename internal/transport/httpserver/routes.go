package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/malprimis/petanchiki/internal/config"
	"github.com/malprimis/petanchiki/internal/transport/httpserver/handler"
	"github.com/malprimis/petanchiki/internal/transport/httpserver/middleware"
	"github.com/malprimis/petanchiki/pkg/logger"
)

// NewRouter mounts the API under /api. limiter may be nil, in which case the
// auth endpoints are not rate limited.
func NewRouter(cfg config.Config, handlers *handler.Handlers, limiter middleware.Limiter, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NewRateLimit(limiter, cfg.RateLimit, log))

			r.Post("/auth/register", handlers.Register)
			r.Post("/auth/login", handlers.Login)
			r.Post("/auth/refresh", handlers.Refresh)
		})

		auth := middleware.NewJWTAuth(handlers.Auth, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/users", handlers.ListUsers)
			r.Get("/users/me", handlers.Me)
			r.Get("/users/{id}", handlers.GetUser)
			r.Patch("/users/{id}", handlers.UpdateUser)
			r.Delete("/users/{id}", handlers.DeleteUser)
			r.Get("/users/{id}/memberships", handlers.ListUserMemberships)

			r.Post("/groups", handlers.CreateGroup)
			r.Get("/groups", handlers.ListGroups)
			r.Get("/groups/{id}", handlers.GetGroup)
			r.Patch("/groups/{id}", handlers.UpdateGroup)
			r.Delete("/groups/{id}", handlers.DeleteGroup)

			r.Get("/groups/{id}/members", handlers.ListMembers)
			r.Post("/groups/{id}/members", handlers.AddMember)
			r.Patch("/groups/{id}/members/{user_id}", handlers.ChangeMemberRole)
			r.Delete("/groups/{id}/members/{user_id}", handlers.RemoveMember)

			r.Get("/groups/{id}/categories", handlers.ListCategories)
			r.Post("/groups/{id}/categories", handlers.CreateCategory)
			r.Patch("/categories/{id}", handlers.UpdateCategory)
			r.Delete("/categories/{id}", handlers.DeleteCategory)

			r.Get("/groups/{id}/report", handlers.GroupReport)

			r.Post("/transactions", handlers.CreateTransaction)
			r.Get("/transactions", handlers.ListTransactions)
			r.Get("/transactions/{id}", handlers.GetTransaction)
			r.Patch("/transactions/{id}", handlers.UpdateTransaction)
			r.Delete("/transactions/{id}", handlers.DeleteTransaction)
		})
	})

	return r
}
