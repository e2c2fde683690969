package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"melidash/internal/domain/value"
	"melidash/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	editors := requireRole(value.RoleAdmin, value.RoleManager)

	r.Route("/api", func(r chi.Router) {
		// unauthorized zone
		r.Route("/auth", func(r chi.Router) {
			r.Get("/register", handler(s.getRegister))
			r.Post("/register", handler(s.postRegister))
			r.Post("/login", handler(s.postLogin))
			r.Post("/forgot-password", handler(s.postForgotPassword))
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate(s.authenticator))

			r.Get("/products", handler(s.getProducts))

			r.Route("/pricing", func(r chi.Router) {
				r.Get("/rules", handler(s.getRules))
				r.Get("/rules/{id}", handler(s.getRule))
				r.Get("/executions", handler(s.getExecutions))
				r.Get("/alerts", handler(s.getAlerts))
				r.Get("/stats", handler(s.getStats))
				r.Get("/competitors/{productId}", handler(s.getCompetitors))
				r.Get("/scheduler", handler(s.getScheduler))

				r.Group(func(r chi.Router) {
					r.Use(editors)

					r.Post("/rules", handler(s.postRule))
					r.Put("/rules/{id}", handler(s.putRule))
					r.Delete("/rules/{id}", handler(s.deleteRule))
					r.Post("/rules/{id}/toggle", handler(s.postToggleRule))
					r.Post("/rules/{id}/preview", handler(s.postPreviewRule))
					r.Post("/run", handler(s.postRun))
					r.Post("/run/async", handler(s.postRunAsync))
					r.Post("/alerts/{id}/acknowledge", handler(s.postAcknowledgeAlert))
					r.Post("/scheduler/start", handler(s.postSchedulerStart))
					r.Post("/scheduler/stop", handler(s.postSchedulerStop))
				})
			})

			r.Route("/trends", func(r chi.Router) {
				r.Get("/", handler(s.getTrends))
				r.Get("/categories", handler(s.getCategories))
				r.Get("/opportunities", handler(s.getOpportunities))
				r.Get("/competitors", handler(s.getMarketCompetitors))
				r.Get("/{id}", handler(s.getTrend))
			})

			r.Route("/reputation", func(r chi.Router) {
				r.Get("/", handler(s.getReputation))
				r.Get("/reviews", handler(s.getReviews))
				r.With(editors).Post("/reviews/{id}/reply", handler(s.postReviewReply))
			})

			r.Route("/assistant", func(r chi.Router) {
				r.Get("/insights", handler(s.getInsights))
				r.Post("/ask", handler(s.postAsk))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireRole(value.RoleAdmin))

				r.Get("/users", handler(s.getUsers))
				r.Get("/users/{id}", handler(s.getUser))
				r.Put("/users/{id}", handler(s.putUser))
				r.Delete("/users/{id}", handler(s.deleteUser))
				r.Get("/invites", handler(s.getInvites))
				r.Post("/invites", handler(s.postInvite))
				r.Put("/invites", handler(s.putInvite))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
