package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured. When
// uploadsDir is non-empty the local uploads directory is served at
// /uploads/ (bucket-less deployments).
func NewRouter(h *Handler, uploadsDir string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/health", h.Health)
		r.Get("/projects", h.ListProjects)
		r.Get("/reviews", h.ListReviews)
		r.Post("/reviews", h.SubmitReview)
		r.Post("/budget-requests", h.CreateBudgetRequest)
		r.Post("/auth/login", h.Login)

		// Admin routes (session required)
		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin(h.sessions, h.state))

			r.Post("/auth/logout", h.Logout)

			r.Post("/admin/projects", h.CreateProject)
			r.Put("/admin/projects/{id}", h.UpdateProject)
			r.Delete("/admin/projects/{id}", h.DeleteProject)
			r.Post("/admin/projects/describe", h.DescribeProject)

			r.Get("/admin/reviews", h.ListAllReviews)
			r.Patch("/admin/reviews/{id}/approval", h.ToggleReviewApproval)
			r.Delete("/admin/reviews/{id}", h.DeleteReview)

			r.Get("/admin/budget-requests", h.ListBudgetRequests)
			r.Patch("/admin/budget-requests/{id}/status", h.UpdateBudgetRequestStatus)
			r.Delete("/admin/budget-requests/{id}", h.DeleteBudgetRequest)
			r.Delete("/admin/budget-requests", h.DeleteAllBudgetRequests)

			r.Get("/admin/settings", h.GetSettings)
			r.Put("/admin/settings", h.UpdateSettings)
			r.Post("/admin/settings/test", h.SendTestNotification)

			r.Post("/admin/uploads", h.UploadFile)
		})
	})

	if uploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))
	}

	return r
}
