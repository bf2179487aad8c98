package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/tasknest-api/internal/api"
	apimiddleware "github.com/phrazzld/tasknest-api/internal/api/middleware"
	"github.com/phrazzld/tasknest-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.hasher)
	taskHandler := api.NewTaskHandler(app.taskStore)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public; verify checks its own header)
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/auth/verify", authHandler.Verify)

		// Task endpoints, owner-scoped under the user's ID
		r.Route("/{user_id}/tasks", func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Route("/{task_id}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)
				r.Put("/", taskHandler.Update)
				r.Delete("/", taskHandler.Delete)
				r.Patch("/complete", taskHandler.ToggleComplete)
			})
		})
	})

	// Liveness endpoints
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
			"message": "TaskNest API is running",
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	return r
}
