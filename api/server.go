/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions for the scheduling service surface.

ROUTER: chi with the standard middleware stack: Logger, Recoverer,
  RequestID, cors.Handler.

ROUTE GROUPS:
  /api/calendar              POST: compute a month's schedule
  /api/pto/approve           POST: strict PTO admission check
  /api/departments           GET: list departments
  /api/departments/{name}/coverage  GET: per-skill coverage summary

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/calendar", h.PostCalendar)

		r.Route("/pto", func(r chi.Router) {
			r.Post("/approve", h.PostPTOApprove)
		})

		r.Route("/departments", func(r chi.Router) {
			r.Get("/", h.GetDepartments)
			r.Get("/{name}/coverage", h.GetCoverage)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Shift Scheduler API</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Shift Scheduler API</h1>
<h2>Endpoints</h2>
<ul>
<li>POST /api/calendar - compute a month's schedule</li>
<li>POST /api/pto/approve - strict PTO admission check</li>
<li><a href="/api/departments">/api/departments</a> - list departments</li>
</ul>
</body>
</html>`))
	})

	return r
}
