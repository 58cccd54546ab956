/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employees/*      Staff management
  /api/settings/*       Versioned scheduling policy
  /api/schedule/*       Generation, manual edits, outlook, ICS export
  /api/absences/*       Absence records
  /api/lateness/*       Late-arrival records
  /api/report/*         Effective-hour reports and exports
  /api/scenarios/*      Demo scenarios
  /api/runs             Generation audit trail

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.
  Allowed CORS origins come from configuration.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Staff routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeactivateEmployee)
		})

		// Settings routes
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.PutSettings)
			r.Get("/history", h.GetSettingsHistory)
		})

		// Schedule routes
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetWeekSchedule)
			r.Post("/generate", h.GenerateSchedule)
			r.Get("/range", h.GetScheduleRange)
			r.Put("/entry", h.PutManualEntry)
			r.Get("/outlook", h.GetOutlook)
			r.Get("/export.ics", h.ExportScheduleICS)
		})

		// Deviation routes
		r.Route("/absences", func(r chi.Router) {
			r.Get("/", h.ListAbsences)
			r.Post("/", h.CreateAbsence)
			r.Delete("/{id}", h.DeleteAbsence)
		})
		r.Route("/lateness", func(r chi.Router) {
			r.Get("/", h.ListLateness)
			r.Post("/", h.CreateLateness)
			r.Delete("/{id}", h.DeleteLateness)
		})

		// Report routes
		r.Route("/report", func(r chi.Router) {
			r.Get("/", h.GetReport)
			r.Get("/export.csv", h.ExportReportCSV)
			r.Get("/export.xlsx", h.ExportReportXLSX)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/{name}", h.LoadScenario)
		})

		// Audit routes
		r.Get("/runs", h.ListRuns)
	})

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Skello Perso</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Skello Perso API</h1>
<p>Weekly roster generation with rest-day and Saturday-off rotation.</p>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/employees">/api/employees</a> - List employees</li>
<li><a href="/api/settings">/api/settings</a> - Scheduling policy in force</li>
<li><a href="/api/schedule">/api/schedule</a> - Current week schedule</li>
<li><a href="/api/report">/api/report</a> - Effective hours report</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
