package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hivellm/taskqueue-go/internal/metrics"
	"github.com/hivellm/taskqueue-go/internal/service"
)

// API wires the service layer into a chi router exposing the REST
// surface of spec.md §4.6/§6.
type API struct {
	svc     *service.Service
	logger  *slog.Logger
	metrics *metrics.Registry
}

// New builds an API and its router. corsOrigins lists the allowed
// origins; ["*"] allows any.
func New(svc *service.Service, logger *slog.Logger, m *metrics.Registry, corsOrigins []string) http.Handler {
	a := &API{svc: svc, logger: logger, metrics: m}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if m != nil {
		r.Use(m.Middleware(func(req *http.Request) string {
			rc := chi.RouteContext(req.Context())
			if rc != nil && rc.RoutePattern() != "" {
				return rc.RoutePattern()
			}
			return req.URL.Path
		}))
	}

	r.Get("/health", a.handleHealth)
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}
	r.Get("/stats", a.handleStats)

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", a.handleSubmitTask)
		r.Get("/", a.handleListTasks)
		r.Post("/upsert", a.handleUpsertTask)
		r.Route("/{taskID}", func(r chi.Router) {
			r.Get("/", a.handleGetTask)
			r.Patch("/", a.handleUpdateTask)
			r.Delete("/", a.handleDeleteTask)
			r.Post("/status", a.handleSetStatus)
			r.Get("/result", a.handleGetResult)
			r.Post("/cancel", a.handleCancel)
			r.Post("/retry", a.handleRetry)
			r.Post("/priority", a.handleSetPriority)
			r.Post("/advance-phase", a.handleAdvancePhase)
			r.Get("/dependencies", a.handleGetDependencies)
			r.Post("/dependencies", a.handleAddDependency)
			r.Get("/correlations", a.handleGetCorrelations)
			r.Post("/technical-documentation", a.handleSetTechnicalDocumentation)
			r.Post("/test-coverage", a.handleSetTestCoverage)
			r.Post("/ai-reviews", a.handleAddAIReviewReport)
			r.Post("/advance-workflow", a.handleAdvanceDevelopmentWorkflow)
		})
	})

	r.Route("/projects", func(r chi.Router) {
		r.Post("/", a.handleCreateProject)
		r.Get("/", a.handleListProjects)
		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", a.handleGetProject)
			r.Patch("/", a.handleUpdateProject)
			r.Delete("/", a.handleDeleteProject)
			r.Get("/tasks", a.handleProjectTasks)
		})
	})

	r.Route("/workflows", func(r chi.Router) {
		r.Post("/", a.handleCreateWorkflow)
		r.Get("/", a.handleListWorkflows)
		r.Route("/{workflowID}", func(r chi.Router) {
			r.Get("/", a.handleGetWorkflow)
			r.Delete("/", a.handleDeleteWorkflow)
			r.Get("/status", a.handleGetWorkflowStatus)
			r.Post("/status", a.handleSetWorkflowStatus)
			r.Post("/approve", a.handleApproveWorkflow)
			r.Post("/cancel", a.handleCancelWorkflow)
		})
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	tasks := a.svc.ListTasks("", "")
	projects := a.svc.ListProjects()
	workflows := a.svc.ListWorkflows()

	byStatus := map[string]int{}
	for _, t := range tasks {
		v := viewOf(t)
		byStatus[string(v.Status)]++
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tasks":           len(tasks),
		"projects":        len(projects),
		"workflows":       len(workflows),
		"tasks_by_status": byStatus,
	})
}
