package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tableforge/tableforge/internal/auth"
	"github.com/tableforge/tableforge/internal/authn"
	"github.com/tableforge/tableforge/internal/observability"
	"github.com/tableforge/tableforge/internal/reference"
	"github.com/tableforge/tableforge/internal/shared"
	"github.com/tableforge/tableforge/internal/users"
	"github.com/tableforge/tableforge/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger        *slog.Logger
	Config        *Config
	SessionStore  *shared.SessionStore
	Authenticator *authn.Authenticator
	AuthHandler   *auth.Handler
	UsersHandler  *users.Handler
	SourceHandler *reference.Handler
	JobHandler    *jobs.Handler
	Metrics       *observability.Metrics
}

// NewRouter constructs the chi.Router with Tableforge defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:       params.Logger,
		Config:       params.Config,
		SessionStore: params.SessionStore,
		Metrics:      params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Reference reads are public; writes require a session.
	if params.SourceHandler != nil {
		r.Route("/api/sources", func(r chi.Router) {
			r.Use(params.Authenticator.Require(authn.ResourceConfig{
				SkipActions: []string{"index", "show"},
			}))
			params.SourceHandler.MountRoutes(r)
		})
	}

	if params.UsersHandler != nil {
		r.Route("/api/users", func(r chi.Router) {
			r.Use(params.Authenticator.Require(authn.ResourceConfig{}))
			r.Use(authn.RequireRole(users.RoleAdmin))
			params.UsersHandler.MountRoutes(r)
		})
	}

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
