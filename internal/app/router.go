package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lumenpress/lumen/internal/auth"
	"github.com/lumenpress/lumen/internal/authz"
	"github.com/lumenpress/lumen/internal/groups"
	"github.com/lumenpress/lumen/internal/media"
	"github.com/lumenpress/lumen/internal/observability"
	"github.com/lumenpress/lumen/internal/plugins"
	"github.com/lumenpress/lumen/internal/posts"
	"github.com/lumenpress/lumen/internal/shared"
	"github.com/lumenpress/lumen/internal/themes"
	"github.com/lumenpress/lumen/internal/users"
	"github.com/lumenpress/lumen/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Actors         ActorSource

	AuthHandler    *auth.Handler
	PostsHandler   *posts.Handler
	MediaHandler   *media.Handler
	ThemesHandler  *themes.Handler
	PluginsHandler *plugins.Handler
	UsersHandler   *users.Handler
	GroupsHandler  *groups.Handler
	JobsHandler    *jobs.Handler

	Gate    authz.Middleware
	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Lumen defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Actors:         params.Actors,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			params.Metrics.Handler().ServeHTTP(w, r)
		})
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(rt chi.Router) {
			params.AuthHandler.MountRoutes(rt)
		})
		api.Route("/posts", func(rt chi.Router) {
			params.PostsHandler.MountRoutes(rt, params.Gate)
		})
		api.Route("/media", func(rt chi.Router) {
			params.MediaHandler.MountRoutes(rt, params.Gate)
		})
		api.Route("/themes", func(rt chi.Router) {
			params.ThemesHandler.MountRoutes(rt, params.Gate)
		})
		api.Route("/plugins", func(rt chi.Router) {
			params.PluginsHandler.MountRoutes(rt, params.Gate)
		})
		api.Route("/users", func(rt chi.Router) {
			params.UsersHandler.MountRoutes(rt, params.Gate)
		})
		api.Route("/groups", func(rt chi.Router) {
			params.GroupsHandler.MountRoutes(rt, params.Gate)
		})
		if params.JobsHandler != nil {
			api.Route("/jobs", func(rt chi.Router) {
				params.JobsHandler.MountRoutes(rt)
			})
		}
	})

	return r
}
