package authz

import (
	"log/slog"
	"net/http"

	"github.com/lumenpress/lumen/internal/observability"
	"github.com/lumenpress/lumen/internal/platform/httpx"
	"github.com/lumenpress/lumen/internal/shared"
)

// Middleware wires the action gate into HTTP handlers.
type Middleware struct {
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Require gates the wrapped handler on the permission matrix entry for
// (resource, action). Denials surface the engine's reason.
func (m Middleware) Require(resource Resource, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := shared.ActorFromContext(r.Context())
			err := Authorize(actor, resource, action)
			m.Metrics.RecordAuthzDecision(string(resource), string(action), err == nil)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Info("authorization denied",
						slog.Int64("actor_id", actor.ID),
						slog.String("resource", string(resource)),
						slog.String("action", string(action)),
						slog.String("reason", err.Error()))
				}
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
