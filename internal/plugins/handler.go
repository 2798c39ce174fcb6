package plugins

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lumenpress/lumen/internal/authz"
	"github.com/lumenpress/lumen/internal/platform/httpx"
	"github.com/lumenpress/lumen/internal/shared"
)

// Handler wires HTTP endpoints for plugins.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers plugin routes guarded by the action gate.
func (h *Handler) MountRoutes(r chi.Router, gate authz.Middleware) {
	r.With(gate.Require(authz.ResourcePlugins, authz.ActionList)).Get("/", h.list)
	r.With(gate.Require(authz.ResourcePlugins, authz.ActionRetrieve)).Get("/{id}", h.get)
	r.With(gate.Require(authz.ResourcePlugins, authz.ActionCreate)).Post("/", h.create)
	r.With(gate.Require(authz.ResourcePlugins, authz.ActionUpdate)).Put("/{id}", h.update)
	r.With(gate.Require(authz.ResourcePlugins, authz.ActionDestroy)).Delete("/{id}", h.delete)
	r.With(gate.Require(authz.ResourcePlugins, authz.ActionActivate)).Post("/{id}/activate", h.activate)
	r.With(gate.Require(authz.ResourcePlugins, authz.ActionDeactivate)).Post("/{id}/deactivate", h.deactivate)
}

type pluginPayload struct {
	Name     string            `json:"name" validate:"required,max=150"`
	Version  string            `json:"version" validate:"max=20"`
	Settings map[string]string `json:"settings,omitempty"`
}

type pluginResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	IsActive  bool              `json:"is_active"`
	Settings  map[string]string `json:"settings,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func toResponse(p Plugin) pluginResponse {
	return pluginResponse{
		ID:        p.ID,
		Name:      p.Name,
		Version:   p.Version,
		IsActive:  p.IsActive,
		Settings:  p.Settings,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, &shared.ValidationError{Field: "id", Message: "must be a valid uuid"}
	}
	return id, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list plugins", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]pluginResponse, 0, len(result))
	for _, p := range result {
		out = append(out, toResponse(p))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	plugin, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(plugin))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload pluginPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	plugin, err := h.service.Create(r.Context(), Input{Name: payload.Name, Version: payload.Version, Settings: payload.Settings})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(plugin))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var payload pluginPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	plugin, err := h.service.Update(r.Context(), id, Input{Name: payload.Name, Version: payload.Version, Settings: payload.Settings})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(plugin))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	plugin, err := h.service.Activate(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(plugin))
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	plugin, err := h.service.Deactivate(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(plugin))
}
