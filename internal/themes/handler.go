package themes

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

// Handler wires HTTP endpoints for themes.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers theme routes guarded by the action gate.
// There is no bare deactivate: a theme leaves the active slot only when
// another one takes it.
func (h *Handler) MountRoutes(r chi.Router, gate authz.Middleware) {
	r.With(gate.Require(authz.ResourceThemes, authz.ActionList)).Get("/", h.list)
	r.With(gate.Require(authz.ResourceThemes, authz.ActionRetrieve)).Get("/{id}", h.get)
	r.With(gate.Require(authz.ResourceThemes, authz.ActionCreate)).Post("/", h.create)
	r.With(gate.Require(authz.ResourceThemes, authz.ActionUpdate)).Put("/{id}", h.update)
	r.With(gate.Require(authz.ResourceThemes, authz.ActionDestroy)).Delete("/{id}", h.delete)
	r.With(gate.Require(authz.ResourceThemes, authz.ActionActivate)).Post("/{id}/activate", h.activate)
}

type themePayload struct {
	Name    string            `json:"name" validate:"required,max=150"`
	Version string            `json:"version" validate:"max=20"`
	Options map[string]string `json:"options,omitempty"`
}

type themeResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	IsActive  bool              `json:"is_active"`
	Options   map[string]string `json:"options,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func toResponse(t Theme) themeResponse {
	return themeResponse{
		ID:        t.ID,
		Name:      t.Name,
		Version:   t.Version,
		IsActive:  t.IsActive,
		Options:   t.Options,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
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
		h.logger.Error("list themes", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]themeResponse, 0, len(result))
	for _, t := range result {
		out = append(out, toResponse(t))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	theme, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(theme))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload themePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	theme, err := h.service.Create(r.Context(), Input{Name: payload.Name, Version: payload.Version, Options: payload.Options})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(theme))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var payload themePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	theme, err := h.service.Update(r.Context(), id, Input{Name: payload.Name, Version: payload.Version, Options: payload.Options})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(theme))
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
	updated, err := h.service.Activate(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	out := make([]themeResponse, 0, len(updated))
	for _, t := range updated {
		out = append(out, toResponse(t))
	}
	httpx.JSON(w, http.StatusOK, out)
}
