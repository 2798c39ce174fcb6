package media

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

// Handler wires HTTP endpoints for media.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers media routes guarded by the action gate.
// The update route is mounted but its gate denies everyone; uploads
// are replaced by delete and re-create.
func (h *Handler) MountRoutes(r chi.Router, gate authz.Middleware) {
	r.With(gate.Require(authz.ResourceMedia, authz.ActionList)).Get("/", h.list)
	r.With(gate.Require(authz.ResourceMedia, authz.ActionRetrieve)).Get("/{id}", h.get)
	r.With(gate.Require(authz.ResourceMedia, authz.ActionCreate)).Post("/", h.create)
	r.With(gate.Require(authz.ResourceMedia, authz.ActionUpdate)).Put("/{id}", h.update)
	r.With(gate.Require(authz.ResourceMedia, authz.ActionDestroy)).Delete("/{id}", h.delete)
}

type mediaPayload struct {
	Name      string `json:"name" validate:"required,max=255"`
	Path      string `json:"path" validate:"required,max=1024"`
	MimeType  string `json:"mime_type" validate:"max=100"`
	SizeBytes int64  `json:"size_bytes" validate:"gte=0"`
}

type mediaResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(m Media) mediaResponse {
	return mediaResponse{
		ID:        m.ID,
		Name:      m.Name,
		Path:      m.Path,
		MimeType:  m.MimeType,
		SizeBytes: m.SizeBytes,
		AuthorID:  m.AuthorID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
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
		h.logger.Error("list media", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]mediaResponse, 0, len(result))
	for _, m := range result {
		out = append(out, toResponse(m))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(item))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload mediaPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor := shared.ActorFromContext(r.Context())
	item, err := h.service.Create(r.Context(), actor, Input{
		Name:      payload.Name,
		Path:      payload.Path,
		MimeType:  payload.MimeType,
		SizeBytes: payload.SizeBytes,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(item))
}

// update is unreachable in practice: the gate for media updates denies
// every caller. It stays mounted so the route answers 403 rather than 405.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	httpx.Problem(w, http.StatusForbidden, "Forbidden", "media records cannot be edited")
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
