package posts

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

// Handler wires HTTP endpoints for posts.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers post routes guarded by the action gate.
func (h *Handler) MountRoutes(r chi.Router, gate authz.Middleware) {
	r.With(gate.Require(authz.ResourcePosts, authz.ActionList)).Get("/", h.list)
	r.With(gate.Require(authz.ResourcePosts, authz.ActionRetrieve)).Get("/{id}", h.get)
	r.With(gate.Require(authz.ResourcePosts, authz.ActionCreate)).Post("/", h.create)
	r.With(gate.Require(authz.ResourcePosts, authz.ActionUpdate)).Put("/{id}", h.update)
	r.With(gate.Require(authz.ResourcePosts, authz.ActionDestroy)).Delete("/{id}", h.delete)
}

type postPayload struct {
	Title   string  `json:"title" validate:"required,max=255"`
	Content string  `json:"content"`
	Status  *string `json:"status,omitempty"`
}

type postResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(p Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		AuthorID:  p.AuthorID,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	result, err := h.service.List(r.Context(), actor)
	if err != nil {
		h.logger.Error("list posts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]postResponse, 0, len(result))
	for _, p := range result {
		out = append(out, toResponse(p))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, &shared.ValidationError{Field: "id", Message: "must be a valid uuid"})
		return
	}
	actor := shared.ActorFromContext(r.Context())
	post, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(post))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var payload postPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor := shared.ActorFromContext(r.Context())
	// Client-supplied status is deliberately dropped: new posts are drafts.
	post, err := h.service.Create(r.Context(), actor, CreateInput{Title: payload.Title, Content: payload.Content})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(post))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, &shared.ValidationError{Field: "id", Message: "must be a valid uuid"})
		return
	}
	var payload struct {
		Title   *string `json:"title,omitempty"`
		Content *string `json:"content,omitempty"`
		Status  *string `json:"status,omitempty"`
	}
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	actor := shared.ActorFromContext(r.Context())
	post, err := h.service.Update(r.Context(), actor, id, UpdateInput{
		Title:   payload.Title,
		Content: payload.Content,
		Status:  payload.Status,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(post))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, &shared.ValidationError{Field: "id", Message: "must be a valid uuid"})
		return
	}
	actor := shared.ActorFromContext(r.Context())
	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
