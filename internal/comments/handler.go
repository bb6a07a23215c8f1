package comments

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ripplefeed/ripple/internal/platform/httpx"
	"github.com/ripplefeed/ripple/internal/shared"
)

// Handler wires HTTP endpoints for comments.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers comment routes. The caller mounts this group behind
// the bearer auth middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/post/{postId}", h.listByPost)
}

type commentResponse struct {
	Status string   `json:"status"`
	Data   *Comment `json:"data"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, httpx.UnauthorizedMessage)
		return
	}

	var req CreateCommentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Post and content are required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Post and content are required")
		return
	}

	comment, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			httpx.Fail(w, http.StatusBadRequest, "Post and content are required")
		case errors.Is(err, shared.ErrNotFound):
			httpx.Fail(w, http.StatusNotFound, "Post not found")
		default:
			h.logger.Error("create comment failed", slog.Any("error", err))
			httpx.Error(w)
		}
		return
	}

	httpx.JSON(w, http.StatusCreated, commentResponse{Status: httpx.StatusSuccess, Data: comment})
}

type listResponse struct {
	Status string    `json:"status"`
	Data   []Comment `json:"data"`
}

func (h *Handler) listByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postId"), 10, 64)
	if err != nil || postID <= 0 {
		httpx.Fail(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	list, err := h.service.ListByPost(r.Context(), postID)
	if err != nil {
		h.logger.Error("list comments failed", slog.Any("error", err))
		httpx.Error(w)
		return
	}
	if list == nil {
		list = []Comment{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Status: httpx.StatusSuccess, Data: list})
}
