package posts

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ripplefeed/ripple/internal/platform/httpx"
	"github.com/ripplefeed/ripple/internal/shared"
	"github.com/ripplefeed/ripple/internal/uploads"
)

// Handler wires HTTP endpoints for the feed.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	store     *uploads.Store
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, store *uploads.Store) *Handler {
	return &Handler{logger: logger, service: service, store: store, validator: validator.New()}
}

// MountRoutes registers post routes. The caller mounts this group behind
// the bearer auth middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

type listResponse struct {
	Status string `json:"status"`
	Data   []Post `json:"data"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list posts failed", slog.Any("error", err))
		httpx.Error(w)
		return
	}
	if feed == nil {
		feed = []Post{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Status: httpx.StatusSuccess, Data: feed})
}

type createResponse struct {
	Status string `json:"status"`
	Data   *Post  `json:"data"`
}

// maxFormOverheadBytes is slack on top of the image cap for the multipart
// framing and the text fields of the form.
const maxFormOverheadBytes = 1 << 20

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, httpx.UnauthorizedMessage)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.store.MaxBytes()+maxFormOverheadBytes)
	if err := r.ParseMultipartForm(h.store.MaxBytes()); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httpx.Fail(w, http.StatusBadRequest, "Upload too large")
			return
		}
		httpx.Fail(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	req := CreatePostRequest{
		Title: r.PostFormValue("title"),
		Body:  r.PostFormValue("body"),
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Title and body are required")
		return
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer func() {
			_ = file.Close()
		}()
		path, err := h.store.Save(file, header)
		if err != nil {
			switch {
			case errors.Is(err, uploads.ErrUnsupportedType):
				httpx.Fail(w, http.StatusBadRequest, "Unsupported image type")
			case errors.Is(err, uploads.ErrTooLarge):
				httpx.Fail(w, http.StatusBadRequest, "Image too large")
			default:
				h.logger.Error("store image failed", slog.Any("error", err))
				httpx.Error(w)
			}
			return
		}
		req.Image = &path
	}

	post, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		// The image was written before the insert; do not leave it
		// orphaned when the post never materializes.
		if req.Image != nil {
			if removeErr := h.store.Remove(*req.Image); removeErr != nil {
				h.logger.Warn("remove orphaned image failed", slog.Any("error", removeErr))
			}
		}
		if errors.Is(err, shared.ErrValidation) {
			httpx.Fail(w, http.StatusBadRequest, "Title and body are required")
			return
		}
		h.logger.Error("create post failed", slog.Any("error", err))
		httpx.Error(w)
		return
	}

	httpx.JSON(w, http.StatusCreated, createResponse{Status: httpx.StatusSuccess, Data: post})
}
