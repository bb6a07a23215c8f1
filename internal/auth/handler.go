package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ripplefeed/ripple/internal/platform/httpx"
	"github.com/ripplefeed/ripple/internal/shared"
)

// Response messages fixed by the existing client contract. The credential
// message is shared by "no such user" and "wrong password" on purpose:
// identical bytes defeat account enumeration.
const (
	msgAllFieldsRequired  = "All fields are required"
	msgUserAlreadyExists  = "User already exists"
	msgCredentialsMissing = "Email and Password are required"
	msgInvalidCredentials = "Invalid email or password"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers public auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/signup", h.handleSignup)
	r.Post("/login", h.handleLogin)
}

type signupResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	Data   struct {
		User *User `json:"user"`
	} `json:"data"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, msgAllFieldsRequired)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, msgAllFieldsRequired)
		return
	}

	token, user, err := h.service.Signup(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			httpx.Fail(w, http.StatusBadRequest, msgAllFieldsRequired)
		case errors.Is(err, shared.ErrDuplicateUser):
			httpx.Fail(w, http.StatusBadRequest, msgUserAlreadyExists)
		default:
			h.logger.Error("signup failed", slog.Any("error", err))
			httpx.Error(w)
		}
		return
	}

	resp := signupResponse{Status: httpx.StatusSuccess, Token: token}
	resp.Data.User = user
	httpx.JSON(w, http.StatusCreated, resp)
}

type loginResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	User   *User  `json:"user"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, msgCredentialsMissing)
		return
	}

	token, user, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			httpx.Fail(w, http.StatusBadRequest, msgCredentialsMissing)
		case errors.Is(err, shared.ErrInvalidCredentials):
			httpx.Fail(w, http.StatusBadRequest, msgInvalidCredentials)
		default:
			h.logger.Error("login failed", slog.Any("error", err))
			httpx.Error(w)
		}
		return
	}

	httpx.JSON(w, http.StatusOK, loginResponse{
		Status: httpx.StatusSuccess,
		Token:  token,
		User:   user,
	})
}

type meResponse struct {
	Status string `json:"status"`
	Data   *User  `json:"data"`
}

// Me returns the authenticated user's record. It runs behind RequireAuth,
// so the subject id is already verified and present in context.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, httpx.UnauthorizedMessage)
		return
	}

	user, err := h.service.UserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Token is valid but the account is gone.
			httpx.Fail(w, http.StatusUnauthorized, httpx.UnauthorizedMessage)
			return
		}
		h.logger.Error("current user lookup failed", slog.Any("error", err))
		httpx.Error(w)
		return
	}

	httpx.JSON(w, http.StatusOK, meResponse{Status: httpx.StatusSuccess, Data: user})
}
