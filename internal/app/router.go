package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ripplefeed/ripple/internal/auth"
	"github.com/ripplefeed/ripple/internal/comments"
	"github.com/ripplefeed/ripple/internal/posts"
	"github.com/ripplefeed/ripple/internal/uploads"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthHandler     *auth.Handler
	AuthMiddleware  *auth.Middleware
	PostsHandler    *posts.Handler
	CommentsHandler *comments.Handler
	UploadStore     *uploads.Store
}

// NewRouter constructs the chi.Router with Ripple defaults. All API routes
// live under /api/v1 to preserve the existing client contract; protected
// groups require a bearer token.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.UploadStore != nil {
		r.Get("/uploads/{name}", params.UploadStore.Serve)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAuth)

			r.Get("/me", params.AuthHandler.Me)
			if params.PostsHandler != nil {
				r.Route("/posts", params.PostsHandler.MountRoutes)
			}
			if params.CommentsHandler != nil {
				r.Route("/comments", params.CommentsHandler.MountRoutes)
			}
		})
	})

	return r
}
