package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ripplefeed/ripple/internal/platform/httpx"
	"github.com/ripplefeed/ripple/internal/shared"
)

// Middleware gates protected routes behind bearer token verification.
type Middleware struct {
	logger *slog.Logger
	tokens *Tokens
}

// NewMiddleware constructs the bearer auth middleware.
func NewMiddleware(logger *slog.Logger, tokens *Tokens) *Middleware {
	return &Middleware{logger: logger, tokens: tokens}
}

// RequireAuth verifies the Authorization header and injects the subject id
// into the request context. Every verification failure yields the same
// generic 401 body; the subtype (expired, bad signature, malformed) is only
// logged, so the response never tells a caller why a token was rejected.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httpx.Fail(w, http.StatusUnauthorized, httpx.UnauthorizedMessage)
			return
		}

		userID, err := m.tokens.Verify(token)
		if err != nil {
			if m.logger != nil {
				if shared.IsTokenError(err) {
					m.logger.Warn("token rejected",
						slog.String("path", r.URL.Path),
						slog.Any("reason", err),
					)
				} else {
					m.logger.Error("token verification failed",
						slog.String("path", r.URL.Path),
						slog.Any("error", err),
					)
				}
			}
			httpx.Fail(w, http.StatusUnauthorized, httpx.UnauthorizedMessage)
			return
		}

		ctx := shared.ContextWithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
