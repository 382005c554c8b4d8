package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/gophtask/internal/server/handlers"
	"github.com/iudanet/gophtask/internal/server/jwt"
	"github.com/iudanet/gophtask/pkg/api"
)

// TokenValidator проверяет access token и возвращает его claims
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware создает middleware для проверки JWT токена.
// Identity из токена кладется в контекст; заголовок X-Gophtask-Identity,
// если передан, должен с ней совпадать.
func AuthMiddleware(logger *slog.Logger, tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header")
				handlers.SendError(logger, w, "missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				logger.Warn("Invalid Authorization header format")
				handlers.SendError(logger, w, "invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				handlers.SendError(logger, w, "invalid token", http.StatusUnauthorized)
				return
			}

			if requested := r.Header.Get(api.IdentityHeader); requested != "" && requested != claims.Identity {
				logger.Warn("Identity mismatch",
					"token_identity", claims.Identity,
					"requested_identity", requested)
				handlers.SendError(logger, w, "token does not grant access to this identity", http.StatusForbidden)
				return
			}

			logger.Debug("Identity authenticated", "identity", claims.Identity)

			next.ServeHTTP(w, r.WithContext(handlers.WithIdentity(r.Context(), claims.Identity)))
		})
	}
}
