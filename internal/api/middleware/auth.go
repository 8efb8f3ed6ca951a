package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-VenueBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

const (
	msgMissingToken = "Authorization token is required"
	msgInvalidToken = "Invalid or expired token"

	bearerPrefix = "Bearer "
)

type contextKey string

const principalKey contextKey = "principal"

// Principal аутентифицированный администратор площадки
type Principal struct {
	AdminID int64
	VenueID int64
	Role    domain.AdminRole
}

// Auth проверяет bearer JWT и кладет Principal в контекст запроса
func Auth(parser TokenParser, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}
			if !strings.HasPrefix(header, bearerPrefix) {
				logger.Warn("Auth: invalid authorization header format, path=%s", r.URL.Path)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			claims, err := parser.ParseToken(strings.TrimSpace(header[len(bearerPrefix):]))
			if err != nil {
				logger.Warn("Auth: token rejected, path=%s: %v", r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			principal := Principal{AdminID: claims.AdminID, VenueID: claims.VenueID, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// WithPrincipal кладет Principal в контекст
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal извлекает Principal из контекста
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
