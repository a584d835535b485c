package chi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/friendsearch/internal/logger"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

type userIDKey struct{}

// UserIDFromContext returns the authenticated caller's user id.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// ContextWithUserID stores the caller's user id in the context.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// IdentityMiddleware resolves the caller's user id. With tokens configured,
// the Bearer token is mapped to a user id; otherwise the id is taken from
// userHeader, which a trusted upstream sets. Requests without an identity are
// rejected with 401.
func IdentityMiddleware(tokens map[string]string, userHeader string) func(http.Handler) http.Handler {
	users := make(map[string]string, len(tokens))
	for token, user := range tokens {
		if token != "" && user != "" {
			users[token] = user
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			var userID string
			if len(users) > 0 {
				auth := r.Header.Get("Authorization")
				if auth == "" {
					writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
					return
				}
				const bearerPrefix = "Bearer "
				if !strings.HasPrefix(auth, bearerPrefix) {
					writeError(w, http.StatusUnauthorized, codeUnauthorized, "authorization header must use Bearer scheme")
					return
				}
				var ok bool
				if userID, ok = users[auth[len(bearerPrefix):]]; !ok {
					writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token")
					return
				}
			} else {
				userID = strings.TrimSpace(r.Header.Get(userHeader))
				if userID == "" {
					writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing "+userHeader+" header")
					return
				}
			}

			ctx := ContextWithUserID(r.Context(), userID)
			ctx = logger.With(ctx, zap.String("user_id", userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
