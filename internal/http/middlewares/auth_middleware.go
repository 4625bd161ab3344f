package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/geocoder89/articlehub/internal/actorctx"
	"github.com/geocoder89/articlehub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (user.User, error)
}

type AuthMiddleware struct {
	resolver IdentityResolver
}

func NewAuthMiddleware(resolver IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth is the single gate in front of every protected route. Any
// resolution failure (missing header, bad signature, expired token,
// unknown user) produces the same 401 body; the concrete reason is only
// logged. The resolved user is stashed on the gin context and its id on
// the request context for downstream logging.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "missing bearer header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthorized(c, "empty bearer token")
			return
		}

		u, err := m.resolver.Resolve(c.Request.Context(), raw)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		c.Set(ctxUserKey, u)
		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), u.ID))

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	reqID, _ := c.Get(CtxRequestID)

	slog.Default().DebugContext(c.Request.Context(), "auth_rejected",
		"reason", reason,
		"request_id", reqID,
	)

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": "Invalid or missing credentials",
		},
	})
}

// CurrentUser returns the identity resolved by RequireAuth. Handlers behind
// the guard can rely on ok being true.
func CurrentUser(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}
