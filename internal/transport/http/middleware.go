package http

import (
	"net/http"
	"strings"

	"storefront/internal/models"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ctxRawToken = "raw_token"

// AuthRequired validates the Bearer token, rejects revoked tokens and
// injects the caller's identity into the request context for the service
// layer to read.
func AuthRequired(tokens service.TokenProvider, blacklist service.TokenBlacklist, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Code: "unauthorized", Message: "missing Authorization header"})
			return
		}
		raw, ok := ExtractBearerToken(authz)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Code: "unauthorized", Message: "invalid Authorization header"})
			return
		}

		claims, err := tokens.ParseAccess(c.Request.Context(), raw)
		if err != nil {
			log.Warn("token parse failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Code: "unauthorized", Message: "invalid token"})
			return
		}

		revoked, err := blacklist.IsTokenBlacklisted(c.Request.Context(), claims.TokenID)
		if err != nil {
			log.Error("blacklist lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, APIError{Code: "internal_error", Message: "internal server error"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Code: "unauthorized", Message: "token revoked"})
			return
		}

		ctx := service.WithUserID(c.Request.Context(), claims.UserID)
		ctx = service.WithRole(ctx, claims.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ctxRawToken, raw)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
// Must run after AuthRequired.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role, ok := service.RoleFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Code: "unauthorized", Message: "missing identity"})
			return
		}
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{Code: "forbidden", Message: "insufficient role"})
			return
		}
		c.Next()
	}
}

// ExtractBearerToken pulls the token out of an Authorization header value,
// tolerating surrounding quotes and trailing garbage.
func ExtractBearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.Trim(strings.TrimSpace(parts[1]), " \"'")
	if i := strings.IndexRune(t, ','); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if i := strings.IndexByte(t, ' '); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.Trim(t, " \"'")
	return t, true
}
